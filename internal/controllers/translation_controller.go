package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"isl_signage/internal/translate"
)

// TranslationController exposes the translation backend to API clients.
// Route provisioning talks to the gateway directly; these endpoints exist
// for ad-hoc translation and for UIs that need the language list.
type TranslationController struct {
	gateway *translate.Gateway
}

func NewTranslationController(gateway *translate.Gateway) *TranslationController {
	return &TranslationController{gateway: gateway}
}

type translateInput struct {
	SourceText          string   `json:"source_text" binding:"required"`
	SourceLanguageCode  string   `json:"source_language_code" binding:"required"`
	TargetLanguageCodes []string `json:"target_language_codes" binding:"required,min=1"`
}

// Translate forwards one text to the translation backend and returns the
// per-language results.
func (tc *TranslationController) Translate(c *gin.Context) {
	var input translateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	translations, err := tc.gateway.Translate(c.Request.Context(), input.SourceText, input.SourceLanguageCode, input.TargetLanguageCodes)
	if err != nil {
		logrus.WithError(err).Error("Translation request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Translation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source_text":      input.SourceText,
		"source_language":  input.SourceLanguageCode,
		"target_languages": input.TargetLanguageCodes,
		"translations":     translations,
		"status":           "success",
	})
}

// SupportedLanguages returns the languages the backend can translate into.
func (tc *TranslationController) SupportedLanguages(c *gin.Context) {
	languages, err := tc.gateway.SupportedLanguages(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Supported-languages request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch supported languages: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"languages": languages})
}
