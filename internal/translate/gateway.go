package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Translation is one per-language result returned by the translation backend.
type Translation struct {
	TranslatedText   string   `json:"translated_text"`
	DetectedLanguage string   `json:"detected_language,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// Request is the payload sent to the translation backend.
type Request struct {
	SourceText          string   `json:"source_text"`
	SourceLanguageCode  string   `json:"source_language_code"`
	TargetLanguageCodes []string `json:"target_language_codes"`
}

// Response mirrors the translation backend's multilingual response.
type Response struct {
	SourceText      string                 `json:"source_text"`
	SourceLanguage  string                 `json:"source_language"`
	TargetLanguages []string               `json:"target_languages"`
	Translations    map[string]Translation `json:"translations"`
	Status          string                 `json:"status"`
	Error           string                 `json:"error,omitempty"`
}

// Gateway is a stateless wrapper over the external translation API.
// It performs exactly one HTTP call per Translate invocation, never retries,
// and surfaces every failure to the caller.
type Gateway struct {
	httpClient *http.Client
	baseURL    string
}

// NewGateway creates a translation gateway against the given base URL
// (e.g. "http://host/api/v1/translation").
func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Translate sends one text field for translation into all target languages.
// The returned map is keyed by target language code. A language missing from
// the map, or carrying an empty translated text, must be treated by the
// caller as a failed translation.
func (g *Gateway) Translate(ctx context.Context, text, sourceLang string, targetLangs []string) (map[string]Translation, error) {
	payload, err := json.Marshal(Request{
		SourceText:          text,
		SourceLanguageCode:  sourceLang,
		TargetLanguageCodes: targetLangs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode translation request: %w", err)
	}

	url := g.baseURL + "/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logrus.WithFields(logrus.Fields{
		"source_lang":  sourceLang,
		"target_langs": targetLangs,
	}).Debug("Calling translation API")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logrus.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"body":        string(body),
		}).Error("Translation API returned error")
		return nil, fmt.Errorf("translation API error: status %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode translation response: %w", err)
	}

	if result.Status == "error" {
		return nil, fmt.Errorf("translation API reported failure: %s", result.Error)
	}

	return result.Translations, nil
}

// SupportedLanguage describes one language the backend can translate.
type SupportedLanguage struct {
	LanguageCode string `json:"language_code"`
	DisplayName  string `json:"display_name"`
}

// SupportedLanguages fetches the list of languages the backend supports.
func (g *Gateway) SupportedLanguages(ctx context.Context) ([]SupportedLanguage, error) {
	url := g.baseURL + "/supported-languages"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supported-languages request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translation API error: status %d", resp.StatusCode)
	}

	var result struct {
		Languages []SupportedLanguage `json:"languages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode supported-languages response: %w", err)
	}
	return result.Languages, nil
}
