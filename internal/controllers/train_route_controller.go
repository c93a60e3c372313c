package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"isl_signage/internal/saga"
	"isl_signage/internal/store"
)

// TrainRouteController exposes route CRUD and the provisioning saga.
type TrainRouteController struct {
	routes       store.RouteStore
	translations store.TranslationStore
	provisioner  *saga.Saga
}

func NewTrainRouteController(routes store.RouteStore, translations store.TranslationStore, provisioner *saga.Saga) *TrainRouteController {
	return &TrainRouteController{
		routes:       routes,
		translations: translations,
		provisioner:  provisioner,
	}
}

// Provision creates a route plus its full translation bundle in one saga run
// and streams progress to the caller as server-sent events. The final event
// is either "result" with both created records or "error" naming the failed
// step and whether compensation succeeded.
func (tc *TrainRouteController) Provision(c *gin.Context) {
	var req store.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Provision: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	progress := make(chan saga.Progress, 16)
	type outcome struct {
		result *saga.Result
		err    error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		result, err := tc.provisioner.Provision(c.Request.Context(), req, func(p saga.Progress) {
			progress <- p
		})
		close(progress)
		outcomeCh <- outcome{result: result, err: err}
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		p, ok := <-progress
		if !ok {
			out := <-outcomeCh
			if out.err != nil {
				c.SSEvent("error", provisionErrorBody(out.err))
			} else {
				c.SSEvent("result", out.result)
			}
			return false
		}
		c.SSEvent("progress", p)
		return true
	})
}

// provisionErrorBody shapes a saga failure so the caller can tell which step
// failed and whether manual cleanup is needed.
func provisionErrorBody(err error) gin.H {
	var stepErr *saga.StepError
	if errors.As(err, &stepErr) {
		body := gin.H{
			"step":  string(stepErr.Step),
			"error": stepErr.Err.Error(),
		}
		if stepErr.CompensationErr != nil {
			body["compensation_failed"] = true
			body["compensation_error"] = stepErr.CompensationErr.Error()
		} else {
			body["compensation_failed"] = false
		}
		return body
	}
	return gin.H{"error": err.Error()}
}

// ListRoutes returns all routes with their translation bundles.
func (tc *TrainRouteController) ListRoutes(c *gin.Context) {
	routes, err := tc.routes.List(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("ListRoutes: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": routes})
}

// GetRoute returns one route by id.
func (tc *TrainRouteController) GetRoute(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route id"})
		return
	}

	route, err := tc.routes.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching route: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": route})
}

// DeleteRoute removes a route; the translation bundle goes with it.
func (tc *TrainRouteController) DeleteRoute(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route id"})
		return
	}

	if err := tc.routes.Delete(c.Request.Context(), id); err != nil {
		logrus.WithError(err).WithField("route_id", id).Error("DeleteRoute: delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting route: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted"})
}

// GetRouteTranslations returns the translation bundle for one route.
func (tc *TrainRouteController) GetRouteTranslations(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route id"})
		return
	}

	bundle, err := tc.translations.GetByRouteID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Translations not found for route"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching translations: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bundle})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
