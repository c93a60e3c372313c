package announce

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

// RenderRequest is the payload handed to the video rendering pipeline.
type RenderRequest struct {
	TrainNumber          string `json:"train_number"`
	TrainName            string `json:"train_name"`
	FromStationName      string `json:"from_station_name"`
	ToStationName        string `json:"to_station_name"`
	Platform             int    `json:"platform"`
	AnnouncementCategory string `json:"announcement_category"`
	Model                string `json:"model"` // "male" or "female"
}

// RenderResult is what the pipeline reports back.
type RenderResult struct {
	Success    bool   `json:"success"`
	PreviewURL string `json:"preview_url"`
	Error      string `json:"error,omitempty"`
}

// Renderer is the boundary to the external sign-language video pipeline.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) (*RenderResult, error)
	CleanupTempVideos(ctx context.Context) error
}

type httpRenderer struct {
	httpClient *http.Client
	baseURL    string
}

// NewRenderer returns an HTTP client for the rendering pipeline
// (e.g. "http://host/api/v1/video-generation").
func NewRenderer(baseURL string, timeout time.Duration) Renderer {
	return &httpRenderer{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

func (r *httpRenderer) Render(ctx context.Context, renderReq RenderRequest) (*RenderResult, error) {
	payload, err := json.Marshal(renderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode render request: %w", err)
	}

	url := r.baseURL + "/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logrus.WithFields(logrus.Fields{
		"train_number": renderReq.TrainNumber,
		"model":        renderReq.Model,
	}).Info("Requesting ISL video render")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("render pipeline error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result RenderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode render response: %w", err)
	}
	return &result, nil
}

func (r *httpRenderer) CleanupTempVideos(ctx context.Context) error {
	url := r.baseURL + "/cleanup-temp-videos"
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cleanup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("render pipeline error: status %d", resp.StatusCode)
	}
	return nil
}
