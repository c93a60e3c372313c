package live

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// SnapshotItem is one announcement as served by the signage backend's pull
// endpoint.
type SnapshotItem struct {
	AnnouncementID       string  `json:"announcement_id"`
	TrainNumber          string  `json:"train_number"`
	TrainName            string  `json:"train_name"`
	FromStation          string  `json:"from_station"`
	ToStation            string  `json:"to_station"`
	PlatformNumber       int     `json:"platform_number"`
	AnnouncementCategory string  `json:"announcement_category"`
	AIAvatarModel        string  `json:"ai_avatar_model"`
	Status               string  `json:"status"`
	Message              string  `json:"message"`
	ProgressPercentage   *int    `json:"progress_percentage,omitempty"`
	VideoURL             *string `json:"video_url,omitempty"`
	ErrorMessage         *string `json:"error_message,omitempty"`
	ReceivedAt           string  `json:"received_at"`
	UpdatedAt            string  `json:"updated_at"`
}

// Client wraps the signage backend's REST surface used by the signboard:
// snapshot fetch, announcement clear and transient media cleanup.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a REST client against the backend base URL,
// e.g. "http://signage-server:8080/api/v1".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// FetchAnnouncements pulls the current snapshot (0 or 1 items, newest first).
func (c *Client) FetchAnnouncements(ctx context.Context) ([]SnapshotItem, error) {
	url := c.baseURL + "/live-announcements/list"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("snapshot fetch error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var items []SnapshotItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return items, nil
}

// ClearAnnouncements asks the backend to purge the live announcement record.
func (c *Client) ClearAnnouncements(ctx context.Context) error {
	return c.deleteExpectingSuccess(ctx, "/live-announcements/clear")
}

// CleanupTempVideos asks the backend to delete transient media artifacts.
func (c *Client) CleanupTempVideos(ctx context.Context) error {
	return c.deleteExpectingSuccess(ctx, "/video-generation/cleanup-temp-videos")
}

func (c *Client) deleteExpectingSuccess(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend error: status %d", resp.StatusCode)
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("backend reported failure for %s", path)
	}
	return nil
}

// Clear runs the administrative clear operation: purge the upstream record,
// then reset the local slot unconditionally, then delete transient media.
// A media cleanup failure is reported but does not undo the first two steps,
// so the visible state is empty even when artifact cleanup partially fails.
func Clear(ctx context.Context, client *Client, store *Store) error {
	if err := client.ClearAnnouncements(ctx); err != nil {
		return fmt.Errorf("clearing live announcements: %w", err)
	}

	store.Clear()

	if err := client.CleanupTempVideos(ctx); err != nil {
		logrus.WithError(err).Warn("Announcements cleared but media cleanup failed")
		return fmt.Errorf("announcements cleared, but media cleanup failed: %w", err)
	}
	return nil
}
