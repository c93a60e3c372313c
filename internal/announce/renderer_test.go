package announce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRenderer_Render(t *testing.T) {
	t.Run("successful render", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/generate", r.URL.Path)

			var req RenderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "12951", req.TrainNumber)
			assert.Equal(t, "female", req.Model)

			json.NewEncoder(w).Encode(RenderResult{
				Success:    true,
				PreviewURL: "/media/previews/12951.mp4",
			})
		}))
		defer server.Close()

		r := NewRenderer(server.URL, 5*time.Second)
		result, err := r.Render(context.Background(), RenderRequest{
			TrainNumber:          "12951",
			TrainName:            "Mumbai Rajdhani",
			FromStationName:      "Mumbai Central",
			ToStationName:        "New Delhi",
			Platform:             4,
			AnnouncementCategory: "arrival",
			Model:                "female",
		})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "/media/previews/12951.mp4", result.PreviewURL)
	})

	t.Run("pipeline reports failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(RenderResult{Success: false, Error: "avatar assets missing"})
		}))
		defer server.Close()

		r := NewRenderer(server.URL, 5*time.Second)
		result, err := r.Render(context.Background(), RenderRequest{TrainNumber: "12951"})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "avatar assets missing", result.Error)
	})

	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "out of GPU memory", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		r := NewRenderer(server.URL, 5*time.Second)
		_, err := r.Render(context.Background(), RenderRequest{TrainNumber: "12951"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})
}

func TestHTTPRenderer_CleanupTempVideos(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/cleanup-temp-videos", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		r := NewRenderer(server.URL, 5*time.Second)
		require.NoError(t, r.CleanupTempVideos(context.Background()))
	})

	t.Run("failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "locked", http.StatusConflict)
		}))
		defer server.Close()

		r := NewRenderer(server.URL, 5*time.Second)
		require.Error(t, r.CleanupTempVideos(context.Background()))
	})
}
