package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	t.Run("creation", func(t *testing.T) {
		raw := []byte(`{"event":"announcement_received","data":{
			"announcement_id":"a-1","train_number":"12951","train_name":"Mumbai Rajdhani",
			"from_station":"Mumbai Central","to_station":"New Delhi","platform_number":4,
			"announcement_category":"arrival","ai_avatar_model":"female",
			"status":"received","message":"queued","received_at":"2026-08-30T10:00:00Z"}}`)

		ev, err := DecodeEvent(raw)
		require.NoError(t, err)
		assert.Equal(t, KindCreation, ev.Kind)
		assert.Equal(t, "a-1", ev.Creation.AnnouncementID)
		assert.Equal(t, "12951", ev.Creation.TrainNumber)
		assert.Equal(t, 4, ev.Creation.PlatformNumber)
		assert.Equal(t, StatusReceived, ev.Creation.Status)
	})

	t.Run("creation defaults missing status", func(t *testing.T) {
		ev, err := DecodeEvent([]byte(`{"event":"announcement_received","data":{"announcement_id":"a-1"}}`))
		require.NoError(t, err)
		assert.Equal(t, StatusReceived, ev.Creation.Status)
	})

	t.Run("update", func(t *testing.T) {
		raw := []byte(`{"event":"announcement_update","data":{
			"announcement_id":"a-1","status":"completed","message":"done",
			"progress_percentage":100,"video_url":"/media/v.mp4","updated_at":"2026-08-30T10:02:00Z"}}`)

		ev, err := DecodeEvent(raw)
		require.NoError(t, err)
		assert.Equal(t, KindUpdate, ev.Kind)
		assert.Equal(t, StatusCompleted, ev.Update.Status)
		require.NotNil(t, ev.Update.ProgressPercentage)
		assert.Equal(t, 100, *ev.Update.ProgressPercentage)
		require.NotNil(t, ev.Update.VideoURL)
		assert.Equal(t, "/media/v.mp4", *ev.Update.VideoURL)
	})

	t.Run("error", func(t *testing.T) {
		ev, err := DecodeEvent([]byte(`{"event":"announcement_error","data":{"announcement_id":"a-1","error_message":"render crashed"}}`))
		require.NoError(t, err)
		assert.Equal(t, KindError, ev.Kind)
		assert.Equal(t, "render crashed", ev.Err.ErrorMessage)
	})

	t.Run("unknown event name", func(t *testing.T) {
		_, err := DecodeEvent([]byte(`{"event":"joined_room","data":{"room":"live_announcements"}}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})

	t.Run("missing announcement id", func(t *testing.T) {
		for _, name := range []string{"announcement_received", "announcement_update", "announcement_error"} {
			_, err := DecodeEvent([]byte(`{"event":"` + name + `","data":{}}`))
			assert.Error(t, err, name)
			assert.NotErrorIs(t, err, ErrUnknownEvent)
		}
	})

	t.Run("malformed frame", func(t *testing.T) {
		_, err := DecodeEvent([]byte(`not json`))
		require.Error(t, err)
	})
}
