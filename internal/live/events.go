package live

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind discriminates the three inbound event shapes of the status channel.
type Kind string

const (
	KindCreation Kind = "creation"
	KindUpdate   Kind = "update"
	KindError    Kind = "error"
)

// ErrUnknownEvent marks a frame whose event name the consumer does not
// handle. Such frames are skipped, not treated as failures.
var ErrUnknownEvent = errors.New("unknown status channel event")

// CreationEvent carries the full announcement record. Every field except the
// id may be absent; absent fields default to their zero value and an absent
// status defaults to "received".
type CreationEvent struct {
	AnnouncementID       string `json:"announcement_id"`
	TrainNumber          string `json:"train_number"`
	TrainName            string `json:"train_name"`
	FromStation          string `json:"from_station"`
	ToStation            string `json:"to_station"`
	PlatformNumber       int    `json:"platform_number"`
	AnnouncementCategory string `json:"announcement_category"`
	AIAvatarModel        string `json:"ai_avatar_model"`
	Status               string `json:"status"`
	Message              string `json:"message"`
	ReceivedAt           string `json:"received_at"`
}

// UpdateEvent mutates the held announcement when its id matches.
type UpdateEvent struct {
	AnnouncementID     string  `json:"announcement_id"`
	Status             string  `json:"status"`
	Message            string  `json:"message"`
	ProgressPercentage *int    `json:"progress_percentage,omitempty"`
	VideoURL           *string `json:"video_url,omitempty"`
	ErrorMessage       *string `json:"error_message,omitempty"`
	UpdatedAt          string  `json:"updated_at"`
}

// ErrorEvent terminates the held announcement with an error status.
type ErrorEvent struct {
	AnnouncementID string `json:"announcement_id"`
	ErrorMessage   string `json:"error_message"`
}

// Event is the tagged union fed into the state machine. Exactly one of the
// payload fields is set, selected by Kind.
type Event struct {
	Kind     Kind
	Creation CreationEvent
	Update   UpdateEvent
	Err      ErrorEvent
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DecodeEvent parses one websocket frame into a typed event. Frames with an
// unhandled event name return ErrUnknownEvent; frames without an
// announcement id are rejected.
func DecodeEvent(raw []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed status channel frame: %w", err)
	}

	switch env.Event {
	case "announcement_received":
		var ev CreationEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("malformed creation event: %w", err)
		}
		if ev.AnnouncementID == "" {
			return nil, errors.New("creation event missing announcement_id")
		}
		if ev.Status == "" {
			ev.Status = StatusReceived
		}
		return &Event{Kind: KindCreation, Creation: ev}, nil

	case "announcement_update":
		var ev UpdateEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("malformed update event: %w", err)
		}
		if ev.AnnouncementID == "" {
			return nil, errors.New("update event missing announcement_id")
		}
		return &Event{Kind: KindUpdate, Update: ev}, nil

	case "announcement_error":
		var ev ErrorEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("malformed error event: %w", err)
		}
		if ev.AnnouncementID == "" {
			return nil, errors.New("error event missing announcement_id")
		}
		return &Event{Kind: KindError, Err: ev}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}
