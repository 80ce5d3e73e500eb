package dm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// StatusNew is the status every stored DM starts with. Downstream consumers
// own later transitions.
const StatusNew = "new"

// RequiredFields lists the payload fields that must be present and non-empty,
// in the order they are reported to callers.
var RequiredFields = []string{"platform", "sender_username", "message_text", "timestamp", "user_id"}

// ErrMissingFields is returned by Validate when any required field is absent.
var ErrMissingFields = errors.New("missing required fields")

// Event is the webhook payload describing one received direct message.
type Event struct {
	Platform       string    `json:"platform"`
	SenderUsername string    `json:"sender_username"`
	SenderName     *string   `json:"sender_name,omitempty"`
	MessageText    string    `json:"message_text"`
	MessageID      *string   `json:"message_id,omitempty"`
	ConversationID *string   `json:"conversation_id,omitempty"`
	Timestamp      Timestamp `json:"timestamp"`
	UserID         UserRef   `json:"user_id"`
}

// UserRef is the owner key from the payload. Automation platforms send it as
// a string or a bare number; numbers keep their literal digits and a numeric
// zero counts as absent.
type UserRef string

// UnmarshalJSON accepts quoted and numeric keys.
func (u *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UserRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user_id must be a string or number: %w", err)
	}
	if f, err := strconv.ParseFloat(n.String(), 64); err == nil && f == 0 {
		*u = ""
		return nil
	}
	*u = UserRef(n.String())
	return nil
}

// Missing returns the required fields that are absent or empty.
func (e Event) Missing() []string {
	var missing []string
	if e.Platform == "" {
		missing = append(missing, "platform")
	}
	if e.SenderUsername == "" {
		missing = append(missing, "sender_username")
	}
	if e.MessageText == "" {
		missing = append(missing, "message_text")
	}
	if !e.Timestamp.Present() {
		missing = append(missing, "timestamp")
	}
	if e.UserID == "" {
		missing = append(missing, "user_id")
	}
	return missing
}

// Validate reports ErrMissingFields, wrapped with the offending names, when a
// required field is absent.
func (e Event) Validate() error {
	if missing := e.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingFields, missing)
	}
	return nil
}

// Record converts a validated event into the record to insert. The timestamp
// is normalized and the status forced to StatusNew.
func (e Event) Record() (Record, error) {
	ts, err := e.Timestamp.Canonical()
	if err != nil {
		return Record{}, err
	}
	return Record{
		UserID:         string(e.UserID),
		Platform:       e.Platform,
		SenderUsername: e.SenderUsername,
		SenderName:     e.SenderName,
		MessageText:    e.MessageText,
		MessageID:      e.MessageID,
		ConversationID: e.ConversationID,
		Timestamp:      ts,
		Status:         StatusNew,
	}, nil
}
