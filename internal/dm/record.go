package dm

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is a normalized DM ready to be inserted. Nil optional fields are
// omitted so the datastore applies its column default.
type Record struct {
	UserID         string  `json:"user_id"`
	Platform       string  `json:"platform"`
	SenderUsername string  `json:"sender_username"`
	SenderName     *string `json:"sender_name,omitempty"`
	MessageText    string  `json:"message_text"`
	MessageID      *string `json:"message_id,omitempty"`
	ConversationID *string `json:"conversation_id,omitempty"`
	Timestamp      string  `json:"timestamp"`
	Status         string  `json:"status"`
}

// Row is a stored DM as returned by the datastore.
type Row struct {
	ID             RowID   `json:"id"`
	UserID         string  `json:"user_id"`
	Platform       string  `json:"platform"`
	SenderUsername string  `json:"sender_username"`
	SenderName     *string `json:"sender_name"`
	MessageText    string  `json:"message_text"`
	MessageID      *string `json:"message_id"`
	ConversationID *string `json:"conversation_id"`
	Timestamp      string  `json:"timestamp"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// RowID holds a primary key that may be a UUID string or a serial integer,
// depending on how the table was created. It round-trips either form.
type RowID string

// UnmarshalJSON accepts both quoted and bare (numeric) keys.
func (id *RowID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = RowID(n.String())
	return nil
}

// MarshalJSON writes integer keys back as numbers and everything else as a string.
func (id RowID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}
