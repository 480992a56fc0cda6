package chatsocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Frame types exchanged with the chat server.
const (
	TypeMessage = "message"
	TypeFile    = "file"
	TypeGetOld  = "get old"
	TypePing    = "ping"
	TypePong    = "pong"
)

// Frame is an outgoing payload.
type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// FlexInt decodes from a JSON number or a numeric string. The server uses
// both for ids.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("chatsocket: invalid id %q", b)
	}
	*n = FlexInt(v)
	return nil
}

// File is the attachment of a file message.
type File struct {
	ID          FlexInt `json:"id"`
	Path        string  `json:"path"`
	Filename    string  `json:"filename"`
	ContentType string  `json:"content_type"`
}

// Message is an incoming chat message.
type Message struct {
	ID      FlexInt `json:"id"`
	ChatID  FlexInt `json:"chat_id"`
	UserID  FlexInt `json:"user_id"`
	Type    string  `json:"type"`
	Content string  `json:"content"`
	Time    string  `json:"time"`
	IsRead  bool    `json:"is_read"`
	File    *File   `json:"file,omitempty"`
}

// Visible reports whether the message is shown in the conversation.
func (m Message) Visible() bool {
	return m.Type == TypeMessage || m.Type == TypeFile
}

// Decode parses an incoming frame: a single message, or an array of them as
// sent in reply to a history request.
func Decode(raw []byte) ([]Message, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []Message
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("chatsocket: decode history: %w", err)
		}
		return list, nil
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("chatsocket: decode message: %w", err)
	}
	return []Message{m}, nil
}
