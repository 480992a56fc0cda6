package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vcrobe/nojs-messenger/internal/transport"
)

// ErrUnauthorized matches every *Error with status 401.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx response.
type Error struct {
	Op     string
	Status int
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("api: %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("api: %s: status %d: %s", e.Op, e.Status, e.Reason)
}

// Is reports whether target is ErrUnauthorized and the status is 401.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// checkResponse converts a non-2xx response into *Error. The reason comes
// from the JSON "reason" field when present, else from the raw body.
func checkResponse(op string, resp *transport.Response) error {
	if resp.OK() {
		return nil
	}
	var body struct {
		Reason string `json:"reason"`
	}
	reason := resp.Body
	if err := json.Unmarshal([]byte(resp.Body), &body); err == nil && body.Reason != "" {
		reason = body.Reason
	}
	return &Error{Op: op, Status: resp.Status, Reason: reason}
}
