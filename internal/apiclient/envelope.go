package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"bybud-web/internal/apperr"
)

// StatusError is the envelope status of a failed call.
const StatusError = "ERROR"

// Envelope is the gateway's response wrapper.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode unwraps resp into T. An envelope whose status is ERROR is a backend
// error even on a 2xx reply. A missing or null data field yields the zero T.
func Decode[T any](client string, resp *Response) (T, error) {
	var zero T
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return zero, nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("%s: decode envelope: %w", client, err)
	}
	if strings.EqualFold(env.Status, StatusError) {
		return zero, &apperr.BackendError{Client: client, Status: resp.Status, Message: env.Message}
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, fmt.Errorf("%s: decode data: %w", client, err)
	}
	return out, nil
}

func envelopeMessage(body []byte) string {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
