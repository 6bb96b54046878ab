package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenericTransferMessage stands in when the server gave no readable reason.
const GenericTransferMessage = "fetch error"

// TransferError reports a failed exchange with the gallery server: either a
// network failure (Err set, Status 0) or a non-2xx response.
type TransferError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransferError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transfer failed: http %d: %s", e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("transfer failed: %s: %v", e.Message, e.Err)
	}
	return "transfer failed: " + e.Message
}

func (e *TransferError) Unwrap() error { return e.Err }

// serverMessage extracts the error text from a failed response body. The
// server answers {"error": code, "message": text}; a bare JSON string is
// accepted as well.
func serverMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Message); msg != "" {
			return msg
		}
		if code := strings.TrimSpace(envelope.Error); code != "" {
			return code
		}
	}
	var text string
	if err := json.Unmarshal(body, &text); err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	return GenericTransferMessage
}
