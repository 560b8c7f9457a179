// Package envelope defines the AdsPay backend's response envelope. Every
// backend endpoint wraps its payload as {resp_code, resp_message, data};
// resp_code "00" means success and any other code is an application-level
// failure even when the HTTP status is 200.
package envelope

import (
	"encoding/json"
	"fmt"
	"io"
)

// RespCodeOK is the application-level success code.
const RespCodeOK = "00"

// Envelope is the generic response wrapper. Data stays raw so each caller
// can decode its own payload shape.
type Envelope struct {
	RespCode    string          `json:"resp_code"`
	RespMessage string          `json:"resp_message"`
	Data        json.RawMessage `json:"data"`
}

// Error is an application-level failure reported inside a 2xx response.
type Error struct {
	RespCode    string
	RespMessage string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend error %s: %s", e.RespCode, e.RespMessage)
}

// Decode reads an envelope from r and unmarshals its data into out when the
// response is successful. A non-"00" resp_code is returned as *Error. A nil
// out discards the payload.
func Decode(r io.Reader, out any) error {
	_, err := DecodeMessage(r, out)
	return err
}

// DecodeMessage is like Decode but also returns resp_message; mutating
// calls whose only useful payload is the message use this form.
func DecodeMessage(r io.Reader, out any) (string, error) {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return "", fmt.Errorf("decoding response envelope: %w", err)
	}
	if env.RespCode != RespCodeOK {
		return "", &Error{RespCode: env.RespCode, RespMessage: env.RespMessage}
	}
	if out == nil || len(env.Data) == 0 {
		return env.RespMessage, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return "", fmt.Errorf("decoding response data: %w", err)
	}
	return env.RespMessage, nil
}
