package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
)

// envelope wraps every API response body.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     *envelopeError  `json:"error,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

type envelopeError struct {
	Error     string          `json:"error"`
	Code      json.RawMessage `json:"code"`
	Timestamp int64           `json:"timestamp"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// errorBody is the result of reading a non-2xx body: exactly one of Parsed
// or Raw is meaningful.
type errorBody struct {
	Parsed *errorPayload
	Raw    string
}

// errorPayload accepts both the flat {error, code, details} shape and a
// failure envelope.
type errorPayload struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Code    json.RawMessage `json:"code"`
	Details json.RawMessage `json:"details"`
}

func parseErrorBody(raw []byte) errorBody {
	var p errorPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return errorBody{Raw: string(raw)}
	}
	return errorBody{Parsed: &p}
}

func errorFromBody(status int, raw []byte) error {
	body := parseErrorBody(raw)
	if body.Parsed == nil {
		msg := string(bytes.TrimSpace(raw))
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", status)
		}
		return apierror.New(status, apierror.CodeForStatus(status), msg, nil)
	}

	p := body.Parsed
	message, code, details := p.Message, p.Code, p.Details

	var nested envelopeError
	if len(p.Error) > 0 && p.Error[0] == '{' && json.Unmarshal(p.Error, &nested) == nil {
		message = nested.Error
		code = nested.Code
		details = nested.Details
	} else {
		var s string
		if json.Unmarshal(p.Error, &s) == nil && s != "" {
			message = s
		}
	}
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}

	return apierror.New(status, codeFrom(code, status), message, decodeDetails(details))
}

// codeFrom uses a known textual code, otherwise derives one from status.
func codeFrom(raw json.RawMessage, status int) apierror.Code {
	var s string
	if len(raw) > 0 && json.Unmarshal(raw, &s) == nil {
		if c := apierror.Code(s); c.Known() {
			return c
		}
	}
	return apierror.CodeForStatus(status)
}

// decodeDetails keeps object details as is and any other JSON value under
// the "message" key.
func decodeDetails(raw json.RawMessage) map[string]any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var obj map[string]any
	if json.Unmarshal(raw, &obj) == nil {
		return obj
	}
	var v any
	if json.Unmarshal(raw, &v) == nil {
		return map[string]any{"message": v}
	}
	return map[string]any{"message": string(raw)}
}

func decodeEnvelope(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apierror.Wrap(http.StatusBadGateway, apierror.CodeInternal, "Invalid response from server", err)
	}

	if !env.Success {
		status := http.StatusInternalServerError
		message := "Request failed"
		var details map[string]any
		if env.Error != nil {
			var n int
			if json.Unmarshal(env.Error.Code, &n) == nil && n > 0 {
				status = n
			}
			if env.Error.Error != "" {
				message = env.Error.Error
			}
			details = decodeDetails(env.Error.Details)
		}
		return apierror.New(status, apierror.CodeForStatus(status), message, details)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
