package page4u

import (
	"bytes"
	"encoding/json"
)

// envelope is the uniform wrapper every Page4U API response arrives in.
// Exactly one arm is populated: data (with an optional total count) on
// success, error on failure.
type envelope struct {
	Success *bool            `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Total   *int64           `json:"total,omitempty"`
	Err     *envelopeFailure `json:"error,omitempty"`
}

type envelopeFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result carries the success arm of a decoded envelope. Total, when
// non-nil, is the backend's full count and may exceed len of the items
// in Data (pagination hint).
type Result struct {
	Data  json.RawMessage
	Total *int64
}

// decodeEnvelope parses raw response bytes into a Result or a typed
// error. A failure arm becomes *APIError; a body matching neither arm
// becomes *ProtocolError.
func decodeEnvelope(body []byte) (Result, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&env); err != nil {
		return Result{}, &ProtocolError{Message: "undecodable response body", Cause: err}
	}
	if env.Success == nil {
		return Result{}, &ProtocolError{Message: "response missing success flag"}
	}
	if !*env.Success {
		if env.Err == nil {
			return Result{}, &ProtocolError{Message: "failure response without error object"}
		}
		return Result{}, &APIError{Code: env.Err.Code, Message: env.Err.Message}
	}
	if len(env.Data) == 0 {
		return Result{}, &ProtocolError{Message: "success response without data"}
	}
	if env.Total != nil && *env.Total < 0 {
		return Result{}, &ProtocolError{Message: "negative total count"}
	}
	return Result{Data: env.Data, Total: env.Total}, nil
}
