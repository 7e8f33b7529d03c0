package page4u

import "fmt"

// ConfigError reports a missing credential or endpoint setting. It is
// raised before any network I/O so a misconfigured bridge fails fast.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s is not set; create an API token in the Page4U dashboard (Settings > API) and export it", e.Missing)
}

// APIError is a backend failure decoded from the response envelope.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

// NetworkError wraps a transport-level failure (DNS, TCP, TLS, timeout).
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	if e == nil {
		return ""
	}
	return "network error during " + e.Op + ": " + e.Cause.Error()
}

func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ProtocolError reports a response body that does not match the envelope
// contract. It is fatal for the call and never retried.
type ProtocolError struct {
	Message string
	Cause   error
}

func (e *ProtocolError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return "protocol error: " + e.Message + ": " + e.Cause.Error()
	}
	return "protocol error: " + e.Message
}

func (e *ProtocolError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
