package geoproc

import "encoding/json"

// Params is the free-form request payload for an algorithm. Each
// algorithm defines its own accepted keys; the connector passes the
// mapping through verbatim. File-path values must already be resolved to
// absolute paths by the caller.
type Params map[string]any

// orEmpty normalizes a nil mapping so it serializes as {} rather than
// null.
func (p Params) orEmpty() Params {
	if p == nil {
		return Params{}
	}
	return p
}

// Envelope is the uniform application-level response shape returned by
// the geoprocessing service for every /process call.
//
// Success and Error are mutually exclusive: Success==true implies Data is
// present and Error is nil, and vice versa. Callers may rely on this.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *RemoteError    `json:"error,omitempty"`
}

// RemoteError is the error detail reported by the service inside a
// failed envelope.
type RemoteError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AlgorithmDescriptor describes one algorithm advertised by the service
// at GET /algorithms.
type AlgorithmDescriptor struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Group       string          `json:"group,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}
