package geoproc

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransportError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *TransportError
		want string
	}{
		{
			name: "before exhaustion",
			err:  &TransportError{Message: "connection refused"},
			want: "geoprocessing service error: connection refused",
		},
		{
			name: "after exhaustion",
			err:  &TransportError{Message: "HTTP 503", Attempts: 3},
			want: "geoprocessing service unreachable after 3 attempts: HTTP 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &TransportError{Message: "connection error", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the cause in the chain")
	}
}

func TestApplicationError_MessageVerbatim(t *testing.T) {
	err := &ApplicationError{Message: "no such layer", Code: "LAYER_NOT_FOUND"}
	if err.Error() != "no such layer" {
		t.Errorf("Error() = %q, want the remote message verbatim", err.Error())
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantTransport   bool
		wantApplication bool
		wantRetryable   bool
	}{
		{
			name:          "transport error",
			err:           &TransportError{Message: "HTTP 500", StatusCode: 500},
			wantTransport: true,
			wantRetryable: true,
		},
		{
			name:            "application error",
			err:             &ApplicationError{Message: "no such layer"},
			wantApplication: true,
			wantRetryable:   false,
		},
		{
			name:            "wrapped application error",
			err:             fmt.Errorf("dispatch failed: %w", &ApplicationError{Message: "bad extent"}),
			wantApplication: true,
			wantRetryable:   false,
		},
		{
			name:          "plain error",
			err:           errors.New("boom"),
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransportError(tt.err); got != tt.wantTransport {
				t.Errorf("IsTransportError() = %v, want %v", got, tt.wantTransport)
			}
			if got := IsApplicationError(tt.err); got != tt.wantApplication {
				t.Errorf("IsApplicationError() = %v, want %v", got, tt.wantApplication)
			}
			if got := retryable(tt.err); got != tt.wantRetryable {
				t.Errorf("retryable() = %v, want %v", got, tt.wantRetryable)
			}
		})
	}
}
