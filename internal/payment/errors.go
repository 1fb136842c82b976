package payment

import "fmt"

// FieldError is one entry of the provider's structured error list.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ProviderError carries the provider's own message and error list so callers
// can surface the upstream detail verbatim.
type ProviderError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("payment provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payment provider error (status %d)", e.StatusCode)
}

// MalformedResponseError marks a success envelope that is missing required
// fields, e.g. no payment link URL.
type MalformedResponseError struct {
	Missing string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: missing %s", e.Missing)
}
