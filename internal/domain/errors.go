package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a user ID has no stored session.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptyQuoteSource is returned when the quote source yields zero usable entries.
var ErrEmptyQuoteSource = errors.New("no quotes available")

// UpstreamError reports a failed backend fetch. Status is zero when the
// request never produced an HTTP response.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// DeliveryError reports a failed outbound send. Deliveries are not retried.
type DeliveryError struct {
	UserID string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.UserID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
