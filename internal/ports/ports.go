// Package ports defines the interfaces the conversation engine depends on.
// Adapters implement them; the engine never imports an adapter directly.
package ports

import (
	"context"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
)

// SessionStore holds one session per user ID with sliding expiry.
type SessionStore interface {
	// Get retrieves the session for a user.
	// Returns domain.ErrSessionNotFound if none exists.
	Get(ctx context.Context, userID string) (*domain.Session, error)

	// Create inserts a fresh session at the CPF step and schedules its expiry.
	Create(ctx context.Context, userID string) (*domain.Session, error)

	// Touch reschedules the expiry window. No-op if the session does not exist.
	Touch(ctx context.Context, userID string) error

	// Replace swaps the stored state for a user.
	Replace(ctx context.Context, userID string, sess *domain.Session) error

	// Delete removes the session and cancels its expiry. Idempotent.
	Delete(ctx context.Context, userID string) error
}

// BackendGateway performs the read-only queries against the PFC API.
// Every operation surfaces failures as *domain.UpstreamError; no retries.
type BackendGateway interface {
	FetchSchedule(ctx context.Context, cpf string) (*domain.Schedule, error)
	FetchCourses(ctx context.Context) ([]domain.Course, error)
	SearchParliamentarians(ctx context.Context, namePart string) ([]domain.CandidateRecord, error)
	FetchAmendmentSummary(ctx context.Context, externalID string) (*domain.AmendmentSummary, error)

	// FetchCalendarDocument downloads the agenda PDF for year/month.
	// Month is already zero-padded to two digits. The caller owns the bytes.
	FetchCalendarDocument(ctx context.Context, year int, month string) ([]byte, error)
}

// QuotePicker returns one quote at random, reloading the source on every call.
type QuotePicker interface {
	PickRandom(ctx context.Context) (string, error)
}

// MessageChannel delivers text and files to a user, whatever the transport.
type MessageChannel interface {
	SendText(ctx context.Context, userID, text string) error
	SendFile(ctx context.Context, userID, localPath, displayName, caption string) error
}
