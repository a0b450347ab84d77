package domain

import (
	"context"
	"time"
)

// DocumentFetcher retrieves the raw bytes of a named quiz document. How the
// bytes are found (folder-case variants, CDN fallbacks, LFS redirects) is the
// implementation's concern; callers only see success or exhaustion.
type DocumentFetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// TextExtractor turns document bytes into a single plain-text string for the
// parser. The parser itself never touches binary formats.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// Attempt is one recorded answer submission.
type Attempt struct {
	ID           string
	PlayerID     string
	DocumentName string
	QuestionID   string
	Label        string
	IsCorrect    bool
	AttemptNo    int
	AnsweredAt   time.Time
	CreatedAt    time.Time
}

// AttemptRepository persists answer submissions.
type AttemptRepository interface {
	Save(ctx context.Context, attempt *Attempt) error
	CountByPlayerAndDocument(ctx context.Context, playerID, documentName string) (int, error)
}

// MissedPoolRepository persists the per-player, per-document missed-question
// pool so it survives reloads. Entries keep their first-missed order.
type MissedPoolRepository interface {
	// Add records a first-attempt miss. Adding an id that is already
	// present is a no-op.
	Add(ctx context.Context, playerID, documentName, questionID string, missedAt time.Time) error

	// Remove clears a question from the pool (missed-review success).
	Remove(ctx context.Context, playerID, documentName, questionID string) error

	// List returns the uncleared question ids in first-missed order.
	List(ctx context.Context, playerID, documentName string) ([]string, error)
}
