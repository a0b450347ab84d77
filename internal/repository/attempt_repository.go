package repository

import (
	"context"
	"fmt"
	"time"

	"veda-quiz/internal/domain"
	"veda-quiz/internal/repository/models"
	"veda-quiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func fromDomainAttempt(a *domain.Attempt) *models.QuizAttempt {
	isCorrect := 0
	if a.IsCorrect {
		isCorrect = 1
	}
	return &models.QuizAttempt{
		ID:           a.ID,
		PlayerID:     a.PlayerID,
		DocumentName: a.DocumentName,
		QuestionID:   a.QuestionID,
		Label:        a.Label,
		IsCorrect:    isCorrect,
		AttemptNo:    a.AttemptNo,
		AnsweredAt:   a.AnsweredAt,
		CreatedAt:    a.CreatedAt,
	}
}

// Save inserts one answer submission.
func (r *sqlxAttemptRepository) Save(ctx context.Context, attempt *domain.Attempt) error {
	model := fromDomainAttempt(attempt)
	if model.ID == "" {
		model.ID = util.NewULID()
	}
	if model.AnsweredAt.IsZero() {
		model.AnsweredAt = time.Now()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}

	query := `INSERT INTO quiz_attempts (ID, PLAYER_ID, DOCUMENT_NAME, QUESTION_ID, LABEL, IS_CORRECT, ATTEMPT_NO, ANSWERED_AT, CREATED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`

	_, err := r.db.ExecContext(ctx, query,
		model.ID,
		model.PlayerID,
		model.DocumentName,
		model.QuestionID,
		model.Label,
		model.IsCorrect,
		model.AttemptNo,
		model.AnsweredAt,
		model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz attempt: %w", err)
	}
	return nil
}

// CountByPlayerAndDocument returns how many submissions the player has made
// against the given document.
func (r *sqlxAttemptRepository) CountByPlayerAndDocument(ctx context.Context, playerID, documentName string) (int, error) {
	query := `SELECT COUNT(*) FROM quiz_attempts WHERE player_id = :1 AND document_name = :2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, playerID, documentName); err != nil {
		return 0, fmt.Errorf("failed to count quiz attempts: %w", err)
	}
	return count, nil
}
