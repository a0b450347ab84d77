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

// sqlxMissedPoolRepository implements domain.MissedPoolRepository using sqlx.
type sqlxMissedPoolRepository struct {
	db *sqlx.DB
}

// NewSQLXMissedPoolRepository creates a new instance of sqlxMissedPoolRepository.
func NewSQLXMissedPoolRepository(db *sqlx.DB) domain.MissedPoolRepository {
	return &sqlxMissedPoolRepository{db: db}
}

// Add records a missed question for the player. Re-adding an entry that is
// already active is a no-op, and re-adding a cleared entry reactivates it
// with a fresh first_missed_at.
func (r *sqlxMissedPoolRepository) Add(ctx context.Context, playerID, documentName, questionID string, missedAt time.Time) error {
	if missedAt.IsZero() {
		missedAt = time.Now()
	}

	query := `MERGE INTO missed_questions m
	          USING (SELECT :1 AS player_id, :2 AS document_name, :3 AS question_id FROM dual) src
	          ON (m.player_id = src.player_id AND m.document_name = src.document_name AND m.question_id = src.question_id)
	          WHEN MATCHED THEN
	            UPDATE SET m.first_missed_at = :4, m.cleared_at = NULL WHERE m.cleared_at IS NOT NULL
	          WHEN NOT MATCHED THEN
	            INSERT (id, player_id, document_name, question_id, first_missed_at, cleared_at)
	            VALUES (:5, src.player_id, src.document_name, src.question_id, :6, NULL)`

	_, err := r.db.ExecContext(ctx, query,
		playerID,
		documentName,
		questionID,
		missedAt,
		util.NewULID(),
		missedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add missed question: %w", err)
	}
	return nil
}

// Remove clears a missed question without deleting the row, so attempt
// history stays intact.
func (r *sqlxMissedPoolRepository) Remove(ctx context.Context, playerID, documentName, questionID string) error {
	query := `UPDATE missed_questions SET cleared_at = :1
	          WHERE player_id = :2 AND document_name = :3 AND question_id = :4 AND cleared_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, time.Now(), playerID, documentName, questionID)
	if err != nil {
		return fmt.Errorf("failed to remove missed question: %w", err)
	}
	return nil
}

// List returns the active missed question ids for the player and document,
// ordered by when they were first missed.
func (r *sqlxMissedPoolRepository) List(ctx context.Context, playerID, documentName string) ([]string, error) {
	query := `SELECT id, player_id, document_name, question_id, first_missed_at, cleared_at FROM missed_questions
	          WHERE player_id = :1 AND document_name = :2 AND cleared_at IS NULL
	          ORDER BY first_missed_at ASC`

	var rows []models.MissedQuestion
	if err := r.db.SelectContext(ctx, &rows, query, playerID, documentName); err != nil {
		return nil, fmt.Errorf("failed to list missed questions: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.QuestionID)
	}
	return ids, nil
}
