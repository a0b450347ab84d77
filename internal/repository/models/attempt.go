package models

import (
	"database/sql"
	"time"
)

// QuizAttempt mirrors the quiz_attempts table.
type QuizAttempt struct {
	ID           string    `db:"id"`
	PlayerID     string    `db:"player_id"`
	DocumentName string    `db:"document_name"`
	QuestionID   string    `db:"question_id"`
	Label        string    `db:"label"`
	IsCorrect    int       `db:"is_correct"` // NUMBER(1): 0 or 1
	AttemptNo    int       `db:"attempt_no"`
	AnsweredAt   time.Time `db:"answered_at"`
	CreatedAt    time.Time `db:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// MissedQuestion mirrors the missed_questions table. ClearedAt is set when a
// missed-review run answers the question correctly.
type MissedQuestion struct {
	ID            string       `db:"id"`
	PlayerID      string       `db:"player_id"`
	DocumentName  string       `db:"document_name"`
	QuestionID    string       `db:"question_id"`
	FirstMissedAt time.Time    `db:"first_missed_at"`
	ClearedAt     sql.NullTime `db:"cleared_at"`
}

func (MissedQuestion) TableName() string {
	return "missed_questions"
}
