package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSQLXMissedPoolRepository_Add_Success(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXMissedPoolRepository(db)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`MERGE INTO missed_questions`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Add(context.Background(), "player1", "101_Intro_1_quiz.docx", "101_Intro_1_quiz.docx::Q5", time.Now())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXMissedPoolRepository_Remove_Success(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXMissedPoolRepository(db)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE missed_questions SET cleared_at`)).
		WithArgs(sqlmock.AnyArg(), "player1", "101_Intro_1_quiz.docx", "101_Intro_1_quiz.docx::Q5").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Remove(context.Background(), "player1", "101_Intro_1_quiz.docx", "101_Intro_1_quiz.docx::Q5")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXMissedPoolRepository_List_OrderedByFirstMiss(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXMissedPoolRepository(db)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "player_id", "document_name", "question_id", "first_missed_at", "cleared_at"}).
		AddRow("m1", "player1", "doc.docx", "doc.docx::Q2", now.Add(-2*time.Hour), nil).
		AddRow("m2", "player1", "doc.docx", "doc.docx::Q7", now.Add(-1*time.Hour), nil)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM missed_questions`)).
		WithArgs("player1", "doc.docx").
		WillReturnRows(rows)

	ids, err := repo.List(context.Background(), "player1", "doc.docx")
	assert.NoError(t, err)
	assert.Equal(t, []string{"doc.docx::Q2", "doc.docx::Q7"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXMissedPoolRepository_List_Empty(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXMissedPoolRepository(db)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "player_id", "document_name", "question_id", "first_missed_at", "cleared_at"})
	mock.ExpectQuery(regexp.QuoteMeta(`FROM missed_questions`)).
		WithArgs("player1", "doc.docx").
		WillReturnRows(rows)

	ids, err := repo.List(context.Background(), "player1", "doc.docx")
	assert.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
