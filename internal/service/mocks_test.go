package service

import (
	"context"
	"time"

	"veda-quiz/internal/domain"
	"veda-quiz/internal/parser"

	"github.com/stretchr/testify/mock"
)

// --- MockDocumentFetcher ---
type MockDocumentFetcher struct {
	mock.Mock
}

func (m *MockDocumentFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- MockTextExtractor ---
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockAttemptRepository ---
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Save(ctx context.Context, attempt *domain.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) CountByPlayerAndDocument(ctx context.Context, playerID, documentName string) (int, error) {
	args := m.Called(ctx, playerID, documentName)
	return args.Int(0), args.Error(1)
}

// --- MockMissedPoolRepository ---
type MockMissedPoolRepository struct {
	mock.Mock
}

func (m *MockMissedPoolRepository) Add(ctx context.Context, playerID, documentName, questionID string, missedAt time.Time) error {
	args := m.Called(ctx, playerID, documentName, questionID, missedAt)
	return args.Error(0)
}

func (m *MockMissedPoolRepository) Remove(ctx context.Context, playerID, documentName, questionID string) error {
	args := m.Called(ctx, playerID, documentName, questionID)
	return args.Error(0)
}

func (m *MockMissedPoolRepository) List(ctx context.Context, playerID, documentName string) ([]string, error) {
	args := m.Called(ctx, playerID, documentName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// realParser satisfies DeckParser with the actual question parser; the
// parsing logic is pure, so there is no value in mocking it.
func realParser() DeckParser {
	return parser.New()
}
