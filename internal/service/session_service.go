package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"veda-quiz/internal/cache"
	"veda-quiz/internal/config"
	"veda-quiz/internal/domain"
	"veda-quiz/internal/dto"
	"veda-quiz/internal/logger"
	"veda-quiz/internal/session"
	"veda-quiz/internal/util"

	"go.uber.org/zap"
)

var correctMessages = []string{
	"Nice!",
	"Super!",
	"Great job!",
	"Perfect, keep going!",
	"Awesome!",
}

var wrongMessages = []string{
	"Not yet, try once more.",
	"Close! Give it another go.",
	"Good effort, one more try.",
	"Almost there, re-read the options.",
}

// SessionService runs quiz sessions on top of the library and mirrors the
// missed pool and attempt history to persistence.
type SessionService interface {
	StartSession(ctx context.Context, playerID string, req dto.StartSessionRequest) (*dto.SessionStateResponse, error)
	GetState(ctx context.Context, playerID, sessionID string) (*dto.SessionStateResponse, error)
	SubmitAnswer(ctx context.Context, playerID, sessionID, label string) (*dto.SubmitAnswerResponse, error)
	Advance(ctx context.Context, playerID, sessionID string) (*dto.SessionStateResponse, error)
	GetSummary(ctx context.Context, playerID, sessionID string) (*dto.SummaryResponse, error)
}

// liveSession is one player's session plus the bookkeeping the engine itself
// does not carry.
type liveSession struct {
	id           string
	playerID     string
	documentName string
	engine       *session.Session
	lastTouched  time.Time
}

type sessionServiceImpl struct {
	library     LibraryService
	attempts    domain.AttemptRepository
	missedPool  domain.MissedPoolRepository
	cache       domain.Cache
	quizCfg     config.QuizConfig
	rng         *rand.Rand
	mu          sync.Mutex
	sessions    map[string]*liveSession
	byPlayerDoc map[string]string // playerID+documentName -> session id
}

// NewSessionService creates a new instance of sessionServiceImpl.
func NewSessionService(
	library LibraryService,
	attempts domain.AttemptRepository,
	missedPool domain.MissedPoolRepository,
	cacheClient domain.Cache,
	quizCfg config.QuizConfig,
) SessionService {
	return &sessionServiceImpl{
		library:     library,
		attempts:    attempts,
		missedPool:  missedPool,
		cache:       cacheClient,
		quizCfg:     quizCfg,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		sessions:    make(map[string]*liveSession),
		byPlayerDoc: make(map[string]string),
	}
}

func playerDocKey(playerID, documentName string) string {
	return playerID + "|" + documentName
}

func missedPoolCacheKey(playerID, documentName string) string {
	return cache.GenerateCacheKey("session", "missedpool", playerID, documentName)
}

// StartSession starts (or restarts) a run for the player on the requested
// document. One session exists per player and document; starting a new run on
// the same document reuses it, so stats and the missed pool carry over.
func (s *sessionServiceImpl) StartSession(ctx context.Context, playerID string, req dto.StartSessionRequest) (*dto.SessionStateResponse, error) {
	if req.Document == "" {
		return nil, domain.NewInvalidInputError("document is required")
	}
	mode := session.Mode(req.Mode)
	if mode == "" {
		mode = session.ModeSet
	}
	if mode != session.ModeSet && mode != session.ModeMissed {
		return nil, domain.NewInvalidInputError("mode must be \"set\" or \"missed\"")
	}

	deck, err := s.library.GetDeck(ctx, req.Document)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()

	live := s.findOrCreateLocked(playerID, req.Document)
	if live.engine == nil {
		live.engine = session.New(session.Options{
			RemoveMissedOnAnyCorrect: s.quizCfg.RemoveMissedOnAnyCorrect,
		})
		s.restoreMissedPool(ctx, live, deck)
	}

	var runDeck domain.Deck
	if mode == session.ModeMissed {
		runDeck = live.engine.BuildMissedDeck()
	} else {
		runDeck, err = s.library.GetSet(ctx, req.Document, req.SetIndex)
		if err != nil {
			return nil, err
		}
	}

	if err := live.engine.LoadDeck(runDeck, mode); err != nil {
		return nil, err
	}
	live.lastTouched = time.Now()

	logger.Get().Info("Session started",
		zap.String("sessionID", live.id),
		zap.String("playerID", playerID),
		zap.String("document", req.Document),
		zap.String("mode", string(mode)))

	return s.stateResponse(live), nil
}

// GetState returns the live state of the session, including the current
// question when one is open.
func (s *sessionServiceImpl) GetState(ctx context.Context, playerID, sessionID string) (*dto.SessionStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.lookupLocked(playerID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.stateResponse(live), nil
}

// SubmitAnswer grades the label against the current question. Attempt history
// and missed-pool mutations are persisted best-effort; a storage failure never
// blocks play.
func (s *sessionServiceImpl) SubmitAnswer(ctx context.Context, playerID, sessionID, label string) (*dto.SubmitAnswerResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.lookupLocked(playerID, sessionID)
	if err != nil {
		return nil, err
	}

	current := live.engine.Current()
	if current == nil {
		return nil, domain.NewAnswerNotOpenError()
	}
	result, err := live.engine.SubmitAnswer(label)
	if err != nil {
		return nil, err
	}
	live.lastTouched = time.Now()

	s.recordAttempt(ctx, live, current, label, result, live.engine.AttemptsOnCurrent())

	if result.PoolAdded {
		if err := s.missedPool.Add(ctx, playerID, live.documentName, current.ID, time.Now()); err != nil {
			logger.Get().Error("Failed to persist missed-pool add",
				zap.String("questionID", current.ID), zap.Error(err))
		}
		s.invalidateMissedPoolCache(ctx, live)
	}
	if result.PoolRemoved {
		if err := s.missedPool.Remove(ctx, playerID, live.documentName, current.ID); err != nil {
			logger.Get().Error("Failed to persist missed-pool remove",
				zap.String("questionID", current.ID), zap.Error(err))
		}
		s.invalidateMissedPoolCache(ctx, live)
	}

	resp := &dto.SubmitAnswerResponse{
		Correct:  result.Correct,
		FirstTry: result.FirstTry,
	}
	if result.Correct {
		resp.Message = correctMessages[s.rng.Intn(len(correctMessages))]
		resp.Explanation = result.Explanation
	} else {
		resp.Message = wrongMessages[s.rng.Intn(len(wrongMessages))]
	}
	return resp, nil
}

// Advance moves the session to the next question after a correct answer.
func (s *sessionServiceImpl) Advance(ctx context.Context, playerID, sessionID string) (*dto.SessionStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.lookupLocked(playerID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := live.engine.Advance(); err != nil {
		return nil, err
	}
	live.lastTouched = time.Now()
	return s.stateResponse(live), nil
}

// GetSummary returns the session counters and the missed-pool size.
func (s *sessionServiceImpl) GetSummary(ctx context.Context, playerID, sessionID string) (*dto.SummaryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.lookupLocked(playerID, sessionID)
	if err != nil {
		return nil, err
	}
	sum := live.engine.Summary()
	return &dto.SummaryResponse{
		SessionID:       live.id,
		Document:        live.documentName,
		Mode:            string(live.engine.Mode()),
		Attempted:       sum.Attempted,
		Correct:         sum.Correct,
		FirstTryCorrect: sum.FirstTryCorrect,
		MissedCount:     sum.MissedCount,
	}, nil
}

// lookupLocked resolves a session id for the player. A session belonging to a
// different player is reported as not found rather than forbidden, so session
// ids cannot be probed.
func (s *sessionServiceImpl) lookupLocked(playerID, sessionID string) (*liveSession, error) {
	s.expireLocked()
	live, ok := s.sessions[sessionID]
	if !ok || live.playerID != playerID {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return live, nil
}

func (s *sessionServiceImpl) findOrCreateLocked(playerID, documentName string) *liveSession {
	key := playerDocKey(playerID, documentName)
	if id, ok := s.byPlayerDoc[key]; ok {
		if live, ok := s.sessions[id]; ok {
			return live
		}
	}
	live := &liveSession{
		id:           util.NewULID(),
		playerID:     playerID,
		documentName: documentName,
		lastTouched:  time.Now(),
	}
	s.sessions[live.id] = live
	s.byPlayerDoc[key] = live.id
	return live
}

// expireLocked drops sessions idle past the TTL. Expiry is lazy; there is no
// background sweeper.
func (s *sessionServiceImpl) expireLocked() {
	if s.quizCfg.SessionTTL <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.quizCfg.SessionTTL)
	for id, live := range s.sessions {
		if live.lastTouched.Before(cutoff) {
			delete(s.sessions, id)
			delete(s.byPlayerDoc, playerDocKey(live.playerID, live.documentName))
		}
	}
}

// restoreMissedPool seeds a fresh engine from persisted state, read through
// the cache. Persisted ids that no longer resolve in the current deck are
// dropped silently; the document may have changed since they were recorded.
func (s *sessionServiceImpl) restoreMissedPool(ctx context.Context, live *liveSession, deck domain.Deck) {
	ids, err := s.loadMissedIDs(ctx, live)
	if err != nil {
		logger.Get().Warn("Failed to restore missed pool",
			zap.String("playerID", live.playerID),
			zap.String("document", live.documentName),
			zap.Error(err))
		return
	}
	questions := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := deck.ByID(id); ok {
			questions = append(questions, q)
		}
	}
	live.engine.RestoreMissed(questions)
}

func (s *sessionServiceImpl) loadMissedIDs(ctx context.Context, live *liveSession) ([]string, error) {
	key := missedPoolCacheKey(live.playerID, live.documentName)
	if s.cache != nil {
		dataString, err := s.cache.Get(ctx, key)
		if err == nil && dataString != "" {
			var ids []string
			if err := json.Unmarshal([]byte(dataString), &ids); err == nil {
				return ids, nil
			}
		} else if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Missed-pool cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	ids, err := s.missedPool.List(ctx, live.playerID, live.documentName)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if dataBytes, err := json.Marshal(ids); err == nil {
			if err := s.cache.Set(ctx, key, string(dataBytes), s.quizCfg.MissedPoolCacheTTL); err != nil {
				logger.Get().Warn("Failed to cache missed pool", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return ids, nil
}

func (s *sessionServiceImpl) invalidateMissedPoolCache(ctx context.Context, live *liveSession) {
	if s.cache == nil {
		return
	}
	key := missedPoolCacheKey(live.playerID, live.documentName)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to invalidate missed-pool cache", zap.String("key", key), zap.Error(err))
	}
}

func (s *sessionServiceImpl) recordAttempt(ctx context.Context, live *liveSession, q *domain.Question, label string, result session.Result, attemptNo int) {
	attempt := &domain.Attempt{
		PlayerID:     live.playerID,
		DocumentName: live.documentName,
		QuestionID:   q.ID,
		Label:        label,
		IsCorrect:    result.Correct,
		AttemptNo:    attemptNo,
		AnsweredAt:   time.Now(),
	}
	if err := s.attempts.Save(ctx, attempt); err != nil {
		logger.Get().Error("Failed to record attempt",
			zap.String("questionID", q.ID), zap.Error(err))
	}
}

func (s *sessionServiceImpl) stateResponse(live *liveSession) *dto.SessionStateResponse {
	position, total := live.engine.Progress()
	resp := &dto.SessionStateResponse{
		SessionID: live.id,
		Document:  live.documentName,
		Mode:      string(live.engine.Mode()),
		State:     live.engine.State().String(),
		Position:  position,
		Total:     total,
	}
	if q := live.engine.Current(); q != nil {
		resp.Question = &dto.QuestionResponse{
			ID:      q.ID,
			Ordinal: q.Ordinal,
			Prompt:  q.Prompt,
			Options: q.Options,
		}
	}
	return resp
}
