// Package session implements the one-question-at-a-time quiz engine: gated
// progression, attempt counting, first-try accounting and the missed-question
// pool. A Session is a plain value with no ambient state, so independent
// sessions coexist freely.
package session

import (
	"veda-quiz/internal/domain"
)

// State is the session lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Mode distinguishes a regular set run from a missed-review run.
type Mode string

const (
	ModeSet    Mode = "set"
	ModeMissed Mode = "missed"
)

// Options controls behavior that the source material left ambiguous.
type Options struct {
	// RemoveMissedOnAnyCorrect drops a question from the missed pool as
	// soon as it is answered correctly in any mode. Default (false) keeps
	// the conservative rule: removal happens only during a missed-review
	// run.
	RemoveMissedOnAnyCorrect bool
}

// Stats are the running counters for one session.
type Stats struct {
	Attempted       int
	Correct         int
	FirstTryCorrect int
}

// Summary is a read-only snapshot of the session's counters.
type Summary struct {
	Attempted       int
	Correct         int
	FirstTryCorrect int
	MissedCount     int
}

// Result reports the outcome of one answer submission. PoolAdded and
// PoolRemoved tell callers whether the missed pool changed, so persistence
// can mirror the mutation.
type Result struct {
	Correct     bool
	FirstTry    bool
	Explanation string
	PoolAdded   bool
	PoolRemoved bool
}

// Session drives one quiz run at a time while accumulating stats and the
// missed pool across runs. It is not safe for concurrent use; callers own
// the synchronization (one session belongs to one player flow).
type Session struct {
	opts Options

	deck              domain.Deck
	mode              Mode
	position          int
	attemptsOnCurrent int
	awaitingAdvance   bool
	state             State

	stats     Stats
	missedSet map[string]struct{}
	missed    []domain.Question // insertion order
}

// New creates an idle session with no deck loaded.
func New(opts Options) *Session {
	return &Session{
		opts:      opts,
		state:     StateIdle,
		missedSet: make(map[string]struct{}),
	}
}

// LoadDeck replaces the active deck and rewinds to the first question. Stats
// and the missed pool are not touched: they live for the whole session, so
// switching from one set to another keeps them. An empty deck is reported as
// a nothing-to-play condition and leaves the session state unchanged.
func (s *Session) LoadDeck(deck domain.Deck, mode Mode) error {
	if len(deck) == 0 {
		return domain.NewNothingToPlayError("no questions available for this selection")
	}
	s.deck = append(domain.Deck(nil), deck...)
	s.mode = mode
	s.position = 0
	s.attemptsOnCurrent = 0
	s.awaitingAdvance = false
	s.state = StateInProgress
	return nil
}

// State returns the lifecycle phase.
func (s *Session) State() State { return s.state }

// Mode returns the mode of the active run.
func (s *Session) Mode() Mode { return s.mode }

// Progress returns the zero-based position and the deck length of the
// active run.
func (s *Session) Progress() (position, total int) {
	return s.position, len(s.deck)
}

// AttemptsOnCurrent returns how many submissions the current question has
// received in this round.
func (s *Session) AttemptsOnCurrent() int { return s.attemptsOnCurrent }

// Current returns the question at the cursor, or nil when the session is
// idle or complete.
func (s *Session) Current() *domain.Question {
	if s.state != StateInProgress {
		return nil
	}
	q := s.deck[s.position]
	return &q
}

// SubmitAnswer checks label against the current question. A wrong answer
// leaves the cursor in place; the same question is presented until answered
// correctly. A correct answer opens the advance gate but does not move the
// cursor; that is Advance's job.
func (s *Session) SubmitAnswer(label string) (Result, error) {
	if s.state != StateInProgress {
		return Result{}, domain.NewAnswerNotOpenError()
	}
	if s.awaitingAdvance {
		return Result{}, domain.NewAnswerNotOpenError()
	}
	if !domain.IsValidLabel(label) {
		// Rejected before any counter mutates.
		return Result{}, domain.NewInvalidLabelError(label)
	}

	q := s.deck[s.position]
	s.attemptsOnCurrent++
	if s.attemptsOnCurrent == 1 {
		s.stats.Attempted++
	}

	if label != q.CorrectLabel {
		res := Result{}
		if s.attemptsOnCurrent == 1 && s.mode != ModeMissed {
			res.PoolAdded = s.addMissed(q)
		}
		return res, nil
	}

	s.stats.Correct++
	firstTry := s.attemptsOnCurrent == 1
	if firstTry {
		s.stats.FirstTryCorrect++
	}
	s.awaitingAdvance = true

	res := Result{
		Correct:     true,
		FirstTry:    firstTry,
		Explanation: q.Explanation,
	}
	if s.mode == ModeMissed || s.opts.RemoveMissedOnAnyCorrect {
		res.PoolRemoved = s.removeMissed(q.ID)
	}
	return res, nil
}

// Advance moves the cursor forward. It is valid only immediately after a
// correct submission; anything else is rejected so a question can never be
// silently skipped.
func (s *Session) Advance() error {
	if s.state != StateInProgress || !s.awaitingAdvance {
		return domain.NewAdvanceNotReadyError()
	}
	s.awaitingAdvance = false
	s.attemptsOnCurrent = 0
	s.position++
	if s.position >= len(s.deck) {
		s.state = StateComplete
	}
	return nil
}

// BuildMissedDeck snapshots the missed pool in insertion order, ready to be
// passed back to LoadDeck for a review run.
func (s *Session) BuildMissedDeck() domain.Deck {
	return append(domain.Deck(nil), s.missed...)
}

// RestoreMissed seeds the pool from persisted state, preserving the given
// order. Questions already present are skipped.
func (s *Session) RestoreMissed(questions []domain.Question) {
	for _, q := range questions {
		s.addMissed(q)
	}
}

// Summary returns the counters plus the missed-pool size.
func (s *Session) Summary() Summary {
	return Summary{
		Attempted:       s.stats.Attempted,
		Correct:         s.stats.Correct,
		FirstTryCorrect: s.stats.FirstTryCorrect,
		MissedCount:     len(s.missed),
	}
}

func (s *Session) addMissed(q domain.Question) bool {
	if _, ok := s.missedSet[q.ID]; ok {
		return false
	}
	s.missedSet[q.ID] = struct{}{}
	s.missed = append(s.missed, q)
	return true
}

func (s *Session) removeMissed(id string) bool {
	if _, ok := s.missedSet[id]; !ok {
		return false
	}
	delete(s.missedSet, id)
	for i, q := range s.missed {
		if q.ID == id {
			s.missed = append(s.missed[:i], s.missed[i+1:]...)
			break
		}
	}
	return true
}
