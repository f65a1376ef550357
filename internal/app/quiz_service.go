package app

import (
	"context"
	"time"

	"audit-quiz-service/internal/domain"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// BankRepository loads segment question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, segment domain.Segment) (domain.QuestionBank, error)
}

// QuizService drives the quiz state machine:
// SegmentSelect → Question(i) → EmailCapture → Results, with back-navigation
// between questions and Restart from any phase.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	leads    *LeadService
}

func NewQuizService(store SessionRepository, banks BankRepository, leads *LeadService) *QuizService {
	return &QuizService{sessions: store, banks: banks, leads: leads}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

// Start ensures a session exists and returns its snapshot.
func (s *QuizService) Start(_ context.Context, sessionID string) domain.SessionSnapshot {
	return s.sessions.GetOrCreate(sessionID).snapshot()
}

// Snapshot returns the current read-only session state.
func (s *QuizService) Snapshot(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.snapshot(), nil
}

// SelectSegment sets the audience segment, loads its question bank and moves
// to the first question. Valid only in SegmentSelect.
func (s *QuizService) SelectSegment(ctx context.Context, sessionID string, segment domain.Segment) (domain.SessionSnapshot, error) {
	if !segment.Valid() {
		return domain.SessionSnapshot{}, domain.ErrInvalidSegment
	}
	session := s.sessions.GetOrCreate(sessionID)

	// Load outside the session lock; bank content is immutable once loaded.
	bank, err := s.banks.GetBank(ctx, segment)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.selectSegment(bank)
}

// Answer records the option value for the current question and advances,
// moving to EmailCapture after the last question. The transition is complete
// when this returns; any animation is the presentation layer's business.
func (s *QuizService) Answer(_ context.Context, sessionID string, value int) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.answer(value)
}

// Previous steps back one question, keeping the earlier answer so the
// selected option re-renders. Valid only in Question(i) with i > 0.
func (s *QuizService) Previous(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.previous()
}

// SubmitEmail captures the lead and moves to Results. The lead is persisted
// synchronously (the durability boundary); the CRM sync runs detached so the
// transition never blocks on, and is never reverted by, the sync outcome.
// Even a persistence failure does not trap the user before their results.
func (s *QuizService) SubmitEmail(ctx context.Context, sessionID string, data domain.LeadData) (domain.SessionSnapshot, domain.CaptureResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.CaptureResult{}, domain.ErrSessionNotFound
	}
	if data.Email == "" {
		return domain.SessionSnapshot{}, domain.CaptureResult{}, domain.ErrEmptyEmail
	}

	answers, bank, err := session.beginCapture()
	if err != nil {
		return domain.SessionSnapshot{}, domain.CaptureResult{}, err
	}

	report := Score(answers, bank.Questions)
	data.Segment = bank.Segment
	data.QuizScore = report.Score
	if data.DNAScores == nil {
		data.DNAScores = make(map[string]float64, len(report.ByCategory))
		for _, cs := range report.ByCategory {
			data.DNAScores[cs.Category] = cs.Percentage
		}
	}

	result := domain.CaptureResult{Success: true}
	lead, err := s.leads.Persist(ctx, data)
	if err != nil {
		result = domain.CaptureResult{Success: false, Error: "failed to save lead data"}
	} else {
		result.Lead = &lead
		// Detached: its only effect is a later update to the lead row,
		// which survives a Restart because leads are keyed by their own ID.
		go s.leads.SyncPersisted(context.Background(), lead.ID)
	}

	snap := session.finishCapture(data.Email)
	return snap, result, nil
}

// Results scores the completed session. Valid only in the Results phase.
func (s *QuizService) Results(_ context.Context, sessionID string) (domain.ScoreReport, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ScoreReport{}, domain.ErrSessionNotFound
	}
	return session.results()
}

// Restart discards all answers and email and returns to SegmentSelect.
// Valid from any phase.
func (s *QuizService) Restart(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.restart(), nil
}

// Drop removes a session entirely, e.g. when its connection goes away.
func (s *QuizService) Drop(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}
