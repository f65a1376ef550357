package app

import (
	"sync"
	"time"

	"audit-quiz-service/internal/domain"
)

// Session is the single mutable aggregate behind one quiz interaction.
// Operations are atomic, sequential calls guarded by the mutex; the
// presentation layer only ever sees snapshots.
type Session struct {
	id  string
	now func() time.Time

	mu       sync.RWMutex
	segment  domain.Segment
	phase    domain.Phase
	bank     domain.QuestionBank
	index    int
	answers  []domain.Answer
	email    string
	updated  time.Time
}

func newSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:      id,
		now:     now,
		phase:   domain.PhaseSegmentSelect,
		updated: now(),
	}
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) selectSegment(bank domain.QuestionBank) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseSegmentSelect {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	if len(bank.Questions) == 0 {
		return s.snapshotLocked(), domain.ErrBankNotFound
	}
	s.segment = bank.Segment
	s.bank = bank
	s.phase = domain.PhaseQuestion
	s.index = 0
	s.updated = s.now()
	return s.snapshotLocked(), nil
}

func (s *Session) answer(value int) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseQuestion {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	question := s.bank.Questions[s.index]
	if !question.HasValue(value) {
		return s.snapshotLocked(), domain.ErrInvalidOption
	}

	s.upsertAnswerLocked(domain.Answer{QuestionID: question.ID, Value: value})
	if s.index == len(s.bank.Questions)-1 {
		s.phase = domain.PhaseEmailCapture
	} else {
		s.index++
	}
	s.updated = s.now()
	return s.snapshotLocked(), nil
}

func (s *Session) previous() (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseQuestion || s.index == 0 {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	s.index--
	s.updated = s.now()
	return s.snapshotLocked(), nil
}

// beginCapture validates the EmailCapture phase and hands out copies of the
// answers and bank for scoring. It does not transition; finishCapture does,
// so the caller can persist the lead in between without holding the lock.
func (s *Session) beginCapture() ([]domain.Answer, domain.QuestionBank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.phase != domain.PhaseEmailCapture {
		return nil, domain.QuestionBank{}, domain.ErrInvalidTransition
	}
	answers := make([]domain.Answer, len(s.answers))
	copy(answers, s.answers)
	return answers, s.bank, nil
}

// finishCapture records the email and transitions to Results unconditionally.
func (s *Session) finishCapture(email string) domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.email = email
	s.phase = domain.PhaseResults
	s.updated = s.now()
	return s.snapshotLocked()
}

func (s *Session) results() (domain.ScoreReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.phase != domain.PhaseResults {
		return domain.ScoreReport{}, domain.ErrInvalidTransition
	}
	return Score(s.answers, s.bank.Questions), nil
}

func (s *Session) restart() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.segment = domain.SegmentUnset
	s.phase = domain.PhaseSegmentSelect
	s.bank = domain.QuestionBank{}
	s.index = 0
	s.answers = nil
	s.email = ""
	s.updated = s.now()
	return s.snapshotLocked()
}

func (s *Session) snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// upsertAnswerLocked replaces any existing answer for the question, keeping
// at most one entry per question ID and preserving first-answer order.
func (s *Session) upsertAnswerLocked(answer domain.Answer) {
	for i := range s.answers {
		if s.answers[i].QuestionID == answer.QuestionID {
			s.answers[i] = answer
			return
		}
	}
	s.answers = append(s.answers, answer)
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	answers := make([]domain.Answer, len(s.answers))
	copy(answers, s.answers)

	snap := domain.SessionSnapshot{
		SessionID:     s.id,
		Segment:       s.segment,
		Phase:         s.phase,
		CurrentIndex:  s.index,
		QuestionCount: len(s.bank.Questions),
		Answers:       answers,
		Copy:          s.bank.Copy,
		UpdatedAt:     s.updated,
	}
	if s.phase == domain.PhaseQuestion {
		question := s.bank.Questions[s.index]
		snap.Question = &question
		for _, a := range answers {
			if a.QuestionID == question.ID {
				value := a.Value
				snap.SelectedValue = &value
				break
			}
		}
	}
	return snap
}
