package exam

import (
	"errors"
	"sync"
	"time"

	"github.com/castellanr/quizbank/internal/model"
)

var (
	// ErrSessionFinished is returned by mutating calls after Finish.
	ErrSessionFinished = errors.New("exam: session already finished")
	// ErrIndexOutOfRange is returned for answer indexes outside the exam.
	ErrIndexOutOfRange = errors.New("exam: question index out of range")
)

// Session owns one in-progress exam: the fixed question sequence, the
// answer sheet, the cursor, and the countdown. It is created Active and
// moves to Finished exactly once; a finished session cannot be restarted.
//
// All methods are safe for concurrent use, which covers the race between a
// manual finish and the timer forcing one.
type Session struct {
	mu        sync.Mutex
	cfg       model.ExamConfig
	questions []model.Question
	answers   []model.Answer
	current   int
	startedAt time.Time
	timer     *Timer
	finished  bool
	result    *model.ExamResult
}

// NewSession starts an exam over the given questions. The question slice
// is fixed at creation and never mutated. The countdown is armed when the
// config sets a time limit, but its wall-clock goroutine only starts with
// StartClock.
func NewSession(cfg model.ExamConfig, questions []model.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyPool
	}
	s := &Session{
		cfg:       cfg,
		questions: questions,
		answers:   make([]model.Answer, len(questions)),
		startedAt: time.Now(),
	}
	s.timer = NewTimer(cfg.TimeLimit, func() { s.Finish() })
	return s, nil
}

// StartClock begins the wall-clock countdown. No-op for untimed exams.
func (s *Session) StartClock() {
	s.timer.Run()
}

// Config returns the immutable exam configuration.
func (s *Session) Config() model.ExamConfig {
	return s.cfg
}

// Questions returns the exam's question sequence in exam order.
func (s *Session) Questions() []model.Question {
	return s.questions
}

// Question returns the question at the given exam position.
func (s *Session) Question(index int) (model.Question, error) {
	if index < 0 || index >= len(s.questions) {
		return model.Question{}, ErrIndexOutOfRange
	}
	return s.questions[index], nil
}

// Len returns the number of questions in the exam.
func (s *Session) Len() int {
	return len(s.questions)
}

// Timer returns the session's countdown.
func (s *Session) Timer() *Timer {
	return s.timer
}

// Active reports whether the session has not yet finished.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.finished
}

// Current returns the cursor position.
func (s *Session) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Answers returns a copy of the answer sheet.
func (s *Session) Answers() []model.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// SelectAnswer records an answer for the question at index, replacing any
// prior choice. It does not move the cursor.
func (s *Session) SelectAnswer(index int, a model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionFinished
	}
	if index < 0 || index >= len(s.answers) {
		return ErrIndexOutOfRange
	}
	s.answers[index] = a
	return nil
}

// GoTo moves the cursor, clamped to the exam bounds. No-op once finished.
func (s *Session) GoTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	if index < 0 {
		index = 0
	}
	if max := len(s.questions) - 1; index > max {
		index = max
	}
	s.current = index
}

// Next advances the cursor by one question.
func (s *Session) Next() {
	s.GoTo(s.Current() + 1)
}

// Previous moves the cursor back one question.
func (s *Session) Previous() {
	s.GoTo(s.Current() - 1)
}

// Finish scores the exam and stops the countdown. Unanswered questions
// score as incorrect. The result is computed once; every later call,
// including the timer expiring after a manual submit, returns the cached
// result unchanged.
func (s *Session) Finish() *model.ExamResult {
	s.mu.Lock()
	if s.finished {
		r := s.result
		s.mu.Unlock()
		return r
	}
	s.finished = true
	res := Score(s.questions, s.answers)
	res.TimeUsed = FormatClock(int(time.Since(s.startedAt).Seconds()))
	s.result = &res
	s.mu.Unlock()

	s.timer.Stop()
	return s.result
}

// Result returns the cached score, or nil while the session is active.
func (s *Session) Result() *model.ExamResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Abandon discards an active session without scoring it. The countdown is
// released; the answer sheet is lost.
func (s *Session) Abandon() {
	s.timer.Stop()
}
