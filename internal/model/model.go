package model

import (
	"fmt"
	"strings"
	"time"
)

// ReservedSubject is the subject label that marks simulator-only questions.
// Questions carrying it (matched case-insensitively) never enter regular
// exams or study mode; they are reachable only through their simulator.
const ReservedSubject = "simulador"

// OptionCount is the fixed number of answer options for multiple-choice questions.
const OptionCount = 4

// Question is a single item in the question bank.
type Question struct {
	ID               int64     `json:"id"`
	Subject          string    `json:"subject"`
	Topic            string    `json:"topic"`
	Text             string    `json:"question"`
	HasOptions       bool      `json:"has_options"`
	Options          []string  `json:"options"`
	CorrectOption    int       `json:"correct_option"`
	CorrectAnswer    string    `json:"correct_answer"`
	Solution         string    `json:"solution"`
	University       string    `json:"university"`
	SimulatorName    string    `json:"simulator_name,omitempty"`
	SimulatorSubject string    `json:"simulator_subject,omitempty"`
	TimesShown       int       `json:"times_shown"`
	TimesCorrect     int       `json:"times_correct"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsReserved reports whether the question belongs to simulator-only content.
func (q Question) IsReserved() bool {
	return strings.EqualFold(strings.TrimSpace(q.Subject), ReservedSubject)
}

// Section returns the section name used for per-section score breakdowns.
func (q Question) Section() string {
	if s := strings.TrimSpace(q.SimulatorSubject); s != "" {
		return s
	}
	return "General"
}

// Validate checks the multiple-choice invariant: a question either has
// exactly four options and a correct index in range, or no options and a
// correct index of -1.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if q.HasOptions {
		if len(q.Options) != OptionCount {
			return fmt.Errorf("question %q: expected %d options, got %d", q.Text, OptionCount, len(q.Options))
		}
		if q.CorrectOption < 0 || q.CorrectOption >= OptionCount {
			return fmt.Errorf("question %q: correct_option %d out of range", q.Text, q.CorrectOption)
		}
		return nil
	}
	if q.CorrectOption != -1 {
		return fmt.Errorf("question %q: open question must have correct_option -1, got %d", q.Text, q.CorrectOption)
	}
	return nil
}

// AnswerKind discriminates the answer variant.
type AnswerKind int

const (
	// AnswerNone means the question has not been answered.
	AnswerNone AnswerKind = iota
	// AnswerOption is a selected multiple-choice option index.
	AnswerOption
	// AnswerText is a free-text response to an open question.
	AnswerText
)

// Answer is a tagged variant: unanswered, a selected option, or free text.
type Answer struct {
	Kind   AnswerKind
	Option int
	Text   string
}

// Unanswered returns the zero answer.
func Unanswered() Answer {
	return Answer{Kind: AnswerNone}
}

// OptionAnswer returns an answer selecting the given option index.
func OptionAnswer(index int) Answer {
	return Answer{Kind: AnswerOption, Option: index}
}

// TextAnswer returns a free-text answer.
func TextAnswer(text string) Answer {
	return Answer{Kind: AnswerText, Text: text}
}

// Answered reports whether any response has been recorded.
func (a Answer) Answered() bool {
	return a.Kind != AnswerNone
}

// ExamConfig describes an exam before it starts. Immutable once a session
// is created from it.
type ExamConfig struct {
	QuestionCount int      `json:"question_count"`
	TimeLimit     int      `json:"time_limit"` // minutes, 0 = untimed
	Subjects      []string `json:"subjects"`   // empty = all subjects
	Simulator     string   `json:"simulator"`  // non-empty for simulator mode
}

// SectionStat is the per-section correct/total tally.
type SectionStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// ReviewEntry is one question's line in the post-exam review, in original
// question order.
type ReviewEntry struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Solution      string `json:"solution"`
}

// ExamResult is the scored outcome of a finished session.
type ExamResult struct {
	Correct      int                    `json:"correct"`
	Total        int                    `json:"total"`
	Score        int                    `json:"score"`
	Grade        string                 `json:"grade"`
	SectionStats map[string]SectionStat `json:"section_stats"`
	Review       []ReviewEntry          `json:"review"`
	TimeUsed     string                 `json:"time_used"`
}

// Simulator is a named mock exam with a fixed question set.
type Simulator struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	TimeLimit       int             `json:"time_limit"` // minutes, 0 = untimed
	ScheduledAt     string          `json:"scheduled_at,omitempty"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	LastScore       *SimulatorScore `json:"last_score,omitempty"`
}

// SimulatorScore is one persisted simulator attempt.
type SimulatorScore struct {
	ID           int64                  `json:"id"`
	SimulatorID  int64                  `json:"-"`
	Correct      int                    `json:"correct"`
	Total        int                    `json:"total"`
	SectionStats map[string]SectionStat `json:"section_stats"`
	CreatedAt    time.Time              `json:"created_at"`
}

// QuestionImport is the JSON shape for loading questions from files.
type QuestionImport struct {
	Subject          string   `json:"subject"`
	Topic            string   `json:"topic"`
	Text             string   `json:"question"`
	HasOptions       bool     `json:"has_options"`
	Options          []string `json:"options"`
	CorrectOption    *int     `json:"correct_option"`
	CorrectAnswer    string   `json:"correct_answer"`
	Solution         string   `json:"solution"`
	University       string   `json:"university"`
	SimulatorName    string   `json:"simulator_name"`
	SimulatorSubject string   `json:"simulator_subject"`
}

// ToQuestion converts an import record, applying the bank's defaults.
func (qi QuestionImport) ToQuestion() Question {
	q := Question{
		Subject:          qi.Subject,
		Topic:            qi.Topic,
		Text:             qi.Text,
		HasOptions:       qi.HasOptions,
		Options:          qi.Options,
		CorrectOption:    -1,
		CorrectAnswer:    qi.CorrectAnswer,
		Solution:         qi.Solution,
		University:       qi.University,
		SimulatorName:    qi.SimulatorName,
		SimulatorSubject: qi.SimulatorSubject,
	}
	if q.Subject == "" {
		q.Subject = "Matemáticas"
	}
	if q.Topic == "" {
		q.Topic = "General"
	}
	if q.University == "" {
		q.University = "UNAM"
	}
	if qi.CorrectOption != nil {
		q.CorrectOption = *qi.CorrectOption
	}
	return q
}

// SimulatorImport is the JSON shape for loading simulator definitions.
type SimulatorImport struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	TimeLimit       int    `json:"time_limit"`
	ScheduledAt     string `json:"scheduled_at"`
	DurationMinutes int    `json:"duration_minutes"`
}

// CountBucket is a name/count pair in aggregate statistics.
type CountBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats is the question-bank statistics summary.
type Stats struct {
	TotalQuestions int           `json:"total_questions"`
	Subjects       []CountBucket `json:"subjects"`
	Universities   []CountBucket `json:"universities"`
	TopTopics      []CountBucket `json:"top_topics"`
	TotalShown     int           `json:"total_shown"`
}
