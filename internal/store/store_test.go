package store

import (
	"testing"

	"github.com/castellanr/quizbank/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestQuestion(t *testing.T, s *Store, subject, topic, text string) int64 {
	t.Helper()
	id, err := s.InsertQuestion(model.Question{
		Subject:       subject,
		Topic:         topic,
		Text:          text,
		HasOptions:    true,
		Options:       []string{"a", "b", "c", "d"},
		CorrectOption: 1,
		Solution:      "solution for " + text,
		University:    "UNAM",
	})
	if err != nil {
		t.Fatalf("insertTestQuestion: %v", err)
	}
	return id
}

func TestQuestionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	count, err := s.QuestionCount()
	if err != nil {
		t.Fatalf("QuestionCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty bank, got %d questions", count)
	}

	id := insertTestQuestion(t, s, "Álgebra", "Ecuaciones", "¿Cuánto es 2x si x=2?")
	q, err := s.GetQuestion(id)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.Subject != "Álgebra" || q.Topic != "Ecuaciones" {
		t.Errorf("got subject/topic %q/%q", q.Subject, q.Topic)
	}
	if !q.HasOptions || len(q.Options) != 4 || q.Options[2] != "c" {
		t.Errorf("options did not survive the round trip: %v", q.Options)
	}
	if q.CorrectOption != 1 {
		t.Errorf("correct_option = %d, want 1", q.CorrectOption)
	}
	if q.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	// Open question keeps an empty options list, not null.
	openID, err := s.InsertQuestion(model.Question{
		Subject: "Álgebra", Topic: "General", Text: "Deriva x^2",
		CorrectOption: -1, CorrectAnswer: "2x",
	})
	if err != nil {
		t.Fatalf("InsertQuestion open: %v", err)
	}
	open, err := s.GetQuestion(openID)
	if err != nil {
		t.Fatalf("GetQuestion open: %v", err)
	}
	if open.HasOptions || len(open.Options) != 0 {
		t.Errorf("open question round trip: has_options=%v options=%v", open.HasOptions, open.Options)
	}
	if open.CorrectAnswer != "2x" {
		t.Errorf("correct_answer = %q, want 2x", open.CorrectAnswer)
	}
}

func TestListQuestionsFiltered(t *testing.T) {
	s := newTestStore(t)
	insertTestQuestion(t, s, "Álgebra", "Ecuaciones", "Q1")
	insertTestQuestion(t, s, "Álgebra", "Polinomios", "Q2")
	insertTestQuestion(t, s, "Geometría", "Ecuaciones", "Q3")

	tests := []struct {
		name      string
		subject   string
		topic     string
		wantCount int
	}{
		{"no filter", "", "", 3},
		{"by subject", "Álgebra", "", 2},
		{"by topic", "", "Ecuaciones", 2},
		{"topic is case-insensitive", "", "ECUACIONES", 2},
		{"by both", "Geometría", "ecuaciones", 1},
		{"no match", "Física", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := s.ListQuestionsFiltered(tt.subject, tt.topic)
			if err != nil {
				t.Fatalf("ListQuestionsFiltered: %v", err)
			}
			if len(qs) != tt.wantCount {
				t.Errorf("got %d questions, want %d", len(qs), tt.wantCount)
			}
		})
	}
}

func TestDistinctSubjectsAndTopics(t *testing.T) {
	s := newTestStore(t)
	insertTestQuestion(t, s, "Geometría", "Triángulos", "Q1")
	insertTestQuestion(t, s, "Álgebra", "Ecuaciones", "Q2")
	insertTestQuestion(t, s, "Álgebra", "Ecuaciones", "Q3")
	insertTestQuestion(t, s, "Álgebra", "Polinomios", "Q4")
	insertTestQuestion(t, s, "Simulador", "General", "Q5")

	subjects, err := s.DistinctSubjects()
	if err != nil {
		t.Fatalf("DistinctSubjects: %v", err)
	}
	// Alphabetical, reserved simulator label excluded.
	if len(subjects) != 2 || subjects[0] != "Álgebra" || subjects[1] != "Geometría" {
		t.Errorf("subjects = %v, want [Álgebra Geometría]", subjects)
	}

	topics, err := s.DistinctTopics("Álgebra")
	if err != nil {
		t.Fatalf("DistinctTopics: %v", err)
	}
	if len(topics) != 2 || topics[0] != "Ecuaciones" || topics[1] != "Polinomios" {
		t.Errorf("topics = %v, want [Ecuaciones Polinomios]", topics)
	}
}

func TestAnswerTelemetry(t *testing.T) {
	s := newTestStore(t)
	id := insertTestQuestion(t, s, "Álgebra", "General", "Q1")

	if err := s.IncrementShown(id); err != nil {
		t.Fatalf("IncrementShown: %v", err)
	}
	if err := s.RecordAnswer(id, true); err != nil {
		t.Fatalf("RecordAnswer correct: %v", err)
	}
	if err := s.RecordAnswer(id, false); err != nil {
		t.Fatalf("RecordAnswer incorrect: %v", err)
	}

	q, err := s.GetQuestion(id)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.TimesShown != 3 {
		t.Errorf("times_shown = %d, want 3", q.TimesShown)
	}
	if q.TimesCorrect != 1 {
		t.Errorf("times_correct = %d, want 1", q.TimesCorrect)
	}
}

func TestSimulatorLifecycle(t *testing.T) {
	s := newTestStore(t)

	simID, err := s.InsertSimulator(model.Simulator{
		Name:        "Simulacro UNAM 2025",
		Description: "Examen de práctica",
		TimeLimit:   90,
	})
	if err != nil {
		t.Fatalf("InsertSimulator: %v", err)
	}

	// Lookup by name.
	sim, err := s.GetSimulator("Simulacro UNAM 2025")
	if err != nil {
		t.Fatalf("GetSimulator: %v", err)
	}
	if sim == nil || sim.ID != simID || sim.TimeLimit != 90 {
		t.Fatalf("unexpected simulator: %+v", sim)
	}
	missing, err := s.GetSimulator("nope")
	if err != nil {
		t.Fatalf("GetSimulator missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown simulator")
	}

	// Questions bound by simulator name, in insertion order.
	q1, err := s.InsertQuestion(model.Question{
		Subject: "Simulador", Topic: "General", Text: "S1",
		HasOptions: true, Options: []string{"a", "b", "c", "d"}, CorrectOption: 0,
		SimulatorName: "Simulacro UNAM 2025", SimulatorSubject: "Matemáticas",
	})
	if err != nil {
		t.Fatalf("InsertQuestion: %v", err)
	}
	insertTestQuestion(t, s, "Álgebra", "General", "not in the simulator")

	qs, err := s.SimulatorQuestions("Simulacro UNAM 2025")
	if err != nil {
		t.Fatalf("SimulatorQuestions: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != q1 {
		t.Fatalf("got %d simulator questions, want just question %d", len(qs), q1)
	}

	// Scores: none yet, then history newest first, last score echoed in list.
	last, err := s.LatestScore(simID)
	if err != nil {
		t.Fatalf("LatestScore: %v", err)
	}
	if last != nil {
		t.Error("expected no score yet")
	}

	for i, sc := range []model.SimulatorScore{
		{SimulatorID: simID, Correct: 3, Total: 10, SectionStats: map[string]model.SectionStat{"Matemáticas": {Correct: 3, Total: 10}}},
		{SimulatorID: simID, Correct: 7, Total: 10, SectionStats: map[string]model.SectionStat{"Matemáticas": {Correct: 7, Total: 10}}},
	} {
		if _, err := s.InsertScore(sc); err != nil {
			t.Fatalf("InsertScore %d: %v", i, err)
		}
	}

	last, err = s.LatestScore(simID)
	if err != nil {
		t.Fatalf("LatestScore: %v", err)
	}
	if last == nil || last.Correct != 7 {
		t.Fatalf("latest score = %+v, want correct=7", last)
	}
	if got := last.SectionStats["Matemáticas"]; got.Correct != 7 || got.Total != 10 {
		t.Errorf("section stats did not survive the round trip: %+v", last.SectionStats)
	}

	history, err := s.ListScores(simID)
	if err != nil {
		t.Fatalf("ListScores: %v", err)
	}
	if len(history) != 2 || history[0].Correct != 7 || history[1].Correct != 3 {
		t.Errorf("history = %+v, want newest first", history)
	}

	sims, err := s.ListSimulators()
	if err != nil {
		t.Fatalf("ListSimulators: %v", err)
	}
	if len(sims) != 1 || sims[0].LastScore == nil || sims[0].LastScore.Correct != 7 {
		t.Errorf("ListSimulators last score = %+v", sims[0].LastScore)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	insertTestQuestion(t, s, "Álgebra", "Ecuaciones", "Q1")
	insertTestQuestion(t, s, "Álgebra", "Ecuaciones", "Q2")
	insertTestQuestion(t, s, "Geometría", "Triángulos", "Q3")
	id := insertTestQuestion(t, s, "Álgebra", "Polinomios", "Q4")
	if err := s.RecordAnswer(id, true); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if err := s.IncrementShown(id); err != nil {
		t.Fatalf("IncrementShown: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalQuestions != 4 {
		t.Errorf("total_questions = %d, want 4", stats.TotalQuestions)
	}
	if len(stats.Subjects) != 2 || stats.Subjects[0].Name != "Álgebra" || stats.Subjects[0].Count != 3 {
		t.Errorf("subjects = %v", stats.Subjects)
	}
	if len(stats.TopTopics) == 0 || stats.TopTopics[0].Name != "Ecuaciones" {
		t.Errorf("top topics = %v", stats.TopTopics)
	}
	if stats.TotalShown != 2 {
		t.Errorf("total_shown = %d, want 2", stats.TotalShown)
	}
}

func TestImportedFileHash(t *testing.T) {
	s := newTestStore(t)

	hash, err := s.GetImportedFileHash("/some/questions.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "" {
		t.Errorf("expected empty hash, got %q", hash)
	}

	if err := s.SetImportedFileHash("/some/questions.json", "abc123"); err != nil {
		t.Fatalf("SetImportedFileHash: %v", err)
	}
	hash, err = s.GetImportedFileHash("/some/questions.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "abc123" {
		t.Errorf("expected 'abc123', got %q", hash)
	}

	if err := s.SetImportedFileHash("/some/questions.json", "def456"); err != nil {
		t.Fatalf("SetImportedFileHash update: %v", err)
	}
	hash, _ = s.GetImportedFileHash("/some/questions.json")
	if hash != "def456" {
		t.Errorf("expected 'def456', got %q", hash)
	}
}

func TestExportResults(t *testing.T) {
	s := newTestStore(t)
	simID, err := s.InsertSimulator(model.Simulator{Name: "Simulacro A", TimeLimit: 60})
	if err != nil {
		t.Fatalf("InsertSimulator: %v", err)
	}
	if _, err := s.InsertScore(model.SimulatorScore{SimulatorID: simID, Correct: 5, Total: 8}); err != nil {
		t.Fatalf("InsertScore: %v", err)
	}

	export, err := s.ExportResults()
	if err != nil {
		t.Fatalf("ExportResults: %v", err)
	}
	if len(export.Simulators) != 1 {
		t.Fatalf("exported %d simulators, want 1", len(export.Simulators))
	}
	got := export.Simulators[0]
	if got.Name != "Simulacro A" || got.TimeLimit != 60 {
		t.Errorf("exported simulator = %+v", got)
	}
	if len(got.Attempts) != 1 || got.Attempts[0].Correct != 5 {
		t.Errorf("exported attempts = %+v", got.Attempts)
	}
	if export.ExportedAt.IsZero() {
		t.Error("exported_at not set")
	}
}
