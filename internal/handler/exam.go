package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/castellanr/quizbank/internal/exam"
	"github.com/castellanr/quizbank/internal/i18n"
	"github.com/castellanr/quizbank/internal/model"
)

func levelName(l exam.Level) string {
	switch l {
	case exam.LevelWarning:
		return "warning"
	case exam.LevelCritical:
		return "critical"
	default:
		return "none"
	}
}

func (h *Handler) handleStartExam(w http.ResponseWriter, r *http.Request) {
	var cfg model.ExamConfig
	if err := decode(r, &cfg); err != nil {
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}

	var (
		questions []model.Question
		capped    bool
	)
	if cfg.Simulator != "" {
		sim, err := h.store.GetSimulator(cfg.Simulator)
		if err != nil {
			failErr(w, r, err)
			return
		}
		if sim == nil {
			fail(w, r, http.StatusNotFound, "ErrSimulatorNotFound")
			return
		}
		questions, err = h.store.SimulatorQuestions(sim.Name)
		if err != nil {
			failErr(w, r, err)
			return
		}
		if len(questions) == 0 {
			fail(w, r, http.StatusBadRequest, "ErrSimulatorEmpty")
			return
		}
		cfg.TimeLimit = sim.TimeLimit
		cfg.QuestionCount = len(questions)
	} else {
		bank, err := h.store.ListQuestions("")
		if err != nil {
			failErr(w, r, err)
			return
		}
		questions, capped, err = exam.SelectBalanced(bank, cfg)
		if errors.Is(err, exam.ErrEmptyPool) {
			fail(w, r, http.StatusBadRequest, "ErrEmptyPool")
			return
		}
		if err != nil {
			failErr(w, r, err)
			return
		}
	}

	id, s, err := h.exams.Start(cfg, questions)
	if err != nil {
		failErr(w, r, err)
		return
	}

	fields := map[string]any{
		"exam_id":        id,
		"question_count": s.Len(),
		"time_limit":     cfg.TimeLimit,
	}
	if capped {
		fields["warning"] = i18n.Td(r.Context(), "WarnPoolCapped",
			map[string]any{"Available": s.Len()})
	}
	ok(w, fields)
}

// lookupExam resolves an exam ID URL parameter, answering 404 itself when
// no such session is live.
func (h *Handler) lookupExam(w http.ResponseWriter, r *http.Request) (string, *exam.Session) {
	id := chi.URLParam(r, "examID")
	s, err := h.exams.Get(id)
	if err != nil {
		fail(w, r, http.StatusNotFound, "ErrSessionNotFound")
		return "", nil
	}
	return id, s
}

func (h *Handler) handleExamStatus(w http.ResponseWriter, r *http.Request) {
	_, s := h.lookupExam(w, r)
	if s == nil {
		return
	}

	answers := s.Answers()
	answered := make([]bool, len(answers))
	for i, a := range answers {
		answered[i] = a.Answered()
	}

	t := s.Timer()
	display := t.Display()
	if display == "" {
		display = i18n.T(r.Context(), "NoTimeLimit")
	}
	ok(w, map[string]any{
		"active":       s.Active(),
		"current":      s.Current(),
		"total":        s.Len(),
		"answered":     answered,
		"time_display": display,
		"time_level":   levelName(t.Level()),
	})
}

func (h *Handler) handleExamQuestion(w http.ResponseWriter, r *http.Request) {
	_, s := h.lookupExam(w, r)
	if s == nil {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}
	q, err := s.Question(index)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}

	// The answer key stays on the server until the exam is scored.
	q.CorrectOption = -1
	q.CorrectAnswer = ""
	q.Solution = ""

	fields := map[string]any{
		"index":    index,
		"total":    s.Len(),
		"question": q,
	}
	a := s.Answers()[index]
	switch a.Kind {
	case model.AnswerOption:
		fields["selected_option"] = a.Option
	case model.AnswerText:
		fields["text"] = a.Text
	}
	ok(w, fields)
}

func (h *Handler) handleExamAnswer(w http.ResponseWriter, r *http.Request) {
	_, s := h.lookupExam(w, r)
	if s == nil {
		return
	}
	var req struct {
		Index  int     `json:"index"`
		Option *int    `json:"option"`
		Text   *string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}

	var a model.Answer
	switch {
	case req.Option != nil:
		a = model.OptionAnswer(*req.Option)
	case req.Text != nil:
		a = model.TextAnswer(*req.Text)
	default:
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}

	switch err := s.SelectAnswer(req.Index, a); {
	case errors.Is(err, exam.ErrSessionFinished):
		fail(w, r, http.StatusConflict, "ErrSessionFinished")
		return
	case errors.Is(err, exam.ErrIndexOutOfRange):
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	case err != nil:
		failErr(w, r, err)
		return
	}
	ok(w, map[string]any{"index": req.Index})
}

func (h *Handler) handleExamGoTo(w http.ResponseWriter, r *http.Request) {
	_, s := h.lookupExam(w, r)
	if s == nil {
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}
	s.GoTo(req.Index)
	ok(w, map[string]any{"current": s.Current()})
}

func (h *Handler) handleFinishExam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "examID")
	s, err := h.exams.Remove(id)
	if err != nil {
		fail(w, r, http.StatusNotFound, "ErrSessionNotFound")
		return
	}
	result := s.Finish()

	// A simulator run counts as an attempt in the score history. The result
	// still goes back to the client when persistence fails.
	if name := s.Config().Simulator; name != "" {
		sim, err := h.store.GetSimulator(name)
		if err == nil && sim != nil {
			err = persistExamScore(h.store, sim, result)
		}
		if err != nil {
			slog.Error("persist simulator score", "simulator", name, "error", err)
		}
	}
	ok(w, map[string]any{"result": result})
}

func (h *Handler) handleAbandonExam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "examID")
	s, err := h.exams.Remove(id)
	if err != nil {
		fail(w, r, http.StatusNotFound, "ErrSessionNotFound")
		return
	}
	s.Abandon()
	ok(w, map[string]any{"message": i18n.T(r.Context(), "ExamAbandoned")})
}
