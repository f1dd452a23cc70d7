package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/castellanr/quizbank/internal/exam"
	"github.com/castellanr/quizbank/internal/i18n"
	"github.com/castellanr/quizbank/internal/model"
	"github.com/castellanr/quizbank/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	exams *exam.Registry

	// Study mode keeps one shared pool so a question is not repeated
	// before the rest of its candidate set has been shown. The pool is
	// reset whenever the requested filters change.
	studyMu     sync.Mutex
	study       *exam.StudyPool
	studyFilter string
}

// New creates a new Handler.
func New(s *store.Store) *Handler {
	return &Handler{
		store: s,
		exams: exam.NewRegistry(),
		study: exam.NewStudyPool(),
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.handleListQuestions)
		r.Get("/questions/random", h.handleRandomQuestion)
		r.Post("/questions/{id}/answer", h.handleAnswerTelemetry)
		r.Get("/subjects", h.handleSubjects)
		r.Get("/subjects/{subject}/topics", h.handleTopics)
		r.Get("/stats", h.handleStats)

		r.Get("/simulators", h.handleListSimulators)
		r.Get("/simulators/{name}/questions", h.handleSimulatorQuestions)
		r.Post("/simulators/{name}/score", h.handleSaveScore)
		r.Get("/simulators/{name}/results", h.handleSimulatorResults)

		r.Post("/exams", h.handleStartExam)
		r.Get("/exams/{examID}", h.handleExamStatus)
		r.Get("/exams/{examID}/questions/{index}", h.handleExamQuestion)
		r.Post("/exams/{examID}/answers", h.handleExamAnswer)
		r.Post("/exams/{examID}/goto", h.handleExamGoTo)
		r.Post("/exams/{examID}/finish", h.handleFinishExam)
		r.Delete("/exams/{examID}", h.handleAbandonExam)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// ok writes a success envelope, merging the given fields.
func ok(w http.ResponseWriter, fields map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	writeJSON(w, http.StatusOK, payload)
}

// fail writes an error envelope with a localized message.
func fail(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   i18n.T(r.Context(), msgID),
	})
}

// failErr logs an unexpected error and answers with a generic message.
func failErr(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	fail(w, r, http.StatusInternalServerError, "ErrInternal")
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// normalizeFilter maps the frontend's "show everything" values to an empty
// filter. The original client sends "todos"; "all" is accepted too.
func normalizeFilter(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "todos", "all":
		return ""
	default:
		return strings.TrimSpace(v)
	}
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	subject := normalizeFilter(r.URL.Query().Get("subject"))
	questions, err := h.store.ListQuestions(subject)
	if err != nil {
		failErr(w, r, err)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	ok(w, map[string]any{"questions": questions, "count": len(questions)})
}

func (h *Handler) handleRandomQuestion(w http.ResponseWriter, r *http.Request) {
	subject := normalizeFilter(r.URL.Query().Get("subject"))
	topic := normalizeFilter(r.URL.Query().Get("topic"))

	all, err := h.store.ListQuestionsFiltered(subject, topic)
	if err != nil {
		failErr(w, r, err)
		return
	}
	var candidates []model.Question
	for _, q := range all {
		if !q.IsReserved() {
			candidates = append(candidates, q)
		}
	}

	h.studyMu.Lock()
	filter := subject + "\x00" + topic
	if filter != h.studyFilter {
		h.study.Reset()
		h.studyFilter = filter
	}
	q, err := h.study.Draw(candidates)
	h.studyMu.Unlock()
	if errors.Is(err, exam.ErrEmptyPool) {
		fail(w, r, http.StatusNotFound, "ErrEmptyPool")
		return
	}
	if err != nil {
		failErr(w, r, err)
		return
	}

	if err := h.store.IncrementShown(q.ID); err != nil {
		failErr(w, r, err)
		return
	}
	ok(w, map[string]any{"question": q})
}

func (h *Handler) handleAnswerTelemetry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}
	var req struct {
		Correct bool `json:"correct"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}

	if _, err := h.store.GetQuestion(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fail(w, r, http.StatusNotFound, "ErrQuestionNotFound")
			return
		}
		failErr(w, r, err)
		return
	}
	if err := h.store.RecordAnswer(id, req.Correct); err != nil {
		failErr(w, r, err)
		return
	}
	ok(w, map[string]any{
		"message": i18n.T(r.Context(), "AnswerRegistered"),
		"correct": req.Correct,
	})
}

func (h *Handler) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.store.DistinctSubjects()
	if err != nil {
		failErr(w, r, err)
		return
	}
	if subjects == nil {
		subjects = []string{}
	}
	ok(w, map[string]any{"subjects": subjects})
}

func (h *Handler) handleTopics(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	topics, err := h.store.DistinctTopics(subject)
	if err != nil {
		failErr(w, r, err)
		return
	}
	if topics == nil {
		topics = []string{}
	}
	ok(w, map[string]any{"subject": subject, "topics": topics})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		failErr(w, r, err)
		return
	}
	ok(w, map[string]any{"stats": stats})
}
