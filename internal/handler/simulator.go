package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/castellanr/quizbank/internal/i18n"
	"github.com/castellanr/quizbank/internal/model"
	"github.com/castellanr/quizbank/internal/store"
)

func (h *Handler) handleListSimulators(w http.ResponseWriter, r *http.Request) {
	simulators, err := h.store.ListSimulators()
	if err != nil {
		failErr(w, r, err)
		return
	}
	if simulators == nil {
		simulators = []model.Simulator{}
	}
	ok(w, map[string]any{"simulators": simulators})
}

// lookupSimulator resolves a name URL parameter, answering 404 itself when
// the simulator does not exist.
func (h *Handler) lookupSimulator(w http.ResponseWriter, r *http.Request) *model.Simulator {
	name := chi.URLParam(r, "name")
	sim, err := h.store.GetSimulator(name)
	if err != nil {
		failErr(w, r, err)
		return nil
	}
	if sim == nil {
		fail(w, r, http.StatusNotFound, "ErrSimulatorNotFound")
		return nil
	}
	return sim
}

func (h *Handler) handleSimulatorQuestions(w http.ResponseWriter, r *http.Request) {
	sim := h.lookupSimulator(w, r)
	if sim == nil {
		return
	}
	questions, err := h.store.SimulatorQuestions(sim.Name)
	if err != nil {
		failErr(w, r, err)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	ok(w, map[string]any{
		"simulator":  sim.Name,
		"time_limit": sim.TimeLimit,
		"questions":  questions,
		"count":      len(questions),
	})
}

func (h *Handler) handleSaveScore(w http.ResponseWriter, r *http.Request) {
	sim := h.lookupSimulator(w, r)
	if sim == nil {
		return
	}
	var req struct {
		Correct      int                          `json:"correct"`
		Total        int                          `json:"total"`
		SectionStats map[string]model.SectionStat `json:"section_stats"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "ErrInvalidRequest")
		return
	}

	score := model.SimulatorScore{
		SimulatorID:  sim.ID,
		Correct:      req.Correct,
		Total:        req.Total,
		SectionStats: req.SectionStats,
	}
	if _, err := h.store.InsertScore(score); err != nil {
		failErr(w, r, err)
		return
	}
	last, err := h.store.LatestScore(sim.ID)
	if err != nil {
		failErr(w, r, err)
		return
	}
	ok(w, map[string]any{
		"message":    i18n.T(r.Context(), "ScoreSaved"),
		"last_score": last,
	})
}

func (h *Handler) handleSimulatorResults(w http.ResponseWriter, r *http.Request) {
	sim := h.lookupSimulator(w, r)
	if sim == nil {
		return
	}
	scores, err := h.store.ListScores(sim.ID)
	if err != nil {
		failErr(w, r, err)
		return
	}
	if scores == nil {
		scores = []model.SimulatorScore{}
	}
	ok(w, map[string]any{
		"simulator": sim.Name,
		"results":   scores,
		"count":     len(scores),
	})
}

// persistExamScore records a finished exam as a simulator attempt.
func persistExamScore(s *store.Store, sim *model.Simulator, res *model.ExamResult) error {
	_, err := s.InsertScore(model.SimulatorScore{
		SimulatorID:  sim.ID,
		Correct:      res.Correct,
		Total:        res.Total,
		SectionStats: res.SectionStats,
	})
	return err
}
