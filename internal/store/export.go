package store

import (
	"fmt"
	"time"

	"github.com/castellanr/quizbank/internal/model"
)

// ExportResults builds the export-ready attempt history of every simulator.
func (s *Store) ExportResults() (model.ResultsExport, error) {
	sims, err := s.ListSimulators()
	if err != nil {
		return model.ResultsExport{}, fmt.Errorf("list simulators: %w", err)
	}

	export := model.ResultsExport{ExportedAt: time.Now()}
	for _, sim := range sims {
		attempts, err := s.ListScores(sim.ID)
		if err != nil {
			return model.ResultsExport{}, fmt.Errorf("list scores for %s: %w", sim.Name, err)
		}
		export.Simulators = append(export.Simulators, model.SimulatorResults{
			Name:        sim.Name,
			Description: sim.Description,
			TimeLimit:   sim.TimeLimit,
			Attempts:    attempts,
		})
	}
	return export, nil
}
