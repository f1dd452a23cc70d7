package model

import "time"

// ResultsExport is the top-level JSON structure for simulator result export.
type ResultsExport struct {
	ExportedAt time.Time          `json:"exported_at"`
	Simulators []SimulatorResults `json:"simulators"`
}

// SimulatorResults holds one simulator's attempt history for export.
type SimulatorResults struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	TimeLimit   int              `json:"time_limit"`
	Attempts    []SimulatorScore `json:"attempts"`
}
