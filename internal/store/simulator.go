package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/castellanr/quizbank/internal/model"
)

// InsertSimulator stores a simulator definition and returns its ID.
func (s *Store) InsertSimulator(sim model.Simulator) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO simulators (name, description, time_limit, scheduled_at, duration_minutes)
		 VALUES (?, ?, ?, ?, ?)`,
		sim.Name, sim.Description, sim.TimeLimit, sim.ScheduledAt, sim.DurationMinutes,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetSimulator returns a simulator by name, or nil when it does not exist.
func (s *Store) GetSimulator(name string) (*model.Simulator, error) {
	var sim model.Simulator
	err := s.db.QueryRow(
		`SELECT id, name, description, time_limit, scheduled_at, duration_minutes
		 FROM simulators WHERE name = ?`, name,
	).Scan(&sim.ID, &sim.Name, &sim.Description, &sim.TimeLimit, &sim.ScheduledAt, &sim.DurationMinutes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sim, nil
}

// ListSimulators returns all simulators with each one's most recent score.
func (s *Store) ListSimulators() ([]model.Simulator, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, time_limit, scheduled_at, duration_minutes
		 FROM simulators ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sims []model.Simulator
	for rows.Next() {
		var sim model.Simulator
		if err := rows.Scan(&sim.ID, &sim.Name, &sim.Description, &sim.TimeLimit, &sim.ScheduledAt, &sim.DurationMinutes); err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range sims {
		last, err := s.LatestScore(sims[i].ID)
		if err != nil {
			return nil, err
		}
		sims[i].LastScore = last
	}
	return sims, nil
}

// SimulatorQuestions returns a simulator's fixed question set in insertion
// order. Matching ignores the question's subject; binding is by name.
func (s *Store) SimulatorQuestions(name string) ([]model.Question, error) {
	return s.queryQuestions(
		`SELECT `+questionColumns+` FROM questions WHERE simulator_name = ? ORDER BY id`, name,
	)
}

// InsertScore persists one simulator attempt.
func (s *Store) InsertScore(score model.SimulatorScore) (int64, error) {
	statsJSON, err := json.Marshal(score.SectionStats)
	if err != nil {
		return 0, fmt.Errorf("encode section stats: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO simulator_scores (simulator_id, correct, total, section_stats, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		score.SimulatorID, score.Correct, score.Total, string(statsJSON), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanScore(row interface{ Scan(...any) error }) (model.SimulatorScore, error) {
	var sc model.SimulatorScore
	var statsJSON string
	err := row.Scan(&sc.ID, &sc.SimulatorID, &sc.Correct, &sc.Total, &statsJSON, &sc.CreatedAt)
	if err != nil {
		return sc, err
	}
	if err := json.Unmarshal([]byte(statsJSON), &sc.SectionStats); err != nil {
		return sc, fmt.Errorf("decode section stats for score %d: %w", sc.ID, err)
	}
	return sc, nil
}

// LatestScore returns the most recent attempt for a simulator, or nil.
func (s *Store) LatestScore(simulatorID int64) (*model.SimulatorScore, error) {
	row := s.db.QueryRow(
		`SELECT id, simulator_id, correct, total, section_stats, created_at
		 FROM simulator_scores WHERE simulator_id = ? ORDER BY id DESC LIMIT 1`, simulatorID,
	)
	sc, err := scanScore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListScores returns a simulator's attempt history, newest first.
func (s *Store) ListScores(simulatorID int64) ([]model.SimulatorScore, error) {
	rows, err := s.db.Query(
		`SELECT id, simulator_id, correct, total, section_stats, created_at
		 FROM simulator_scores WHERE simulator_id = ? ORDER BY id DESC`, simulatorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var scores []model.SimulatorScore
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}
