package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/castellanr/quizbank/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject TEXT NOT NULL DEFAULT 'Matemáticas',
		topic TEXT NOT NULL DEFAULT 'General',
		question TEXT NOT NULL,
		has_options INTEGER NOT NULL DEFAULT 0,
		options TEXT NOT NULL DEFAULT '[]',
		correct_option INTEGER NOT NULL DEFAULT -1,
		correct_answer TEXT NOT NULL DEFAULT '',
		solution TEXT NOT NULL DEFAULT '',
		university TEXT NOT NULL DEFAULT 'UNAM',
		simulator_name TEXT NOT NULL DEFAULT '',
		simulator_subject TEXT NOT NULL DEFAULT '',
		times_shown INTEGER NOT NULL DEFAULT 0,
		times_correct INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS simulators (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		time_limit INTEGER NOT NULL DEFAULT 0,
		scheduled_at TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS simulator_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		simulator_id INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		total INTEGER NOT NULL,
		section_stats TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (simulator_id) REFERENCES simulators(id)
	);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const questionColumns = `id, subject, topic, question, has_options, options, correct_option,
	correct_answer, solution, university, simulator_name, simulator_subject,
	times_shown, times_correct, created_at`

func scanQuestion(row interface{ Scan(...any) error }) (model.Question, error) {
	var q model.Question
	var optionsJSON string
	err := row.Scan(
		&q.ID, &q.Subject, &q.Topic, &q.Text, &q.HasOptions, &optionsJSON, &q.CorrectOption,
		&q.CorrectAnswer, &q.Solution, &q.University, &q.SimulatorName, &q.SimulatorSubject,
		&q.TimesShown, &q.TimesCorrect, &q.CreatedAt,
	)
	if err != nil {
		return q, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return q, fmt.Errorf("decode options for question %d: %w", q.ID, err)
	}
	return q, nil
}

// InsertQuestion stores a question and returns its ID.
func (s *Store) InsertQuestion(q model.Question) (int64, error) {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return 0, fmt.Errorf("encode options: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO questions (subject, topic, question, has_options, options, correct_option,
		 correct_answer, solution, university, simulator_name, simulator_subject, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Subject, q.Topic, q.Text, q.HasOptions, string(optionsJSON), q.CorrectOption,
		q.CorrectAnswer, q.Solution, q.University, q.SimulatorName, q.SimulatorSubject, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListQuestions returns all questions, optionally restricted to one subject.
func (s *Store) ListQuestions(subject string) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions`
	var args []any
	if subject != "" {
		query += ` WHERE subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY id`
	return s.queryQuestions(query, args...)
}

// ListQuestionsFiltered returns questions matching the given filters.
// Empty strings mean no filtering on that field; the topic match is
// case-insensitive.
func (s *Store) ListQuestionsFiltered(subject, topic string) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	var args []any
	if subject != "" {
		query += ` AND subject = ?`
		args = append(args, subject)
	}
	if topic != "" {
		query += ` AND LOWER(topic) = LOWER(?)`
		args = append(args, topic)
	}
	query += ` ORDER BY id`
	return s.queryQuestions(query, args...)
}

func (s *Store) queryQuestions(query string, args ...any) ([]model.Question, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestion returns a question by ID.
func (s *Store) GetQuestion(id int64) (model.Question, error) {
	row := s.db.QueryRow(`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	return scanQuestion(row)
}

// QuestionCount returns the number of questions in the bank.
func (s *Store) QuestionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}

// DistinctSubjects returns the subjects present in the bank, alphabetical,
// with the reserved simulator label left out.
func (s *Store) DistinctSubjects() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT subject FROM questions WHERE LOWER(subject) != ? ORDER BY subject`,
		model.ReservedSubject,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subjects []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

// DistinctTopics returns the topics of one subject, alphabetical.
func (s *Store) DistinctTopics(subject string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT topic FROM questions WHERE subject = ? ORDER BY topic`, subject,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var topics []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// IncrementShown bumps a question's times_shown counter.
func (s *Store) IncrementShown(id int64) error {
	_, err := s.db.Exec(`UPDATE questions SET times_shown = times_shown + 1 WHERE id = ?`, id)
	return err
}

// RecordAnswer registers per-question telemetry: the question was shown
// and, when correct, answered right.
func (s *Store) RecordAnswer(id int64, correct bool) error {
	query := `UPDATE questions SET times_shown = times_shown + 1 WHERE id = ?`
	if correct {
		query = `UPDATE questions SET times_shown = times_shown + 1, times_correct = times_correct + 1 WHERE id = ?`
	}
	_, err := s.db.Exec(query, id)
	return err
}
