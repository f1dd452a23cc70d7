package store

import "github.com/castellanr/quizbank/internal/model"

func (s *Store) countBuckets(query string, args ...any) ([]model.CountBucket, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var buckets []model.CountBucket
	for rows.Next() {
		var b model.CountBucket
		if err := rows.Scan(&b.Name, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// Stats aggregates the question-bank statistics: totals, per-subject and
// per-university counts (descending), the five most common topics, and the
// total number of times questions were shown.
func (s *Store) Stats() (model.Stats, error) {
	var stats model.Stats

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&stats.TotalQuestions); err != nil {
		return stats, err
	}

	var err error
	stats.Subjects, err = s.countBuckets(
		`SELECT subject, COUNT(*) AS n FROM questions GROUP BY subject ORDER BY n DESC`,
	)
	if err != nil {
		return stats, err
	}
	stats.Universities, err = s.countBuckets(
		`SELECT university, COUNT(*) AS n FROM questions GROUP BY university ORDER BY n DESC`,
	)
	if err != nil {
		return stats, err
	}
	stats.TopTopics, err = s.countBuckets(
		`SELECT topic, COUNT(*) AS n FROM questions GROUP BY topic ORDER BY n DESC LIMIT 5`,
	)
	if err != nil {
		return stats, err
	}

	if err := s.db.QueryRow(`SELECT COALESCE(SUM(times_shown), 0) FROM questions`).Scan(&stats.TotalShown); err != nil {
		return stats, err
	}
	return stats, nil
}
