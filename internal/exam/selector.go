package exam

import (
	"errors"
	"math/rand/v2"

	"github.com/castellanr/quizbank/internal/model"
)

// ErrEmptyPool is returned when a configuration yields zero eligible
// questions. A session must never start from an empty pool.
var ErrEmptyPool = errors.New("exam: no eligible questions")

// SelectBalanced draws a fixed-size, subject-balanced, randomly ordered
// subset of the question bank for an exam. Simulator-only questions are
// excluded. The returned bool is true when the requested count exceeded the
// eligible pool and was capped, so the caller can surface a warning.
//
// Each selected subject gets an independently shuffled pool; the target is
// split evenly across subjects, the remainder is distributed round-robin
// over subjects that still have questions, and any shortfall is topped up
// from the remaining unused questions across all subjects. No question is
// selected twice.
func SelectBalanced(bank []model.Question, cfg model.ExamConfig) ([]model.Question, bool, error) {
	eligible := make([]model.Question, 0, len(bank))
	for _, q := range bank {
		if !q.IsReserved() {
			eligible = append(eligible, q)
		}
	}

	subjects := cfg.Subjects
	if len(subjects) == 0 {
		seen := make(map[string]bool)
		for _, q := range eligible {
			if !seen[q.Subject] {
				seen[q.Subject] = true
				subjects = append(subjects, q.Subject)
			}
		}
	}
	if len(subjects) == 0 {
		return nil, false, ErrEmptyPool
	}

	inScope := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		inScope[s] = true
	}
	available := 0
	for _, q := range eligible {
		if inScope[q.Subject] {
			available++
		}
	}
	if available == 0 {
		return nil, false, ErrEmptyPool
	}

	target := cfg.QuestionCount
	capped := false
	if target <= 0 || target > available {
		capped = target > available
		target = available
	}

	pools := make(map[string][]model.Question, len(subjects))
	for _, s := range subjects {
		var pool []model.Question
		for _, q := range eligible {
			if q.Subject == s {
				pool = append(pool, q)
			}
		}
		rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		pools[s] = pool
	}

	selected := make([]model.Question, 0, target)
	used := make(map[int64]bool, target)
	remaining := target

	// Popping from the shuffled end is uniform sampling without replacement.
	take := func(subject string) bool {
		pool := pools[subject]
		if len(pool) == 0 {
			return false
		}
		q := pool[len(pool)-1]
		pools[subject] = pool[:len(pool)-1]
		if used[q.ID] {
			return false
		}
		used[q.ID] = true
		selected = append(selected, q)
		remaining--
		return true
	}

	base := target / len(subjects)
	for _, s := range subjects {
		n := base
		if l := len(pools[s]); n > l {
			n = l
		}
		for i := 0; i < n && remaining > 0; i++ {
			take(s)
		}
	}

	for remaining > 0 {
		picked := false
		for _, s := range subjects {
			if remaining == 0 {
				break
			}
			if take(s) {
				picked = true
			}
		}
		if !picked {
			break
		}
	}

	if remaining > 0 {
		var leftovers []model.Question
		for _, q := range eligible {
			if !used[q.ID] {
				leftovers = append(leftovers, q)
			}
		}
		rand.Shuffle(len(leftovers), func(i, j int) {
			leftovers[i], leftovers[j] = leftovers[j], leftovers[i]
		})
		for _, q := range leftovers {
			if remaining == 0 {
				break
			}
			used[q.ID] = true
			selected = append(selected, q)
			remaining--
		}
	}

	return selected, capped, nil
}
