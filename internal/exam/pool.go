package exam

import (
	"math/rand/v2"

	"github.com/castellanr/quizbank/internal/model"
)

// StudyPool hands out questions one at a time for free-study mode. It keeps
// a standing shuffled queue of not-yet-shown candidates so every question
// is seen once before any repeats, and avoids showing the same question
// twice in a row when alternatives exist.
//
// The pool does not track filters itself; call Reset when the candidate set
// changes.
type StudyPool struct {
	queue  []model.Question
	lastID int64
}

// NewStudyPool returns an empty pool; the first Draw fills it.
func NewStudyPool() *StudyPool {
	return &StudyPool{}
}

// Reset discards the queue so the next Draw reshuffles from scratch.
func (p *StudyPool) Reset() {
	p.queue = nil
}

// Draw pops the next question. When the queue is exhausted it is refilled
// from candidates and reshuffled.
func (p *StudyPool) Draw(candidates []model.Question) (model.Question, error) {
	if len(candidates) == 0 {
		return model.Question{}, ErrEmptyPool
	}

	if len(p.queue) == 0 {
		p.queue = make([]model.Question, len(candidates))
		copy(p.queue, candidates)
		rand.Shuffle(len(p.queue), func(i, j int) {
			p.queue[i], p.queue[j] = p.queue[j], p.queue[i]
		})
	}

	next := p.queue[len(p.queue)-1]
	p.queue = p.queue[:len(p.queue)-1]

	// A fresh refill may surface the question just shown; push it to the
	// back of the queue and draw again.
	if next.ID == p.lastID && len(p.queue) > 0 {
		p.queue = append([]model.Question{next}, p.queue...)
		next = p.queue[len(p.queue)-1]
		p.queue = p.queue[:len(p.queue)-1]
	}

	p.lastID = next.ID
	return next, nil
}
