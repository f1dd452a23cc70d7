package exam

import (
	"errors"
	"testing"
)

func TestStudyPoolExhaustsBeforeRepeating(t *testing.T) {
	candidates := makeBank(t, 6, "Álgebra")
	pool := NewStudyPool()

	seen := make(map[int64]bool)
	for i := 0; i < len(candidates); i++ {
		q, err := pool.Draw(candidates)
		if err != nil {
			t.Fatalf("Draw %d: %v", i, err)
		}
		if seen[q.ID] {
			t.Errorf("question %d repeated before the pool was exhausted", q.ID)
		}
		seen[q.ID] = true
	}
	if len(seen) != len(candidates) {
		t.Errorf("saw %d distinct questions, want %d", len(seen), len(candidates))
	}

	// The pool refills transparently after exhaustion.
	if _, err := pool.Draw(candidates); err != nil {
		t.Fatalf("Draw after exhaustion: %v", err)
	}
}

func TestStudyPoolAvoidsImmediateRepeat(t *testing.T) {
	candidates := makeBank(t, 4, "Álgebra")
	pool := NewStudyPool()

	var lastID int64
	for i := 0; i < 40; i++ {
		q, err := pool.Draw(candidates)
		if err != nil {
			t.Fatalf("Draw %d: %v", i, err)
		}
		if q.ID == lastID {
			t.Fatalf("draw %d returned question %d twice in a row", i, q.ID)
		}
		lastID = q.ID
	}
}

func TestStudyPoolSingleCandidate(t *testing.T) {
	candidates := makeBank(t, 1, "Álgebra")
	pool := NewStudyPool()

	// With no alternatives, immediate repetition is allowed.
	for i := 0; i < 3; i++ {
		q, err := pool.Draw(candidates)
		if err != nil {
			t.Fatalf("Draw %d: %v", i, err)
		}
		if q.ID != candidates[0].ID {
			t.Errorf("got question %d, want %d", q.ID, candidates[0].ID)
		}
	}
}

func TestStudyPoolEmptyCandidates(t *testing.T) {
	pool := NewStudyPool()
	if _, err := pool.Draw(nil); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("err = %v, want ErrEmptyPool", err)
	}
}

func TestStudyPoolReset(t *testing.T) {
	first := makeBank(t, 3, "Álgebra")
	second := makeBank(t, 3, "Geometría")
	pool := NewStudyPool()

	if _, err := pool.Draw(first); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	pool.Reset()

	inSecond := make(map[int64]bool)
	for _, q := range second {
		inSecond[q.ID] = true
	}
	q, err := pool.Draw(second)
	if err != nil {
		t.Fatalf("Draw after reset: %v", err)
	}
	if !inSecond[q.ID] {
		t.Errorf("draw after reset returned question %d from the old candidate set", q.ID)
	}
}
