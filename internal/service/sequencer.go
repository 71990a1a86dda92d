package service

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

// Sequencer produces the question order for a new attempt: Medium
// questions first, then Easy, then Hard, shuffled within each group so
// two attempts at the same quiz see different orders.
type Sequencer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSequencer creates a Sequencer from the given source. Tests pass a
// seeded source for deterministic orders.
func NewSequencer(rnd *rand.Rand) *Sequencer {
	return &Sequencer{rnd: rnd}
}

// Order builds the serving order for the given question refs. Unknown
// difficulty values sort after Hard so a bad row never loses a question.
func (s *Sequencer) Order(refs []model.QuestionRef) []uuid.UUID {
	var medium, easy, hard, other []uuid.UUID
	for _, ref := range refs {
		switch ref.Difficulty {
		case model.DifficultyMedium:
			medium = append(medium, ref.ID)
		case model.DifficultyEasy:
			easy = append(easy, ref.ID)
		case model.DifficultyHard:
			hard = append(hard, ref.ID)
		default:
			other = append(other, ref.ID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := make([]uuid.UUID, 0, len(refs))
	for _, group := range [][]uuid.UUID{medium, easy, hard, other} {
		s.rnd.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		order = append(order, group...)
	}
	return order
}
