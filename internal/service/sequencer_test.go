package service

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRefs(difficulties ...model.Difficulty) []model.QuestionRef {
	refs := make([]model.QuestionRef, 0, len(difficulties))
	for _, d := range difficulties {
		refs = append(refs, model.QuestionRef{ID: uuid.New(), Difficulty: d})
	}
	return refs
}

func difficultyOf(refs []model.QuestionRef, id uuid.UUID) model.Difficulty {
	for _, ref := range refs {
		if ref.ID == id {
			return ref.Difficulty
		}
	}
	return ""
}

func TestSequencerGroupOrder(t *testing.T) {
	refs := makeRefs(
		model.DifficultyHard, model.DifficultyEasy, model.DifficultyMedium,
		model.DifficultyMedium, model.DifficultyHard, model.DifficultyEasy,
		model.DifficultyMedium,
	)

	seq := NewSequencer(rand.New(rand.NewSource(1)))
	order := seq.Order(refs)
	require.Len(t, order, len(refs))

	// Mediums first, then easies, then hards.
	want := []model.Difficulty{
		model.DifficultyMedium, model.DifficultyMedium, model.DifficultyMedium,
		model.DifficultyEasy, model.DifficultyEasy,
		model.DifficultyHard, model.DifficultyHard,
	}
	for i, id := range order {
		assert.Equal(t, want[i], difficultyOf(refs, id), "position %d", i)
	}
}

func TestSequencerIsPermutation(t *testing.T) {
	refs := makeRefs(
		model.DifficultyEasy, model.DifficultyEasy, model.DifficultyMedium,
		model.DifficultyHard, model.DifficultyMedium, model.DifficultyHard,
	)

	seq := NewSequencer(rand.New(rand.NewSource(42)))
	for i := 0; i < 50; i++ {
		order := seq.Order(refs)
		require.Len(t, order, len(refs))

		seen := make(map[uuid.UUID]bool, len(order))
		for _, id := range order {
			assert.False(t, seen[id], "duplicate question in order")
			seen[id] = true
			assert.NotEmpty(t, difficultyOf(refs, id), "unknown question in order")
		}
	}
}

func TestSequencerShufflesWithinGroups(t *testing.T) {
	refs := makeRefs(
		model.DifficultyMedium, model.DifficultyMedium, model.DifficultyMedium,
		model.DifficultyMedium, model.DifficultyMedium, model.DifficultyMedium,
	)

	seq := NewSequencer(rand.New(rand.NewSource(7)))
	first := seq.Order(refs)

	// With 6! possible permutations, 20 draws virtually never all match.
	differs := false
	for i := 0; i < 20 && !differs; i++ {
		next := seq.Order(refs)
		for j := range next {
			if next[j] != first[j] {
				differs = true
				break
			}
		}
	}
	assert.True(t, differs, "expected shuffled orders to differ")
}

func TestSequencerUnknownDifficultyKept(t *testing.T) {
	refs := []model.QuestionRef{
		{ID: uuid.New(), Difficulty: "Extreme"},
		{ID: uuid.New(), Difficulty: model.DifficultyMedium},
	}

	seq := NewSequencer(rand.New(rand.NewSource(3)))
	order := seq.Order(refs)
	require.Len(t, order, 2)
	// Known difficulties sort first.
	assert.Equal(t, refs[1].ID, order[0])
	assert.Equal(t, refs[0].ID, order[1])
}

func TestSequencerEmpty(t *testing.T) {
	seq := NewSequencer(rand.New(rand.NewSource(9)))
	assert.Empty(t, seq.Order(nil))
}
