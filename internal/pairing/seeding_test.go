package pairing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedsFromRatings(ratings []int) ([]Seed, map[uuid.UUID]int) {
	seeds := make([]Seed, 0, len(ratings))
	byID := make(map[uuid.UUID]int, len(ratings))
	for _, r := range ratings {
		id := uuid.New()
		seeds = append(seeds, Seed{PlayerID: id, Rating: r})
		byID[id] = r
	}
	return seeds, byID
}

func TestSeedInitialRoundFoldsTopAgainstBottom(t *testing.T) {
	seeds, byID := seedsFromRatings([]int{1400, 1300, 1200, 1100})

	slots := SeedInitialRound(seeds)
	require.Len(t, slots, 2)

	assert.Equal(t, 1400, byID[slots[0].Player1ID])
	require.NotNil(t, slots[0].Player2ID)
	assert.Equal(t, 1100, byID[*slots[0].Player2ID])

	assert.Equal(t, 1300, byID[slots[1].Player1ID])
	require.NotNil(t, slots[1].Player2ID)
	assert.Equal(t, 1200, byID[*slots[1].Player2ID])
}

func TestSeedInitialRoundOddRosterMiddleSeedByes(t *testing.T) {
	seeds, byID := seedsFromRatings([]int{1400, 1300, 1200, 1100, 1000})

	slots := SeedInitialRound(seeds)
	require.Len(t, slots, 3)

	assert.Equal(t, 1400, byID[slots[0].Player1ID])
	assert.Equal(t, 1000, byID[*slots[0].Player2ID])
	assert.Equal(t, 1300, byID[slots[1].Player1ID])
	assert.Equal(t, 1100, byID[*slots[1].Player2ID])

	// The lowest unpaired seed sits out round one
	assert.True(t, slots[2].IsBye())
	assert.Equal(t, 1200, byID[slots[2].Player1ID])
}

func TestSeedInitialRoundTwoPlayers(t *testing.T) {
	seeds, byID := seedsFromRatings([]int{900, 1500})

	slots := SeedInitialRound(seeds)
	require.Len(t, slots, 1)
	assert.Equal(t, 1500, byID[slots[0].Player1ID])
	assert.Equal(t, 900, byID[*slots[0].Player2ID])
}

func TestSeedInitialRoundDeterministicOnTies(t *testing.T) {
	seeds, _ := seedsFromRatings([]int{1200, 1200, 1200, 1200, 1200})

	first := SeedInitialRound(seeds)
	second := SeedInitialRound(seeds)
	assert.Equal(t, first, second)
}

func TestSeedInitialRoundEachPlayerAppearsOnce(t *testing.T) {
	seeds, _ := seedsFromRatings([]int{1500, 1450, 1400, 1350, 1300, 1250, 1200})

	slots := SeedInitialRound(seeds)
	require.Len(t, slots, 4) // ceil(7/2)

	seen := make(map[uuid.UUID]bool)
	for _, s := range slots {
		assert.False(t, seen[s.Player1ID])
		seen[s.Player1ID] = true
		if s.Player2ID != nil {
			assert.False(t, seen[*s.Player2ID])
			seen[*s.Player2ID] = true
		}
	}
	assert.Len(t, seen, len(seeds))
}

func TestPairWinners(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	slots := PairWinners([]uuid.UUID{a, b, c, d})
	require.Len(t, slots, 2)
	assert.Equal(t, a, slots[0].Player1ID)
	assert.Equal(t, b, *slots[0].Player2ID)
	assert.Equal(t, c, slots[1].Player1ID)
	assert.Equal(t, d, *slots[1].Player2ID)
}

func TestPairWinnersOddCountLastByes(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	slots := PairWinners([]uuid.UUID{a, b, c})
	require.Len(t, slots, 2)
	assert.Equal(t, a, slots[0].Player1ID)
	assert.Equal(t, b, *slots[0].Player2ID)
	assert.True(t, slots[1].IsBye())
	assert.Equal(t, c, slots[1].Player1ID)
}

func TestEliminationRounds(t *testing.T) {
	testCases := []struct {
		players int
		rounds  int
	}{
		{players: 2, rounds: 1},
		{players: 3, rounds: 2},
		{players: 4, rounds: 2},
		{players: 5, rounds: 3},
		{players: 8, rounds: 3},
		{players: 9, rounds: 4},
		{players: 16, rounds: 4},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.rounds, EliminationRounds(tc.players), "players=%d", tc.players)
	}
}

func TestMaxSwissRounds(t *testing.T) {
	testCases := []struct {
		players int
		rounds  int
	}{
		{players: 4, rounds: 4},
		{players: 7, rounds: 4},
		{players: 8, rounds: 5},
		{players: 16, rounds: 6},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.rounds, MaxSwissRounds(tc.players), "players=%d", tc.players)
	}
}
