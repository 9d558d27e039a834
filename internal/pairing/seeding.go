package pairing

import (
	"bytes"
	"math"
	"sort"

	"github.com/google/uuid"
)

type Seed struct {
	PlayerID uuid.UUID
	Rating   int
}

// Slot is a single pairing. A bye leaves Player2ID nil.
type Slot struct {
	Player1ID uuid.UUID
	Player2ID *uuid.UUID
}

func (s Slot) IsBye() bool {
	return s.Player2ID == nil
}

// SeedInitialRound builds round 1 of an elimination bracket: sort by
// rating descending and pair the top seed against the bottom seed, the
// second seed against the second-to-bottom, and so on. An odd roster
// leaves the middle (lowest unpaired) seed a bye. Rating ties break by
// player id ascending so the output is reproducible.
func SeedInitialRound(seeds []Seed) []Slot {
	sorted := make([]Seed, len(seeds))
	copy(sorted, seeds)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return lessID(sorted[i].PlayerID, sorted[j].PlayerID)
	})

	n := len(sorted)
	slots := make([]Slot, 0, (n+1)/2)
	for i := 0; i < n-1-i; i++ {
		opp := sorted[n-1-i].PlayerID
		slots = append(slots, Slot{Player1ID: sorted[i].PlayerID, Player2ID: &opp})
	}
	if n%2 == 1 {
		slots = append(slots, Slot{Player1ID: sorted[n/2].PlayerID})
	}
	return slots
}

// PairWinners pairs advancers sequentially 1-2, 3-4, ... preserving the
// relative order of their source matches. An odd count leaves the last
// advancer a bye.
func PairWinners(winners []uuid.UUID) []Slot {
	slots := make([]Slot, 0, (len(winners)+1)/2)
	for i := 0; i+1 < len(winners); i += 2 {
		opp := winners[i+1]
		slots = append(slots, Slot{Player1ID: winners[i], Player2ID: &opp})
	}
	if len(winners)%2 == 1 {
		slots = append(slots, Slot{Player1ID: winners[len(winners)-1]})
	}
	return slots
}

// EliminationRounds returns the number of rounds needed to reduce n
// players to a single winner.
func EliminationRounds(n int) int {
	if n < 2 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// MaxSwissRounds is the safe upper bound on Swiss round counts for n
// players, below which a legal rematch-free pairing always exists.
func MaxSwissRounds(n int) int {
	if n < 2 {
		return 0
	}
	return int(math.Floor(math.Log2(float64(n)))) + 2
}

func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
