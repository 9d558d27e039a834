package pairing

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

var ErrPairingExhausted = errors.New("no legal pairing remains")

type Standing struct {
	PlayerID uuid.UUID
	Score    int
	Rating   int
}

// RematchKey builds an order-independent key for a pair of players, used
// to record and check prior match-ups.
func RematchKey(a, b uuid.UUID) string {
	if lessID(b, a) {
		a, b = b, a
	}
	return a.String() + ":" + b.String()
}

// SortStandings orders a field by score descending, rating descending,
// player id ascending. The same order drives pairing and final ranking.
func SortStandings(standings []Standing) {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		if standings[i].Rating != standings[j].Rating {
			return standings[i].Rating > standings[j].Rating
		}
		return lessID(standings[i].PlayerID, standings[j].PlayerID)
	})
}

// PairSwissRound pairs the next Swiss round. Players are ordered by score
// descending, rating descending, id ascending; each player is paired with
// the nearest following player they have not already faced, relaxing to
// farther candidates (and ultimately to lower score groups, which the
// single sorted order expresses naturally) when closer ones are taken or
// already played. If no rematch-free perfect matching exists the search
// is retried allowing rematches, so a round is produced whenever a
// matching is structurally possible.
//
// An odd field gives the bye to the lowest-standing player without a
// prior bye, or the lowest-standing player outright if everyone has had
// one. The bye slot is appended after the regular pairings.
func PairSwissRound(standings []Standing, played map[string]bool, hadBye map[uuid.UUID]bool) ([]Slot, error) {
	order := make([]Standing, len(standings))
	copy(order, standings)
	SortStandings(order)

	var bye *Standing
	if len(order)%2 == 1 {
		idx := len(order) - 1
		for i := len(order) - 1; i >= 0; i-- {
			if !hadBye[order[i].PlayerID] {
				idx = i
				break
			}
		}
		b := order[idx]
		bye = &b
		order = append(order[:idx], order[idx+1:]...)
	}

	slots := matchField(order, played, false)
	if slots == nil {
		slots = matchField(order, played, true)
	}
	if slots == nil {
		return nil, ErrPairingExhausted
	}

	if bye != nil {
		slots = append(slots, Slot{Player1ID: bye.PlayerID})
	}
	return slots, nil
}

// matchField searches for a perfect matching of the (even-sized) field by
// backtracking: the highest unpaired player tries opponents in standing
// order, skipping prior match-ups unless allowRematch is set. Returns nil
// when no matching exists.
func matchField(order []Standing, played map[string]bool, allowRematch bool) []Slot {
	used := make([]bool, len(order))
	slots := make([]Slot, 0, len(order)/2)

	var match func() bool
	match = func() bool {
		first := -1
		for i, u := range used {
			if !u {
				first = i
				break
			}
		}
		if first == -1 {
			return true
		}
		used[first] = true
		for j := first + 1; j < len(order); j++ {
			if used[j] {
				continue
			}
			if !allowRematch && played[RematchKey(order[first].PlayerID, order[j].PlayerID)] {
				continue
			}
			used[j] = true
			opp := order[j].PlayerID
			slots = append(slots, Slot{Player1ID: order[first].PlayerID, Player2ID: &opp})
			if match() {
				return true
			}
			slots = slots[:len(slots)-1]
			used[j] = false
		}
		used[first] = false
		return false
	}

	if !match() {
		return nil
	}
	return slots
}
