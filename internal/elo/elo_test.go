package elo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/q1anyun/chess-tms/internal/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScore(t *testing.T) {
	engine := NewEngine(DefaultKFactor, DefaultRatingFloor)

	testCases := []struct {
		name     string
		ra, rb   int
		expected float64
	}{
		{name: "equal ratings", ra: 1200, rb: 1200, expected: 0.5},
		{name: "400 points ahead", ra: 1600, rb: 1200, expected: 10.0 / 11.0},
		{name: "400 points behind", ra: 1200, rb: 1600, expected: 1.0 / 11.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, engine.ExpectedScore(tc.ra, tc.rb), 1e-9)
			// Expectations of both sides always sum to 1
			sum := engine.ExpectedScore(tc.ra, tc.rb) + engine.ExpectedScore(tc.rb, tc.ra)
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestApplyResultDeterministic(t *testing.T) {
	engine := NewEngine(DefaultKFactor, DefaultRatingFloor)
	winnerID, loserID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	first := engine.ApplyResult(winnerID, loserID, 1400, 1000, now)
	second := engine.ApplyResult(winnerID, loserID, 1400, 1000, now)

	assert.Equal(t, first.WinnerDelta, second.WinnerDelta)
	assert.Equal(t, first.LoserDelta, second.LoserDelta)
	assert.Equal(t, first.WinnerNewRating, second.WinnerNewRating)
	assert.Equal(t, first.LoserNewRating, second.LoserNewRating)
}

func TestApplyResultConservation(t *testing.T) {
	engine := NewEngine(DefaultKFactor, DefaultRatingFloor)

	testCases := []struct {
		name   string
		rw, rl int
	}{
		{name: "equal", rw: 1200, rl: 1200},
		{name: "favorite wins", rw: 1400, rl: 1000},
		{name: "small gap", rw: 1210, rl: 1190},
		{name: "large gap", rw: 2400, rl: 800},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := engine.ApplyResult(uuid.New(), uuid.New(), tc.rw, tc.rl, time.Now())
			// Total rating points are conserved when the floor is not hit
			assert.Equal(t, 0, res.WinnerDelta+res.LoserDelta)
			assert.GreaterOrEqual(t, res.WinnerDelta, 0)
			assert.LessOrEqual(t, res.LoserDelta, 0)
		})
	}
}

func TestApplyResultUpset(t *testing.T) {
	engine := NewEngine(DefaultKFactor, DefaultRatingFloor)

	// A 1000-rated player beating a 1400-rated one gains well over K/2.
	res := engine.ApplyResult(uuid.New(), uuid.New(), 1000, 1400, time.Now())
	assert.Greater(t, res.WinnerDelta, DefaultKFactor/2)
	assert.Equal(t, 1000+res.WinnerDelta, res.WinnerNewRating)
}

func TestApplyResultEqualRatings(t *testing.T) {
	engine := NewEngine(DefaultKFactor, DefaultRatingFloor)

	res := engine.ApplyResult(uuid.New(), uuid.New(), 1200, 1200, time.Now())
	assert.Equal(t, DefaultKFactor/2, res.WinnerDelta)
	assert.Equal(t, -DefaultKFactor/2, res.LoserDelta)
}

func TestRatingFloor(t *testing.T) {
	engine := NewEngine(DefaultKFactor, DefaultRatingFloor)

	res := engine.ApplyResult(uuid.New(), uuid.New(), 1200, 5, time.Now())
	assert.Equal(t, 0, res.LoserNewRating, "rating must never go below the floor")
}

func TestApplyResultHistory(t *testing.T) {
	engine := NewEngine(DefaultKFactor, DefaultRatingFloor)
	winnerID, loserID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	res := engine.ApplyResult(winnerID, loserID, 1300, 1100, now)

	win, loss := res.History[0], res.History[1]
	require.Equal(t, chess.RatingWin, win.Reason)
	require.Equal(t, chess.RatingLoss, loss.Reason)

	assert.Equal(t, winnerID, win.PlayerID)
	assert.Equal(t, loserID, loss.PlayerID)
	assert.Equal(t, 1300, win.OldRating)
	assert.Equal(t, res.WinnerNewRating, win.NewRating)
	assert.Equal(t, 1100, loss.OldRating)
	assert.Equal(t, res.LoserNewRating, loss.NewRating)
	assert.Equal(t, now, win.CreatedAt)
	assert.Equal(t, now, loss.CreatedAt)
}

func TestNewEngineDefaults(t *testing.T) {
	engine := NewEngine(0, -1)
	assert.Equal(t, DefaultKFactor, engine.KFactor())
}
