package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPlayer(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svcs := newTestServices(db)
	ctx := context.Background()

	player, err := svcs.players.RegisterPlayer(ctx, "Magnus", 1500)
	require.NoError(t, err)
	assert.Equal(t, 1500, player.Rating)
	assert.Equal(t, 1500, player.InitialRating)

	fetched, err := svcs.players.GetPlayer(ctx, player.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Magnus", fetched.Name)
	assert.Equal(t, 0, fetched.MatchesPlayed)
}

func TestRegisterPlayerValidation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svcs := newTestServices(db)
	ctx := context.Background()

	_, err := svcs.players.RegisterPlayer(ctx, "", 1200)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svcs.players.RegisterPlayer(ctx, "Judit", -1)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestGetPlayerNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svcs := newTestServices(db)

	_, err := svcs.players.GetPlayer(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = svcs.players.GetRatingHistory(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
