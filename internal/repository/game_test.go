package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, id string) *entity.Game {
	t.Helper()

	game, err := entity.NewGame(id, tictactoe.X)
	require.NoError(t, err)

	return game
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage, time.Minute)

	t.Run("Stores the game with a ttl", func(t *testing.T) {
		// Given: a new game
		game := newGame(t, "123")

		// When: CreateOrUpdate is called
		err := gameRepo.CreateOrUpdate(ctx, game)

		// Then: the key exists and expires
		require.NoError(t, err)

		ttl, err := st.Storage.TTL(ctx, "game:123").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("Overwrites an existing game", func(t *testing.T) {
		game := newGame(t, "456")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		require.NoError(t, game.MakeTurn(tictactoe.X, tictactoe.Move{Row: 1, Col: 1}))
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		stored, err := gameRepo.GetByID(ctx, "456")
		require.NoError(t, err)
		assert.Equal(t, tictactoe.MustParseBoard("... .X. ..."), stored.Board)
		assert.Equal(t, tictactoe.O, stored.Turn)
	})
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game
		game := newGame(t, "123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		assert.Equal(t, game, retrievedGame)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		game := newGame(t, "123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: DeleteByID is called with existing ID
		err := gameRepo.DeleteByID(ctx, game.ID)

		// Then: the game is gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, game.ID)
		assert.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		err := gameRepo.DeleteByID(ctx, "9999999")

		require.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestGameRepository_UpdateByID(t *testing.T) {
	t.Run("Applies the update", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Minute)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, newGame(t, "123")))

		// When: X takes the center
		updated, err := gameRepo.UpdateByID(ctx, "123", func(game *entity.Game) error {
			return game.MakeTurn(tictactoe.X, tictactoe.Move{Row: 1, Col: 1})
		})

		// Then: the stored game matches the returned one
		require.NoError(t, err)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
		assert.Equal(t, tictactoe.MustParseBoard("... .X. ..."), stored.Board)
	})

	t.Run("Retries on a concurrent write", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Minute)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, newGame(t, "123")))

		attempts := 0
		updated, err := gameRepo.UpdateByID(ctx, "123", func(game *entity.Game) error {
			attempts++
			if attempts == 1 {
				// Given: another writer plays the corner while this update is in flight
				other := newGame(t, "123")
				require.NoError(t, other.MakeTurn(tictactoe.X, tictactoe.Move{Row: 0, Col: 0}))
				require.NoError(t, gameRepo.CreateOrUpdate(ctx, other))
			}

			return game.MakeTurn(game.Turn, tictactoe.Move{Row: 1, Col: 1})
		})

		// Then: the second attempt sees the corner and keeps it
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, tictactoe.MustParseBoard("X.. .O. ..."), updated.Board)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, updated.Board, stored.Board)
	})

	t.Run("Gives up after repeated conflicts", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Minute)
		game := newGame(t, "123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		_, err := gameRepo.UpdateByID(ctx, "123", func(*entity.Game) error {
			return gameRepo.CreateOrUpdate(ctx, game)
		})

		require.ErrorIs(t, err, ErrGameConflict)
	})

	t.Run("Update error leaves the game alone", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Minute)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, newGame(t, "123")))

		_, err := gameRepo.UpdateByID(ctx, "123", func(game *entity.Game) error {
			return game.MakeTurn(tictactoe.X, tictactoe.Move{Row: 5, Col: 5})
		})
		require.ErrorIs(t, err, tictactoe.ErrOutOfRange)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, tictactoe.InitialState(), stored.Board)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		_, err := gameRepo.UpdateByID(ctx, "9999999", func(*entity.Game) error { return nil })

		require.ErrorIs(t, err, ErrGameNotFound)
	})
}
