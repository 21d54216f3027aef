package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type memGameRepo struct {
	mu    sync.Mutex
	games map[string]entity.Game
}

func (that *memGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.games[game.ID] = *game

	return nil
}

func (that *memGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}

	return &game, nil
}

func (that *memGameRepo) UpdateByID(
	_ context.Context,
	id string,
	update func(game *entity.Game) error,
) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}

	if err := update(&game); err != nil {
		return nil, err
	}
	that.games[id] = game

	return &game, nil
}

func (that *memGameRepo) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return repository.ErrGameNotFound
	}
	delete(that.games, id)

	return nil
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return dialContext(t, ctx)
}

// dialContext connects to a server whose lifetime is bound to ctx.
func dialContext(t *testing.T, ctx context.Context) *websocket.Conn {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &memGameRepo{games: map[string]entity.Game{}}
	manager := usecase.NewGameManager(logger, repo, service.NewBotService(logger))

	srv := httptest.NewServer(New(logger, manager).Handler(ctx))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, action string, payload any) (string, ResponsePayload) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: body}))

	return read(t, conn)
}

func read(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	var resp ResponsePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &resp))

	return msg.Action, resp
}

func TestServer_GameFlow(t *testing.T) {
	conn := dial(t)

	// When: a new game is requested with the player holding X
	action, resp := exchange(t, conn, actionNewGame, RequestPayload{Mark: tictactoe.X})

	// Then: an empty game comes back
	require.Equal(t, actionNewGame, action)
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Game)
	gameID := resp.Game.ID
	assert.Equal(t, tictactoe.InitialState(), resp.Game.Board)

	// When: the player takes a corner
	_, resp = exchange(t, conn, actionGameTurn, RequestPayload{
		GameID: gameID,
		Move:   &tictactoe.Move{Row: 0, Col: 0},
	})

	// Then: the bot answered in the center
	require.Empty(t, resp.Error)
	assert.Equal(t, tictactoe.MustParseBoard("X.. .O. ..."), resp.Game.Board)

	// When: asking for a hint on the stored game
	_, resp = exchange(t, conn, actionGameHint, RequestPayload{GameID: gameID})

	// Then: the engine suggests a move for X
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Hint)
	require.NotNil(t, resp.Hint.Move)
	assert.Equal(t, tictactoe.X, resp.Hint.Turn)

	// When: reading the state
	_, resp = exchange(t, conn, actionGameState, RequestPayload{GameID: gameID})
	require.Empty(t, resp.Error)
	assert.Equal(t, tictactoe.X, resp.Game.Turn)

	// When: leaving the game
	action, resp = exchange(t, conn, actionGameLeave, RequestPayload{GameID: gameID})
	assert.Equal(t, actionGameLeave, action)
	assert.Empty(t, resp.Error)

	// Then: the game no longer exists
	_, resp = exchange(t, conn, actionGameState, RequestPayload{GameID: gameID})
	assert.Contains(t, resp.Error, repository.ErrGameNotFound.Error())
}

func TestServer_Hint(t *testing.T) {
	conn := dial(t)

	board := tictactoe.MustParseBoard("... .O. XX.")
	_, resp := exchange(t, conn, actionGameHint, RequestPayload{Board: &board})

	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Hint.Move)
	assert.Equal(t, tictactoe.Move{Row: 2, Col: 2}, *resp.Hint.Move)
	assert.Equal(t, tictactoe.O, resp.Hint.Turn)
}

func TestServer_HintRejectsBadBoards(t *testing.T) {
	conn := dial(t)

	t.Run("Not 3x3", func(t *testing.T) {
		for _, board := range []string{
			`[["X"]]`,
			`[]`,
			`[["X","",""],["","O",""],["","",""],["O","O","O"]]`,
			`[["X","","",""],["","O",""],["","",""]]`,
		} {
			body := []byte(`{"board":` + board + `}`)
			require.NoError(t, conn.WriteJSON(Message{Action: actionGameHint, Payload: body}))

			// Then: the board is refused and no hint comes back
			_, resp := read(t, conn)
			assert.Contains(t, resp.Error, tictactoe.ErrInvalidBoard.Error(), board)
			assert.Nil(t, resp.Hint, board)
		}
	})

	t.Run("Null board", func(t *testing.T) {
		require.NoError(t, conn.WriteJSON(Message{Action: actionGameHint, Payload: []byte(`{"board":null}`)}))

		_, resp := read(t, conn)
		assert.Equal(t, errBoardRequired.Error(), resp.Error)
		assert.Nil(t, resp.Hint)
	})
}

func TestServer_ClosesConnectionsOnShutdown(t *testing.T) {
	// Given: a connected client
	ctx, cancel := context.WithCancel(context.Background())
	conn := dialContext(t, ctx)

	_, resp := exchange(t, conn, actionNewGame, RequestPayload{Mark: tictactoe.X})
	require.Empty(t, resp.Error)

	// When: the server is shutting down
	cancel()

	// Then: the client receives a going-away close frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}

func TestServer_Errors(t *testing.T) {
	conn := dial(t)

	t.Run("Unknown action", func(t *testing.T) {
		action, resp := exchange(t, conn, "game:dance", RequestPayload{})

		assert.Equal(t, "game:dance", action)
		assert.Equal(t, "unknown action", resp.Error)
	})

	t.Run("Missing game id", func(t *testing.T) {
		_, resp := exchange(t, conn, actionGameTurn, RequestPayload{Move: &tictactoe.Move{}})

		assert.Equal(t, errGameIDRequired.Error(), resp.Error)
	})

	t.Run("Occupied cell", func(t *testing.T) {
		_, resp := exchange(t, conn, actionNewGame, RequestPayload{Mark: tictactoe.O})
		require.NotNil(t, resp.Game)

		// the bot opened in the top-left corner
		_, resp = exchange(t, conn, actionGameTurn, RequestPayload{
			GameID: resp.Game.ID,
			Move:   &tictactoe.Move{Row: 0, Col: 0},
		})

		assert.Contains(t, resp.Error, tictactoe.ErrInvalidMove.Error())
	})

	t.Run("Malformed message keeps the connection open", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":`)))

		action, resp := read(t, conn)
		assert.Equal(t, actionError, action)
		assert.Equal(t, "malformed message", resp.Error)

		_, resp = exchange(t, conn, actionGameHint, RequestPayload{})
		assert.Equal(t, errBoardRequired.Error(), resp.Error)
	})
}
