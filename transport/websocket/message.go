package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	actionNewGame   = "game:new"
	actionGameState = "game:state"
	actionGameTurn  = "game:turn"
	actionGameHint  = "game:hint"
	actionGameLeave = "game:leave"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload carries the fields any action may need.
type RequestPayload struct {
	GameID string           `json:"game_id,omitempty"`
	Mark   tictactoe.Cell   `json:"mark,omitempty"`
	Move   *tictactoe.Move  `json:"move,omitempty"`
	Board  *tictactoe.Board `json:"board,omitempty"`
}

type ResponsePayload struct {
	Game  *entity.Game  `json:"game,omitempty"`
	Hint  *usecase.Hint `json:"hint,omitempty"`
	Error string        `json:"error,omitempty"`
}
