package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var (
	errGameIDRequired = errors.New("game_id is required")
	errMoveRequired   = errors.New("move is required")
	errBoardRequired  = errors.New("board is required")
)

func (that *Server) handleNewGame(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	game, err := that.uGame.NewGame(ctx, req.Mark)
	if err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to create game: %w", err)
	}

	return ResponsePayload{Game: game}, nil
}

func (that *Server) handleGameState(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	if req.GameID == "" {
		return ResponsePayload{}, errGameIDRequired
	}

	game, err := that.uGame.GetGame(ctx, req.GameID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Game: game}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	if req.GameID == "" {
		return ResponsePayload{}, errGameIDRequired
	}

	if req.Move == nil {
		return ResponsePayload{}, errMoveRequired
	}

	game, err := that.uGame.MakeTurn(ctx, req.GameID, *req.Move)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Game: game}, nil
}

func (that *Server) handleGameHint(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	var board tictactoe.Board

	switch {
	case req.Board != nil:
		board = *req.Board
	case req.GameID != "":
		game, err := that.uGame.GetGame(ctx, req.GameID)
		if err != nil {
			return ResponsePayload{}, err
		}
		board = game.Board
	default:
		return ResponsePayload{}, errBoardRequired
	}

	hint, err := that.uGame.BestMove(board)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Hint: hint}, nil
}

func (that *Server) handleGameLeave(ctx context.Context, req *RequestPayload) (ResponsePayload, error) {
	if req.GameID == "" {
		return ResponsePayload{}, errGameIDRequired
	}

	if err := that.uGame.DeleteGame(ctx, req.GameID); err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{}, nil
}
