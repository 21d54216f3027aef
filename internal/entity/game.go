package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is a session between a human and the engine.
type Game struct {
	ID         string          `json:"id"`
	Board      tictactoe.Board `json:"board"`
	Winner     string          `json:"winner"`
	Status     string          `json:"status"`
	Turn       tictactoe.Cell  `json:"player_turn"`
	PlayerMark tictactoe.Cell  `json:"player_mark"`
	BotMark    tictactoe.Cell  `json:"bot_mark"`
}

func NewGame(id string, playerMark tictactoe.Cell) (*Game, error) {
	if playerMark != tictactoe.X && playerMark != tictactoe.O {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, playerMark)
	}

	game := &Game{
		ID:         id,
		Board:      tictactoe.InitialState(),
		PlayerMark: playerMark,
		BotMark:    tictactoe.Opponent(playerMark),
	}
	game.UpdateGameState()

	return game, nil
}

// UpdateGameState recomputes winner, status and turn from the board.
func (that *Game) UpdateGameState() {
	switch outcome := tictactoe.Result(that.Board); outcome {
	// one player wins
	case tictactoe.XWins, tictactoe.OWins:
		winner, _ := tictactoe.Winner(that.Board)
		that.Winner = winner.String()
		that.Status = StatusFinished
		that.Turn = tictactoe.Empty
	// tie
	case tictactoe.Draw:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = tictactoe.Empty
	// game continue
	default:
		that.Winner = ""
		that.Status = StatusOngoing
		that.Turn = tictactoe.CurrentPlayer(that.Board)
	}
}

func (that *Game) MakeTurn(mark tictactoe.Cell, move tictactoe.Move) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	board, err := tictactoe.ApplyMove(that.Board, move)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.Board = board
	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn == that.BotMark
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
