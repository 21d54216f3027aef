package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	UpdateByID(ctx context.Context, id string, update func(game *entity.Game) error) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) error
}

// Hint is the engine's answer for an arbitrary board. Move is nil on a finished board.
type Hint struct {
	Move    *tictactoe.Move   `json:"move"`
	Turn    tictactoe.Cell    `json:"player_turn"`
	Outcome tictactoe.Outcome `json:"outcome"`
}

type GameManager struct {
	logger *slog.Logger

	gameRepo gameRepo
	bot      botService
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, bot botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		bot:      bot,
	}
}

// NewGame starts a game with the player holding playerMark. When the bot holds X it opens.
func (that *GameManager) NewGame(ctx context.Context, playerMark tictactoe.Cell) (*entity.Game, error) {
	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("error generating game ID: %w", err)
	}

	game, err := entity.NewGame(gameID, playerMark)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if game.IsBotTurn() {
		if err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "playerMark", game.PlayerMark.String())

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn plays the player's move and, unless that ended the game, the bot's reply.
// Both moves are stored in one update, so concurrent turns on a game cannot overwrite each other.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, move tictactoe.Move) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	game, err := that.gameRepo.UpdateByID(ctx, gameID, func(game *entity.Game) error {
		if err := game.ConfirmOngoingState(); err != nil {
			return err
		}

		if err := game.MakeTurn(game.PlayerMark, move); err != nil {
			return fmt.Errorf("failed to make turn: %w", err)
		}

		if game.IsBotTurn() {
			if err := that.bot.MakeTurn(game); err != nil {
				return fmt.Errorf("bot failed to make turn: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
	}

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", gameID)

	return nil
}

// BestMove answers for a board supplied by the caller, without any stored session.
func (that *GameManager) BestMove(board tictactoe.Board) (*Hint, error) {
	if err := tictactoe.Validate(board); err != nil {
		return nil, fmt.Errorf("failed to validate board: %w", err)
	}

	hint := &Hint{Outcome: tictactoe.Result(board)}

	if move, ok := tictactoe.BestMove(board); ok {
		hint.Move = &move
		hint.Turn = tictactoe.CurrentPlayer(board)
	}

	return hint, nil
}
