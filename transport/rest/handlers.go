package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const maxBodyBytes = 1 << 12

type newGameRequest struct {
	Mark tictactoe.Cell `json:"mark"`
}

type bestMoveRequest struct {
	Board *tictactoe.Board `json:"board"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	var req bestMoveRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	if req.Board == nil {
		that.writeError(w, errBoardRequired)
		return
	}

	hint, err := that.uGame.BestMove(*req.Board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, hint)
}

func (that *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	game, err := that.uGame.NewGame(r.Context(), req.Mark)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var move tictactoe.Move
	if err := decodeBody(w, r, &move); err != nil {
		that.writeError(w, err)
		return
	}

	game, err := that.uGame.MakeTurn(r.Context(), r.PathValue("id"), move)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var (
	errBadRequest    = errors.New("malformed request body")
	errBoardRequired = fmt.Errorf("%w: board is required", tictactoe.ErrInvalidBoard)
)

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		// cell values are validated while decoding
		if errors.Is(err, tictactoe.ErrInvalidCell) {
			return err
		}
		return errors.Join(errBadRequest, err)
	}

	return nil
}

// statusCode maps domain errors onto HTTP statuses.
func statusCode(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, tictactoe.ErrInvalidMove),
		errors.Is(err, tictactoe.ErrOutOfRange),
		errors.Is(err, tictactoe.ErrInvalidCell),
		errors.Is(err, tictactoe.ErrInvalidBoard),
		errors.Is(err, apperror.ErrInvalidMark):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, repository.ErrGameConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, code, errorResponse{Error: http.StatusText(code)})
		return
	}

	that.logger.Debug("request rejected", "status", code, "error", err)
	that.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func (that *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
