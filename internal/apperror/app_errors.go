package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrInvalidMark      = errors.New("mark must be X or O")
	ErrNoAvailableMoves = errors.New("no available moves")
)
