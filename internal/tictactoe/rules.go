package tictactoe

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("cell is already occupied")

// Outcome is derived from a board, never stored.
type Outcome int

const (
	Ongoing Outcome = iota
	XWins
	OWins
	Draw
)

func (that Outcome) String() string {
	switch that {
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

func (that Outcome) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Outcome) UnmarshalText(text []byte) error {
	for _, outcome := range []Outcome{Ongoing, XWins, OWins, Draw} {
		if outcome.String() == string(text) {
			*that = outcome
			return nil
		}
	}

	return fmt.Errorf("unknown outcome %q", text)
}

// lines lists rows, then columns, then the two diagonals.
var lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// CurrentPlayer returns X when both marks are equally frequent, O otherwise.
func CurrentPlayer(board Board) Cell {
	if board.count(X) == board.count(O) {
		return X
	}

	return O
}

// Opponent returns the other mark. Empty has no opponent.
func Opponent(mark Cell) Cell {
	switch mark {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// LegalMoves returns every empty cell in row-major order.
func LegalMoves(board Board) []Move {
	moves := make([]Move, 0, Size*Size)
	for i, row := range board {
		for j, c := range row {
			if c == Empty {
				moves = append(moves, Move{Row: i, Col: j})
			}
		}
	}

	return moves
}

// ApplyMove returns a copy of board with the current player's mark at move.
func ApplyMove(board Board, move Move) (Board, error) {
	if !move.inRange() {
		return board, fmt.Errorf("%w: %s", ErrOutOfRange, move)
	}

	if board[move.Row][move.Col] != Empty {
		return board, fmt.Errorf("%w: %s", ErrInvalidMove, move)
	}

	next := board
	next[move.Row][move.Col] = CurrentPlayer(board)

	return next, nil
}

// Winner returns the mark of the first complete line, checking rows, columns, then diagonals.
func Winner(board Board) (Cell, bool) {
	for _, line := range lines {
		a := board[line[0].Row][line[0].Col]
		b := board[line[1].Row][line[1].Col]
		c := board[line[2].Row][line[2].Col]
		if a != Empty && a == b && b == c {
			return a, true
		}
	}

	return Empty, false
}

// IsTerminal reports whether someone has won or the board is full.
func IsTerminal(board Board) bool {
	if _, ok := Winner(board); ok {
		return true
	}

	return board.count(Empty) == 0
}

// Utility scores a terminal board: +1 for X, -1 for O, 0 otherwise.
func Utility(board Board) int {
	winner, _ := Winner(board)

	switch winner {
	case X:
		return 1
	case O:
		return -1
	default:
		return 0
	}
}

// Result derives the outcome of board.
func Result(board Board) Outcome {
	if winner, ok := Winner(board); ok {
		if winner == X {
			return XWins
		}
		return OWins
	}

	if IsTerminal(board) {
		return Draw
	}

	return Ongoing
}

// Validate checks that board can arise from play starting with X.
func Validate(board Board) error {
	xCount, oCount := board.count(X), board.count(O)
	if diff := xCount - oCount; diff != 0 && diff != 1 {
		return fmt.Errorf("%w: %d X marks and %d O marks", ErrInvalidBoard, xCount, oCount)
	}

	var xLine, oLine bool
	for _, line := range lines {
		a := board[line[0].Row][line[0].Col]
		if a == Empty || a != board[line[1].Row][line[1].Col] || a != board[line[2].Row][line[2].Col] {
			continue
		}
		if a == X {
			xLine = true
		} else {
			oLine = true
		}
	}

	switch {
	case xLine && oLine:
		return fmt.Errorf("%w: both players have a line", ErrInvalidBoard)
	case xLine && xCount == oCount:
		return fmt.Errorf("%w: X has a line but O moved after it", ErrInvalidBoard)
	case oLine && xCount != oCount:
		return fmt.Errorf("%w: O has a line but X moved after it", ErrInvalidBoard)
	}

	return nil
}
