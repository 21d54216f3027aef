package tictactoe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Size is the number of rows and columns on the board.
const Size = 3

var (
	ErrOutOfRange   = errors.New("cell index out of range")
	ErrInvalidCell  = errors.New("invalid cell value")
	ErrInvalidBoard = errors.New("invalid board")
)

// Cell is the content of one square: Empty, X or O.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

// ParseCell maps "X", "O" and "" to a Cell.
func ParseCell(s string) (Cell, error) {
	switch s {
	case "X":
		return X, nil
	case "O":
		return O, nil
	case "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
}

// Move addresses a cell by row and column.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) inRange() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is a 3x3 grid. It is a value type: assigning or passing a Board copies it.
type Board [Size][Size]Cell

// InitialState returns the empty starting board.
func InitialState() Board {
	return Board{}
}

// At returns the cell at (row, col).
func (that Board) At(row, col int) (Cell, error) {
	if !(Move{Row: row, Col: col}).inRange() {
		return Empty, fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, row, col)
	}

	return that[row][col], nil
}

// UnmarshalJSON accepts exactly three rows of three cells. Short, long and null
// boards are rejected instead of being trimmed or zero-filled.
func (that *Board) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("%w: board is null", ErrInvalidBoard)
	}

	var rows [][]Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	if len(rows) != Size {
		return fmt.Errorf("%w: got %d rows, want %d", ErrInvalidBoard, len(rows), Size)
	}

	var board Board
	for i, row := range rows {
		if len(row) != Size {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, i, len(row), Size)
		}
		copy(board[i][:], row)
	}

	*that = board

	return nil
}

func (that Board) count(cell Cell) int {
	n := 0
	for _, row := range that {
		for _, c := range row {
			if c == cell {
				n++
			}
		}
	}

	return n
}

// String renders the board as three rows, empty cells as '.'.
func (that Board) String() string {
	var sb strings.Builder
	for i, row := range that {
		if i > 0 {
			sb.WriteByte('|')
		}
		for _, c := range row {
			if c == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(c.String())
		}
	}

	return sb.String()
}

// ParseBoard reads nine cells written as 'X', 'O' or '.', row by row.
// Whitespace and '|' separators are ignored.
func ParseBoard(s string) (Board, error) {
	var (
		board Board
		n     int
	)

	for _, r := range s {
		var cell Cell

		switch r {
		case ' ', '\t', '\n', '|':
			continue
		case 'X', 'x':
			cell = X
		case 'O', 'o':
			cell = O
		case '.', '_':
			cell = Empty
		default:
			return Board{}, fmt.Errorf("%w: unexpected %q", ErrInvalidCell, r)
		}

		if n == Size*Size {
			return Board{}, fmt.Errorf("%w: more than %d cells", ErrInvalidBoard, Size*Size)
		}

		board[n/Size][n%Size] = cell
		n++
	}

	if n != Size*Size {
		return Board{}, fmt.Errorf("%w: got %d cells, want %d", ErrInvalidBoard, n, Size*Size)
	}

	return board, nil
}

// MustParseBoard is ParseBoard for literals known to be valid.
func MustParseBoard(s string) Board {
	board, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}

	return board
}
