package tictactoe

import "math"

// BestMove returns an optimal move for the player to move, or false on a terminal board.
// Among equally valued moves the first one in LegalMoves order wins.
func BestMove(board Board) (Move, bool) {
	if IsTerminal(board) {
		return Move{}, false
	}

	var (
		best     Move
		maximize = CurrentPlayer(board) == X
	)

	bestScore := math.MaxInt
	if maximize {
		bestScore = math.MinInt
	}

	for _, move := range LegalMoves(board) {
		next := mustApply(board, move)

		if maximize {
			if score := MinValue(next); score > bestScore {
				bestScore, best = score, move
			}
			continue
		}

		if score := MaxValue(next); score < bestScore {
			bestScore, best = score, move
		}
	}

	return best, true
}

// MaxValue is the best score X can force from board.
func MaxValue(board Board) int {
	if IsTerminal(board) {
		return Utility(board)
	}

	v := math.MinInt
	for _, move := range LegalMoves(board) {
		v = max(v, MinValue(mustApply(board, move)))
	}

	return v
}

// MinValue is the best score O can force from board.
func MinValue(board Board) int {
	if IsTerminal(board) {
		return Utility(board)
	}

	v := math.MaxInt
	for _, move := range LegalMoves(board) {
		v = min(v, MaxValue(mustApply(board, move)))
	}

	return v
}

// mustApply plays a move taken from LegalMoves of the same board.
func mustApply(board Board, move Move) Board {
	next, err := ApplyMove(board, move)
	if err != nil {
		panic(err)
	}

	return next
}
