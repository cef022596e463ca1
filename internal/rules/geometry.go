package rules

import "tactics-arena/internal/model"

// reachableCells returns every in-bounds, unoccupied cell within moveRange
// of origin, in row-major (y then x) order. Tie-breaking between equally
// short candidates does not rely on this order: bestMoveAndAttackCell
// compares (x,y) with lexLess.
func reachableCells(state model.GameState, origin model.Position, moveRange int) []model.Position {
	var out []model.Position
	for y := 0; y < model.BoardHeight; y++ {
		for x := 0; x < model.BoardWidth; x++ {
			p := model.Position{X: x, Y: y}
			if model.ChebyshevDistance(origin, p) > moveRange {
				continue
			}
			if p == origin {
				out = append(out, p)
				continue
			}
			if _, occupied := state.UnitAt(p); occupied {
				continue
			}
			if obs, present := state.ObstacleAt(p); present && !obs.Destroyed() {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// bestMoveAndAttackCell finds the empty cell within moveRange of origin
// and within attackRange of target that yields the shortest total path
// (distance from origin to cell, plus the move itself), breaking ties
// lexicographically on (x,y) per spec.md §4.2.
func bestMoveAndAttackCell(state model.GameState, u model.Unit, eff model.Unit, target model.Position) (model.Position, bool) {
	candidates := reachableCells(state, u.Position, eff.MoveRange)
	best := model.Position{}
	found := false
	bestDist := 1 << 30
	for _, c := range candidates {
		if model.ChebyshevDistance(c, target) > eff.AttackRange {
			continue
		}
		d := model.ChebyshevDistance(u.Position, c)
		if !found || d < bestDist || (d == bestDist && lexLess(c, best)) {
			best = c
			bestDist = d
			found = true
		}
	}
	return best, found
}

func lexLess(a, b model.Position) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
