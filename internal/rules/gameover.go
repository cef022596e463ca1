package rules

import "tactics-arena/internal/model"

// checkGameOver applies spec.md §4.6 after every action and every round
// end. activePlayer is the seat that initiated the action being resolved
// (or the current player, at round end), used to break a simultaneous
// double-hero-death tie.
func checkGameOver(s *model.GameState, activePlayer model.PlayerID) {
	if s.GameOver {
		return
	}

	if !s.AnyHeroesExist() {
		checkLegacyGameOver(s, activePlayer)
		return
	}

	_, p1Alive := s.LivingHero(model.P1)
	_, p2Alive := s.LivingHero(model.P2)

	switch {
	case p1Alive && p2Alive:
		return
	case p1Alive && !p2Alive:
		declareWinner(s, model.P1)
	case p2Alive && !p1Alive:
		declareWinner(s, model.P2)
	default:
		// both dead in the same action: the active player wins
		declareWinner(s, activePlayer)
	}
}

// checkLegacyGameOver is the fallback for states with no hero units at
// all (used by hand-built test fixtures): the same win conditions apply
// to whichever units exist.
func checkLegacyGameOver(s *model.GameState, activePlayer model.PlayerID) {
	p1Alive := len(s.AliveUnitsFor(model.P1)) > 0
	p2Alive := len(s.AliveUnitsFor(model.P2)) > 0
	switch {
	case p1Alive && p2Alive:
		return
	case p1Alive && !p2Alive:
		declareWinner(s, model.P1)
	case p2Alive && !p1Alive:
		declareWinner(s, model.P2)
	case len(s.Units) > 0:
		declareWinner(s, activePlayer)
	}
}

func declareWinner(s *model.GameState, winner model.PlayerID) {
	s.GameOver = true
	w := winner
	s.Winner = &w
}
