package model

// ObstacleHP is the fixed hit count an obstacle absorbs before collapsing.
const ObstacleHP = 3

// Obstacle blocks movement and absorbs attacks until destroyed.
type Obstacle struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	HP       int      `json:"hp"`
}

// Destroyed reports whether the obstacle has collapsed.
func (o Obstacle) Destroyed() bool { return o.HP <= 0 }

// BuffTile is a one-shot map feature: the first unit to step on it gains
// its buff and the tile is consumed.
type BuffTile struct {
	ID        string   `json:"id"`
	Position  Position `json:"position"`
	BuffType  BuffType `json:"buffType"`
	Duration  int      `json:"duration"`
	Triggered bool     `json:"triggered"`
}

// Expired reports whether the tile's remaining duration has reached zero.
func (t BuffTile) Expired() bool { return t.Duration <= 0 }

// DeathChoice is the interrupt blocking all other actions for a minion's
// owner until they pick what replaces the death cell.
type DeathChoice struct {
	OwnerID  PlayerID `json:"ownerId"`
	Position Position `json:"position"`
	UnitID   string   `json:"unitId"`
}
