package models

// Game is a single recorded result within a round of an edition.
// Player2ID is nil for a bye; a bye never contributes to scores or TPR.
// Result holds the raw notation as entered by the competition leader
// ("1-0", "0-1", "½-½", "1-0R", "ABS-0.5", "uitgesteld", ...).
type Game struct {
	ID        int     `json:"id" db:"id"`
	RoundID   int     `json:"round_id" db:"round_id"`
	LeagueID  int     `json:"league_id" db:"league_id"`
	Player1ID int     `json:"player1_id" db:"player1_id"`
	Player2ID *int    `json:"player2_id,omitempty" db:"player2_id"`
	Result    *string `json:"result,omitempty" db:"result"`
	WinnerID  *int    `json:"winner_id,omitempty" db:"winner_id"`
}

// HasPlayer reports whether the given player is one of the two sides.
func (g Game) HasPlayer(playerID int) bool {
	if g.Player1ID == playerID {
		return true
	}
	return g.Player2ID != nil && *g.Player2ID == playerID
}

// OpponentOf returns the opposing player id, or nil for a bye or when the
// player is not part of the game.
func (g Game) OpponentOf(playerID int) *int {
	if g.Player1ID == playerID {
		return g.Player2ID
	}
	if g.Player2ID != nil && *g.Player2ID == playerID {
		id := g.Player1ID
		return &id
	}
	return nil
}
