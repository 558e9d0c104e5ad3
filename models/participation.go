package models

// Participation links a player to one edition. InitialRating is the rating
// snapshot taken when the edition started; it is nil for players added after
// the start, in which case the nominal rating is used as baseline.
// Score and TieBreak are the player's own standing in that edition.
type Participation struct {
	ID            int      `json:"id" db:"id"`
	PlayerID      int      `json:"player_id" db:"player_id"`
	LeagueID      int      `json:"league_id" db:"league_id"`
	InitialRating *int     `json:"initial_rating,omitempty" db:"initial_rating"`
	Score         float64  `json:"score" db:"score"`
	TieBreak      float64  `json:"tie_break" db:"tie_break"`
}
