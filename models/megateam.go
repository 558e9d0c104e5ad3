package models

import "time"

// MegaTeam is a fantasy ("Megaschaak") team. It is scoped to a league name
// and pools players across all class editions sharing that name.
type MegaTeam struct {
	ID              int       `json:"id" db:"id"`
	UserID          int       `json:"user_id" db:"user_id"`
	LeagueName      string    `json:"league_name" db:"league_name"`
	Name            string    `json:"name" db:"name"`
	ReservePlayerID int       `json:"reserve_player_id" db:"reserve_player_id"`
	ReserveCost     int       `json:"reserve_cost" db:"reserve_cost"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	// Slots are the ten player slots, populated by the repository.
	Slots []MegaTeamSlot `json:"slots,omitempty" db:"-"`
}

// MegaTeamSlot is one of the ten player slots. Cost is the budget value
// frozen at the time the slot was created or last updated; it is nil only
// for rows that predate cost freezing and is then recomputed on the fly.
type MegaTeamSlot struct {
	ID       int  `json:"id" db:"id"`
	TeamID   int  `json:"team_id" db:"team_id"`
	PlayerID int  `json:"player_id" db:"player_id"`
	Cost     *int `json:"cost,omitempty" db:"cost"`
}

// HasPlayer reports whether the player occupies one of the ten slots.
// The reserve slot does not count.
func (t MegaTeam) HasPlayer(playerID int) bool {
	for _, s := range t.Slots {
		if s.PlayerID == playerID {
			return true
		}
	}
	return false
}
