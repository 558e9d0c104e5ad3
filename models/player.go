package models

import "time"

// Player is a club member as known by the rating administration.
// Rating is the nominal (KNSB-style) Elo rating, independent of any
// specific competition.
type Player struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Rating    int       `json:"rating" db:"rating"`
	Youth     bool      `json:"youth" db:"youth"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (p Player) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}
