package models

import "time"

// League is one class-scoped edition of a competition. Editions that share
// the same Name form a single league ("Herfstcompetitie 2025" split into
// "Eerste Klasse", "Tweede Klasse", ...). ClassName is nil for competitions
// that are not split into classes.
type League struct {
	ID                   int        `json:"id" db:"id"`
	Name                 string     `json:"name" db:"name"`
	ClassName            *string    `json:"class_name,omitempty" db:"class_name"`
	Rounds               int        `json:"rounds" db:"rounds"`
	MegaschaakEnabled    bool       `json:"megaschaak_enabled" db:"megaschaak_enabled"`
	RegistrationDeadline time.Time  `json:"registration_deadline" db:"registration_deadline"`
	MegaschaakConfig     *string    `json:"-" db:"megaschaak_config"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`

	// LastRoundDate is the date of the edition's most recent round,
	// populated by the repository (nil when the edition has no rounds).
	LastRoundDate *time.Time `json:"last_round_date,omitempty" db:"-"`
}

// Round of an edition. Games hang off rounds.
type Round struct {
	ID       int       `json:"id" db:"id"`
	LeagueID int       `json:"league_id" db:"league_id"`
	Number   int       `json:"number" db:"number"`
	Date     time.Time `json:"date" db:"date"`
}
