// Package megaschaak implements the fantasy-league valuation and scoring
// engine of the club site: budget costs derived from performance-rating
// estimates, team composition rules, and the derived standings, cross-table,
// popularity and value views.
//
// The engine is pure computation over records retrieved through the narrow
// store interfaces below. Given the same stored snapshot, every method
// returns identical output on every call. The valuation primitives
// (ResolveConfig, ComputeTPR, Cost) never return an error: they degrade to
// documented fallback values instead.
package megaschaak

import (
	"context"
	"time"

	"github.com/wsv-pion/clubsite/models"
)

// PlayerStore provides read access to club players.
type PlayerStore interface {
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	// ListPlayersByEditions returns every player that participates in at
	// least one of the given editions.
	ListPlayersByEditions(ctx context.Context, editionIDs []int) ([]models.Player, error)
}

// EditionStore provides read access to league editions ("classes").
type EditionStore interface {
	GetEdition(ctx context.Context, id int) (*models.League, error)
	// ListEditionsByLeagueName returns all class editions sharing the
	// league name, ordered by id.
	ListEditionsByLeagueName(ctx context.Context, name string) ([]models.League, error)
	// SearchEditionsByName returns editions whose name contains any of the
	// given substrings (case-insensitive), with LastRoundDate populated.
	SearchEditionsByName(ctx context.Context, substrings []string) ([]models.League, error)
}

// ParticipationStore provides read access to (player, edition) records.
type ParticipationStore interface {
	// GetParticipation returns nil, nil when the player does not
	// participate in the edition.
	GetParticipation(ctx context.Context, playerID, editionID int) (*models.Participation, error)
	ListParticipationsByEditions(ctx context.Context, editionIDs []int) ([]models.Participation, error)
}

// GameStore provides read access to recorded games.
type GameStore interface {
	ListGamesForPlayer(ctx context.Context, playerID int, editionIDs []int) ([]models.Game, error)
	ListGames(ctx context.Context, editionIDs []int) ([]models.Game, error)
}

// TeamStore provides read access to Megaschaak teams.
type TeamStore interface {
	ListTeams(ctx context.Context, leagueName string) ([]models.MegaTeam, error)
	GetTeam(ctx context.Context, teamID int) (*models.MegaTeam, error)
}

// Engine holds the read-only collaborators and the exclusion list.
type Engine struct {
	players        PlayerStore
	editions       EditionStore
	participations ParticipationStore
	games          GameStore
	teams          TeamStore
	excluded       ExclusionList

	now func() time.Time
}

func NewEngine(
	players PlayerStore,
	editions EditionStore,
	participations ParticipationStore,
	games GameStore,
	teams TeamStore,
	excluded ExclusionList,
) *Engine {
	if excluded == nil {
		excluded = DefaultExclusions()
	}
	return &Engine{
		players:        players,
		editions:       editions,
		participations: participations,
		games:          games,
		teams:          teams,
		excluded:       excluded,
		now:            time.Now,
	}
}

// editionIDs extracts the ids of a set of editions, preserving order.
func editionIDs(editions []models.League) []int {
	ids := make([]int, len(editions))
	for i, ed := range editions {
		ids[i] = ed.ID
	}
	return ids
}
