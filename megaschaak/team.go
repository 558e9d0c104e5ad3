package megaschaak

import (
	"context"
	"errors"
	"fmt"

	"github.com/wsv-pion/clubsite/models"
)

// Team composition rules.
const (
	TeamSize       = 10
	MaxTeamBudget  = 1000
	MaxReserveCost = 100
)

// DefaultClassName is assumed for a player whose class cannot be resolved
// through a participation in one of the league's editions.
const DefaultClassName = "Hoofdtoernooi"

var (
	ErrLeagueNotFound       = errors.New("league not found")
	ErrMegaschaakDisabled   = errors.New("megaschaak is disabled for this league")
	ErrDeadlinePassed       = errors.New("registration deadline has passed")
	ErrTeamSize             = errors.New("a team must have exactly 10 players")
	ErrDuplicatePlayer      = errors.New("duplicate player in team")
	ErrReserveRequired      = errors.New("a reserve player is required")
	ErrBudgetExceeded       = errors.New("team budget exceeded")
	ErrReserveTooExpensive  = errors.New("reserve player too expensive")
	ErrPlayerExcluded       = errors.New("player is excluded from megaschaak")
)

// TeamInput is a team selection to be validated and priced.
type TeamInput struct {
	LeagueName      string
	PlayerIDs       []int
	ReservePlayerID *int
	// AsAdmin bypasses the registration deadline. Whether the caller may
	// use it is the embedding service's concern.
	AsAdmin bool
}

// PricedPlayer is one validated selection with its cost at pricing time.
type PricedPlayer struct {
	PlayerID  int    `json:"player_id"`
	ClassName string `json:"class_name"`
	Cost      int    `json:"cost"`
}

// PricedTeam is the validator's output: the costs here are what gets frozen
// onto the team's slots.
type PricedTeam struct {
	Players         []PricedPlayer `json:"players"`
	ReservePlayerID int            `json:"reserve_player_id"`
	ReserveCost     int            `json:"reserve_cost"`
	TotalCost       int            `json:"total_cost"`
}

// ValidateAndPriceTeam enforces the composition invariants and prices every
// selected player with the current configuration. It returns the priced
// selection on success; costs are to be frozen onto the team's slots by the
// caller.
func (e *Engine) ValidateAndPriceTeam(ctx context.Context, in TeamInput) (*PricedTeam, error) {
	if len(in.PlayerIDs) != TeamSize {
		return nil, fmt.Errorf("%w: got %d", ErrTeamSize, len(in.PlayerIDs))
	}
	seen := make(map[int]struct{}, len(in.PlayerIDs))
	for _, id := range in.PlayerIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: player %d", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}
	}
	if in.ReservePlayerID == nil {
		return nil, ErrReserveRequired
	}

	editions, err := e.editions.ListEditionsByLeagueName(ctx, in.LeagueName)
	if err != nil {
		return nil, fmt.Errorf("listing editions of %q: %w", in.LeagueName, err)
	}
	if len(editions) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrLeagueNotFound, in.LeagueName)
	}
	if !megaschaakEnabled(editions) {
		return nil, fmt.Errorf("%w: %q", ErrMegaschaakDisabled, in.LeagueName)
	}
	if !in.AsAdmin && e.now().After(editions[0].RegistrationDeadline) {
		return nil, ErrDeadlinePassed
	}

	ids := editionIDs(editions)
	priced := PricedTeam{
		Players:         make([]PricedPlayer, 0, TeamSize),
		ReservePlayerID: *in.ReservePlayerID,
	}

	for _, playerID := range in.PlayerIDs {
		if err := e.checkNotExcluded(ctx, playerID); err != nil {
			return nil, err
		}
		class := e.resolveClassName(ctx, playerID, editions)
		cost := e.Cost(ctx, playerID, class, ids)
		priced.Players = append(priced.Players, PricedPlayer{
			PlayerID:  playerID,
			ClassName: class,
			Cost:      cost,
		})
		priced.TotalCost += cost
	}
	if priced.TotalCost > MaxTeamBudget {
		return nil, fmt.Errorf("%w: total cost %d exceeds %d", ErrBudgetExceeded, priced.TotalCost, MaxTeamBudget)
	}

	if err := e.checkNotExcluded(ctx, *in.ReservePlayerID); err != nil {
		return nil, err
	}
	reserveClass := e.resolveClassName(ctx, *in.ReservePlayerID, editions)
	priced.ReserveCost = e.Cost(ctx, *in.ReservePlayerID, reserveClass, ids)
	if priced.ReserveCost > MaxReserveCost {
		return nil, fmt.Errorf("%w: cost %d exceeds %d", ErrReserveTooExpensive, priced.ReserveCost, MaxReserveCost)
	}

	return &priced, nil
}

// megaschaakEnabled reports whether any edition of the league has the
// feature switched on. The flag is stored per edition but flipped for the
// whole league in practice.
func megaschaakEnabled(editions []models.League) bool {
	for _, ed := range editions {
		if ed.MegaschaakEnabled {
			return true
		}
	}
	return false
}

// resolveClassName finds the class the player competes in, via their
// participation in one of the league's editions. Players without a
// participation land in the Hoofdtoernooi by definition.
func (e *Engine) resolveClassName(ctx context.Context, playerID int, editions []models.League) string {
	for _, ed := range editions {
		part, err := e.participations.GetParticipation(ctx, playerID, ed.ID)
		if err != nil || part == nil {
			continue
		}
		if ed.ClassName != nil && *ed.ClassName != "" {
			return *ed.ClassName
		}
	}
	return DefaultClassName
}

func (e *Engine) checkNotExcluded(ctx context.Context, playerID int) error {
	player, err := e.players.GetPlayer(ctx, playerID)
	if err != nil || player == nil {
		// Unknown players get the fallback cost; exclusion cannot be
		// decided without a name.
		return nil
	}
	if e.excluded.Contains(player.FirstName, player.LastName) {
		return fmt.Errorf("%w: %s", ErrPlayerExcluded, player.DisplayName())
	}
	return nil
}
