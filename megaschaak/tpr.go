package megaschaak

import (
	"context"
	"math"
	"strings"

	"github.com/wsv-pion/clubsite/models"
)

// Tournament type hints for ComputeTPR and the cost formula.
const (
	TypeHerfst = "herfst"
	TypeLente  = "lente"
)

// TPR results are clamped to this range.
const (
	tprMin = 0
	tprMax = 3000
)

// unknownRating is assumed when a player record cannot be retrieved at all.
const unknownRating = 1500

// nameFilters returns the league-name substrings searched for a type hint.
// An empty hint searches both competition types.
func nameFilters(typeHint string) []string {
	switch typeHint {
	case TypeHerfst:
		return []string{"herfst", "herfstcompetitie"}
	case TypeLente:
		return []string{"lente", "lentecompetitie"}
	default:
		return []string{"herfst", "herfstcompetitie", "lente", "lentecompetitie"}
	}
}

// mostRecentEdition picks the edition whose latest round date is most
// recent. Editions without rounds are fallback candidates only when no
// dated edition exists.
func mostRecentEdition(editions []models.League) *models.League {
	var best *models.League
	var fallback *models.League
	for i := range editions {
		ed := &editions[i]
		if ed.LastRoundDate == nil {
			if fallback == nil {
				fallback = ed
			}
			continue
		}
		if best == nil || ed.LastRoundDate.After(*best.LastRoundDate) {
			best = ed
		}
	}
	if best != nil {
		return best
	}
	return fallback
}

// ComputeTPR estimates the player's tournament performance rating from their
// most recent herfst/lente competition. Every failure path falls back to the
// player's nominal rating; this method never returns an error.
//
// The accumulated term 400*(Σactual−Σexpected) is deliberately not divided
// by the number of games. That matches the valuation the club has always
// used, even though it deviates from the textbook performance formula.
func (e *Engine) ComputeTPR(ctx context.Context, playerID int, typeHint string) int {
	player, err := e.players.GetPlayer(ctx, playerID)
	if err != nil || player == nil {
		return unknownRating
	}
	nominal := player.Rating

	editions, err := e.editions.SearchEditionsByName(ctx, nameFilters(typeHint))
	if err != nil {
		return nominal
	}
	edition := mostRecentEdition(editions)
	if edition == nil {
		return nominal
	}

	part, err := e.participations.GetParticipation(ctx, playerID, edition.ID)
	if err != nil || part == nil {
		// A non-participant's performance is defined as their nominal
		// rating.
		return nominal
	}

	rp := float64(nominal)
	if part.InitialRating != nil {
		rp = float64(*part.InitialRating)
	}

	games, err := e.games.ListGamesForPlayer(ctx, playerID, []int{edition.ID})
	if err != nil {
		return nominal
	}

	var sumOpponent, sumActual, sumExpected float64
	counted := 0
	for _, g := range games {
		opponentID := g.OpponentOf(playerID)
		if opponentID == nil {
			continue // bye
		}
		ro := e.opponentBaseline(ctx, *opponentID, edition.ID)

		delta := ro - rp
		if g.Player1ID != playerID {
			delta = rp - ro
		}
		expected := 1 / (1 + math.Pow(10, delta/400))

		sumOpponent += ro
		sumActual += actualScore(g, playerID)
		sumExpected += expected
		counted++
	}

	if counted == 0 {
		return nominal
	}

	tpr := sumOpponent/float64(counted) + 400*(sumActual-sumExpected)
	if tpr < tprMin {
		tpr = tprMin
	}
	if tpr > tprMax {
		tpr = tprMax
	}
	return int(math.Round(tpr))
}

// opponentBaseline resolves the opponent's rating for the expected-score
// term: their participation snapshot in the same edition, else their nominal
// rating, else 1500.
func (e *Engine) opponentBaseline(ctx context.Context, opponentID, editionID int) float64 {
	if part, err := e.participations.GetParticipation(ctx, opponentID, editionID); err == nil && part != nil && part.InitialRating != nil {
		return float64(*part.InitialRating)
	}
	if opp, err := e.players.GetPlayer(ctx, opponentID); err == nil && opp != nil {
		return float64(opp.Rating)
	}
	return unknownRating
}

// actualScore is the game outcome from the player's perspective as used in
// the TPR accumulation: 1 for a recorded win, 0 for a recorded loss, 0.5
// for a draw notation, the embedded value for an ABS-<score> code, else 0.
func actualScore(g models.Game, playerID int) float64 {
	if g.WinnerID != nil {
		if *g.WinnerID == playerID {
			return 1
		}
		return 0
	}
	if g.Result == nil {
		return 0
	}
	switch *g.Result {
	case "½-½", "1/2-1/2":
		return 0.5
	}
	if v, ok := absenceScore(*g.Result); ok {
		return v
	}
	return 0
}

// leagueType classifies a league name as herfst or lente by substring, or
// returns "" when neither matches.
func leagueType(name string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, TypeHerfst) {
		return TypeHerfst
	}
	if strings.Contains(lower, TypeLente) {
		return TypeLente
	}
	return ""
}
