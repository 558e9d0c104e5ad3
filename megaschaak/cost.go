package megaschaak

import (
	"context"
	"math"
)

// Cost derives the budget cost of a player within a class. A manual
// playerCosts override in the resolved configuration wins outright;
// otherwise the cost follows from the player's nominal rating and TPR:
//
//	ptTot      = classBonus + (rating + TPR) / 2
//	correction = ptTot * correctieMultiplier − correctieSubtract
//	cost       = round(round10(correction) / roundsForClass)
//
// with round10 rounding to the nearest multiple of 10, clamped to
// [minCost, maxCost]. This method never fails: when the player cannot be
// retrieved it returns the crude rating-tier fallback for an assumed 1500
// rating, i.e. 50.
func (e *Engine) Cost(ctx context.Context, playerID int, className string, ids []int) int {
	cfg := e.ResolveConfig(ctx, ids, className)

	if v, ok := cfg.PlayerCost(playerID); ok {
		return int(math.Round(v))
	}

	player, err := e.players.GetPlayer(ctx, playerID)
	if err != nil || player == nil {
		return fallbackCost(unknownRating)
	}

	typeHint := ""
	if len(ids) > 0 {
		if ed, err := e.editions.GetEdition(ctx, ids[0]); err == nil && ed != nil {
			typeHint = leagueType(ed.Name)
		}
	}

	tpr := e.ComputeTPR(ctx, playerID, typeHint)

	ptELO := (float64(player.Rating) + float64(tpr)) / 2
	ptTot := cfg.ClassBonusPoints[className] + ptELO
	correction := ptTot*cfg.CorrectionMultiplier - cfg.CorrectionSubtract

	rounds := cfg.RoundsForClass(className)
	cost := math.Round(math.Round(correction/10) * 10 / float64(rounds))

	if cost < float64(cfg.MinCost) {
		return cfg.MinCost
	}
	if cost > float64(cfg.MaxCost) {
		return cfg.MaxCost
	}
	return int(cost)
}

// fallbackCost is the rating-tier ladder used when the cost pipeline cannot
// run at all. The 1500 boundary is inclusive so that a total failure (with
// its assumed 1500 rating) lands in the cheapest tier.
func fallbackCost(rating int) int {
	switch {
	case rating <= 1500:
		return 50
	case rating < 1700:
		return 100
	case rating < 2000:
		return 150
	default:
		return 200
	}
}
