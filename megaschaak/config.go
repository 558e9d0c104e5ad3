package megaschaak

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Defaults for the cost formula. Editions can override any of these through
// the megaschaak_config blob stored on the edition row.
const (
	DefaultCorrectionMultiplier = 1.5
	DefaultCorrectionSubtract   = 1800
	DefaultMinCost              = 1
	DefaultMaxCost              = 200
	DefaultRoundsPerClass       = 10
)

// Configuration drives the cost formula for one league. The JSON keys are
// the persisted blob format and must not change.
type Configuration struct {
	ClassBonusPoints     map[string]float64 `json:"classBonusPoints"`
	RoundsPerClass       map[string]int     `json:"roundsPerClass"`
	CorrectionMultiplier float64            `json:"correctieMultiplier"`
	CorrectionSubtract   float64            `json:"correctieSubtract"`
	MinCost              int                `json:"minCost"`
	MaxCost              int                `json:"maxCost"`
	// PlayerCosts maps a player id (as string, the JSON key form) to a
	// manual cost that bypasses the formula entirely.
	PlayerCosts map[string]float64 `json:"playerCosts,omitempty"`
}

// PlayerCost looks up a manual cost override for the player, accepting both
// the plain numeric key form and any stray string form of the id.
func (c Configuration) PlayerCost(playerID int) (float64, bool) {
	if c.PlayerCosts == nil {
		return 0, false
	}
	key := strconv.Itoa(playerID)
	if v, ok := c.PlayerCosts[key]; ok {
		return v, true
	}
	// Blobs written by older tooling sometimes carry padded keys.
	for k, v := range c.PlayerCosts {
		if strings.TrimSpace(k) == key {
			return v, true
		}
	}
	return 0, false
}

// RoundsForClass returns the configured round count for a class, falling
// back to the global default when the class is not configured.
func (c Configuration) RoundsForClass(className string) int {
	if n, ok := c.RoundsPerClass[className]; ok && n > 0 {
		return n
	}
	return DefaultRoundsPerClass
}

// overrideConfiguration mirrors Configuration with pointer scalars so that a
// stored blob can omit keys: only keys actually present override defaults.
type overrideConfiguration struct {
	ClassBonusPoints     map[string]float64 `json:"classBonusPoints"`
	RoundsPerClass       map[string]int     `json:"roundsPerClass"`
	CorrectionMultiplier *float64           `json:"correctieMultiplier"`
	CorrectionSubtract   *float64           `json:"correctieSubtract"`
	MinCost              *int               `json:"minCost"`
	MaxCost              *int               `json:"maxCost"`
	PlayerCosts          map[string]float64 `json:"playerCosts"`
}

// defaultConfiguration is the configuration used when no editions are given
// or every lookup fails.
func defaultConfiguration() Configuration {
	return Configuration{
		ClassBonusPoints:     map[string]float64{},
		RoundsPerClass:       map[string]int{},
		CorrectionMultiplier: DefaultCorrectionMultiplier,
		CorrectionSubtract:   DefaultCorrectionSubtract,
		MinCost:              DefaultMinCost,
		MaxCost:              DefaultMaxCost,
	}
}

// merge lays an override on top of defaults. Scalars present in the
// override win; map merges are additive, replacing only the keys present.
// PlayerCosts is copied through verbatim.
func merge(defaults Configuration, override overrideConfiguration) Configuration {
	out := defaults
	out.ClassBonusPoints = copyFloatMap(defaults.ClassBonusPoints)
	out.RoundsPerClass = copyIntMap(defaults.RoundsPerClass)

	for k, v := range override.ClassBonusPoints {
		out.ClassBonusPoints[k] = v
	}
	for k, v := range override.RoundsPerClass {
		out.RoundsPerClass[k] = v
	}
	if override.CorrectionMultiplier != nil {
		out.CorrectionMultiplier = *override.CorrectionMultiplier
	}
	if override.CorrectionSubtract != nil {
		out.CorrectionSubtract = *override.CorrectionSubtract
	}
	if override.MinCost != nil {
		out.MinCost = *override.MinCost
	}
	if override.MaxCost != nil {
		out.MaxCost = *override.MaxCost
	}
	if override.PlayerCosts != nil {
		out.PlayerCosts = copyFloatMap(override.PlayerCosts)
	}
	return out
}

// ResolveConfig merges the stored per-league override (if any) with defaults
// computed from the editions themselves. With no editions it returns the
// hard-coded default configuration. Lookup errors degrade to the default
// configuration; this method never fails.
func (e *Engine) ResolveConfig(ctx context.Context, ids []int, className string) Configuration {
	if len(ids) == 0 {
		return defaultConfiguration()
	}

	defaults := defaultConfiguration()
	var override *overrideConfiguration

	for _, id := range ids {
		ed, err := e.editions.GetEdition(ctx, id)
		if err != nil || ed == nil {
			return defaultConfiguration()
		}
		if ed.ClassName != nil && ed.Rounds > 0 {
			name := *ed.ClassName
			// The requested class wins even when a later edition
			// carries the same class name.
			if _, seen := defaults.RoundsPerClass[name]; !seen || name == className {
				defaults.RoundsPerClass[name] = ed.Rounds
			}
		}
		if override == nil && ed.MegaschaakConfig != nil && *ed.MegaschaakConfig != "" {
			var raw overrideConfiguration
			// Malformed blobs are ignored rather than failing the
			// whole resolve.
			if err := json.Unmarshal([]byte(*ed.MegaschaakConfig), &raw); err == nil {
				override = &raw
			}
		}
	}

	if override == nil {
		return defaults
	}
	return merge(defaults, *override)
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
