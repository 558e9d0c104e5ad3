package megaschaak

import (
	"strconv"
	"strings"

	"github.com/wsv-pion/clubsite/models"
)

// Result codes that mean "nothing happened (yet)".
const (
	resultPending   = "..."
	resultNotPlayed = "not_played"
	resultPostponed = "uitgesteld"
)

// absencePrefix marks an absence-with-message result; the remainder of the
// code is the score awarded ("ABS-0.5" awards half a point).
const absencePrefix = "ABS-"

// playedResults are the only codes that count as an actually played game.
var playedResults = map[string]struct{}{
	"1-0":     {},
	"0-1":     {},
	"1-0R":    {},
	"0-1R":    {},
	"½-½":     {},
	"1/2-1/2": {},
	"-":       {},
}

// ScoreFor converts one game record into the point value it contributes to
// the given player: 1 for a recorded win, 0.5 for a draw notation, 0
// otherwise (losses, byes, unplayed and unrecognized codes included).
// The returned value is always one of 0, 0.5, 1.
func ScoreFor(g models.Game, playerID int) float64 {
	if !g.HasPlayer(playerID) {
		return 0
	}
	if g.Result == nil {
		return 0
	}
	switch *g.Result {
	case resultPending, resultNotPlayed:
		return 0
	}
	if g.WinnerID != nil && *g.WinnerID == playerID {
		return 1
	}
	switch *g.Result {
	case "½-½", "1/2-1/2":
		return 0.5
	}
	return 0
}

// IsPlayedGame reports whether a result against the given opponent counts as
// an actually played game. Byes, pending and postponed games, absences and
// placeholder scores all report false.
func IsPlayedGame(result *string, opponentID *int) bool {
	if opponentID == nil {
		return false // bye
	}
	if result == nil {
		return false
	}
	r := *result
	switch r {
	case resultPending, resultNotPlayed, resultPostponed, "0.5-0", "0-0":
		return false
	}
	if strings.HasPrefix(r, absencePrefix) {
		return false
	}
	_, ok := playedResults[r]
	return ok
}

// absenceScore parses the awarded score out of an "ABS-<score>" code.
func absenceScore(result string) (float64, bool) {
	if !strings.HasPrefix(result, absencePrefix) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(result, absencePrefix), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
