package megaschaak

import (
	"testing"

	"github.com/wsv-pion/clubsite/models"
)

func TestScoreFor(t *testing.T) {
	cases := []struct {
		name     string
		game     models.Game
		playerID int
		want     float64
	}{
		{
			name:     "recorded win",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("1-0"), WinnerID: intPtr(1)},
			playerID: 1,
			want:     1,
		},
		{
			name:     "recorded loss",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("1-0"), WinnerID: intPtr(1)},
			playerID: 2,
			want:     0,
		},
		{
			name:     "draw halves",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("½-½")},
			playerID: 2,
			want:     0.5,
		},
		{
			name:     "ascii draw notation",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("1/2-1/2")},
			playerID: 1,
			want:     0.5,
		},
		{
			name:     "player not in game",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("1-0"), WinnerID: intPtr(1)},
			playerID: 3,
			want:     0,
		},
		{
			name:     "no result yet",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2)},
			playerID: 1,
			want:     0,
		},
		{
			name:     "pending placeholder",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("...")},
			playerID: 1,
			want:     0,
		},
		{
			name:     "not played",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("not_played"), WinnerID: intPtr(1)},
			playerID: 1,
			want:     0,
		},
		{
			name:     "postponed scores zero for first side",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("uitgesteld")},
			playerID: 1,
			want:     0,
		},
		{
			name:     "postponed scores zero for second side",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("uitgesteld")},
			playerID: 2,
			want:     0,
		},
		{
			name:     "unrecognized code",
			game:     models.Game{Player1ID: 1, Player2ID: intPtr(2), Result: strPtr("ABS-0.5")},
			playerID: 1,
			want:     0,
		},
		{
			name:     "bye",
			game:     models.Game{Player1ID: 1, Result: strPtr("1-0")},
			playerID: 1,
			want:     0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreFor(tc.game, tc.playerID)
			if got != tc.want {
				t.Errorf("ScoreFor = %v, want %v", got, tc.want)
			}
			if got != 0 && got != 0.5 && got != 1 {
				t.Errorf("ScoreFor = %v, must be one of 0, 0.5, 1", got)
			}
			// Idempotent: a second call sees the same record.
			if again := ScoreFor(tc.game, tc.playerID); again != got {
				t.Errorf("ScoreFor not stable: %v then %v", got, again)
			}
		})
	}
}

func TestIsPlayedGame(t *testing.T) {
	opp := intPtr(42)
	cases := []struct {
		name     string
		result   *string
		opponent *int
		want     bool
	}{
		{"bye", strPtr("1-0"), nil, false},
		{"nil result nil opponent", nil, nil, false},
		{"nil result", nil, opp, false},
		{"pending", strPtr("..."), opp, false},
		{"not played", strPtr("not_played"), opp, false},
		{"postponed", strPtr("uitgesteld"), opp, false},
		{"absence", strPtr("ABS-0.5"), opp, false},
		{"absence zero", strPtr("ABS-0"), opp, false},
		{"half point placeholder", strPtr("0.5-0"), opp, false},
		{"double forfeit placeholder", strPtr("0-0"), opp, false},
		{"white wins", strPtr("1-0"), opp, true},
		{"black wins", strPtr("0-1"), opp, true},
		{"white wins by forfeit on the board", strPtr("1-0R"), opp, true},
		{"black wins by forfeit on the board", strPtr("0-1R"), opp, true},
		{"draw", strPtr("½-½"), opp, true},
		{"ascii draw", strPtr("1/2-1/2"), opp, true},
		{"dash", strPtr("-"), opp, true},
		{"garbage", strPtr("2-0"), opp, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPlayedGame(tc.result, tc.opponent); got != tc.want {
				t.Errorf("IsPlayedGame(%v) = %v, want %v", tc.result, got, tc.want)
			}
		})
	}
}

func TestAbsenceScore(t *testing.T) {
	if v, ok := absenceScore("ABS-0.5"); !ok || v != 0.5 {
		t.Errorf("absenceScore(ABS-0.5) = %v,%v, want 0.5,true", v, ok)
	}
	if v, ok := absenceScore("ABS-1"); !ok || v != 1 {
		t.Errorf("absenceScore(ABS-1) = %v,%v, want 1,true", v, ok)
	}
	if _, ok := absenceScore("1-0"); ok {
		t.Error("absenceScore(1-0) parsed, want no match")
	}
	if _, ok := absenceScore("ABS-x"); ok {
		t.Error("absenceScore(ABS-x) parsed, want no match")
	}
}
