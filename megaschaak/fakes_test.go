package megaschaak

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/wsv-pion/clubsite/models"
)

// fakeStore backs every engine collaborator with in-memory slices.
type fakeStore struct {
	players        []models.Player
	editions       []models.League
	participations []models.Participation
	games          []models.Game
	teams          []models.MegaTeam

	failPlayers  bool
	failEditions bool
}

var errFakeDown = errors.New("store unavailable")

func (f *fakeStore) GetPlayer(_ context.Context, id int) (*models.Player, error) {
	if f.failPlayers {
		return nil, errFakeDown
	}
	for i := range f.players {
		if f.players[i].ID == id {
			p := f.players[i]
			return &p, nil
		}
	}
	return nil, errors.New("player not found")
}

func (f *fakeStore) ListPlayersByEditions(_ context.Context, editionIDs []int) ([]models.Player, error) {
	if f.failPlayers {
		return nil, errFakeDown
	}
	wanted := make(map[int]struct{})
	for _, part := range f.participations {
		for _, id := range editionIDs {
			if part.LeagueID == id {
				wanted[part.PlayerID] = struct{}{}
			}
		}
	}
	var out []models.Player
	for _, p := range f.players {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetEdition(_ context.Context, id int) (*models.League, error) {
	if f.failEditions {
		return nil, errFakeDown
	}
	for i := range f.editions {
		if f.editions[i].ID == id {
			ed := f.editions[i]
			return &ed, nil
		}
	}
	return nil, errors.New("edition not found")
}

func (f *fakeStore) ListEditionsByLeagueName(_ context.Context, name string) ([]models.League, error) {
	if f.failEditions {
		return nil, errFakeDown
	}
	var out []models.League
	for _, ed := range f.editions {
		if ed.Name == name {
			out = append(out, ed)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) SearchEditionsByName(_ context.Context, substrings []string) ([]models.League, error) {
	if f.failEditions {
		return nil, errFakeDown
	}
	var out []models.League
	for _, ed := range f.editions {
		lower := strings.ToLower(ed.Name)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				out = append(out, ed)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetParticipation(_ context.Context, playerID, editionID int) (*models.Participation, error) {
	for i := range f.participations {
		if f.participations[i].PlayerID == playerID && f.participations[i].LeagueID == editionID {
			p := f.participations[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListParticipationsByEditions(_ context.Context, editionIDs []int) ([]models.Participation, error) {
	var out []models.Participation
	for _, part := range f.participations {
		for _, id := range editionIDs {
			if part.LeagueID == id {
				out = append(out, part)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (f *fakeStore) ListGamesForPlayer(_ context.Context, playerID int, editionIDs []int) ([]models.Game, error) {
	var out []models.Game
	for _, g := range f.games {
		if !g.HasPlayer(playerID) {
			continue
		}
		for _, id := range editionIDs {
			if g.LeagueID == id {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ListGames(_ context.Context, editionIDs []int) ([]models.Game, error) {
	var out []models.Game
	for _, g := range f.games {
		for _, id := range editionIDs {
			if g.LeagueID == id {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ListTeams(_ context.Context, leagueName string) ([]models.MegaTeam, error) {
	var out []models.MegaTeam
	for _, t := range f.teams {
		if t.LeagueName == leagueName {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetTeam(_ context.Context, teamID int) (*models.MegaTeam, error) {
	for i := range f.teams {
		if f.teams[i].ID == teamID {
			t := f.teams[i]
			return &t, nil
		}
	}
	return nil, errors.New("team not found")
}

// testNow is "today" for every engine test; deadlines are set relative to it.
var testNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(f *fakeStore) *Engine {
	e := NewEngine(f, f, f, f, f, nil)
	e.now = func() time.Time { return testNow }
	return e
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func datePtr(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}
