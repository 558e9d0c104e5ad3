package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/wsv-pion/clubsite/models"
	"github.com/wsv-pion/clubsite/repositories"
	"github.com/wsv-pion/clubsite/storage"
)

// fakeData backs the engine stores and the repositories used by the
// services under test with in-memory slices.
type fakeData struct {
	players        []models.Player
	editions       []models.League
	participations []models.Participation
	games          []models.Game

	teams  []models.MegaTeam
	nextID int

	users      []models.User
	nextUserID int
}

func (f *fakeData) GetPlayer(_ context.Context, id int) (*models.Player, error) {
	for i := range f.players {
		if f.players[i].ID == id {
			p := f.players[i]
			return &p, nil
		}
	}
	return nil, errors.New("player not found")
}

func (f *fakeData) ListPlayersByEditions(_ context.Context, editionIDs []int) ([]models.Player, error) {
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

func (f *fakeData) GetEdition(_ context.Context, id int) (*models.League, error) {
	for i := range f.editions {
		if f.editions[i].ID == id {
			ed := f.editions[i]
			return &ed, nil
		}
	}
	return nil, repositories.ErrLeagueNotFound
}

func (f *fakeData) ListEditionsByLeagueName(_ context.Context, name string) ([]models.League, error) {
	var out []models.League
	for _, ed := range f.editions {
		if ed.Name == name {
			out = append(out, ed)
		}
	}
	return out, nil
}

func (f *fakeData) SearchEditionsByName(_ context.Context, substrings []string) ([]models.League, error) {
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
	return out, nil
}

func (f *fakeData) ListLeagueNames(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, ed := range f.editions {
		if _, ok := seen[ed.Name]; !ok {
			seen[ed.Name] = struct{}{}
			out = append(out, ed.Name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeData) GetParticipation(_ context.Context, playerID, editionID int) (*models.Participation, error) {
	for i := range f.participations {
		if f.participations[i].PlayerID == playerID && f.participations[i].LeagueID == editionID {
			p := f.participations[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeData) ListParticipationsByEditions(_ context.Context, editionIDs []int) ([]models.Participation, error) {
	var out []models.Participation
	for _, part := range f.participations {
		for _, id := range editionIDs {
			if part.LeagueID == id {
				out = append(out, part)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeData) ListGamesForPlayer(_ context.Context, playerID int, editionIDs []int) ([]models.Game, error) {
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

func (f *fakeData) ListGames(_ context.Context, editionIDs []int) ([]models.Game, error) {
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

func (f *fakeData) ListTeams(_ context.Context, leagueName string) ([]models.MegaTeam, error) {
	var out []models.MegaTeam
	for _, t := range f.teams {
		if t.LeagueName == leagueName {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeData) GetTeam(_ context.Context, teamID int) (*models.MegaTeam, error) {
	for i := range f.teams {
		if f.teams[i].ID == teamID {
			t := f.teams[i]
			return &t, nil
		}
	}
	return nil, repositories.ErrMegaTeamNotFound
}

func (f *fakeData) GetTeamByUser(_ context.Context, userID int, leagueName string) (*models.MegaTeam, error) {
	for i := range f.teams {
		if f.teams[i].UserID == userID && f.teams[i].LeagueName == leagueName {
			t := f.teams[i]
			return &t, nil
		}
	}
	return nil, repositories.ErrMegaTeamNotFound
}

func (f *fakeData) Create(_ context.Context, team *models.MegaTeam) error {
	f.nextID++
	team.ID = f.nextID
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt
	for i := range team.Slots {
		team.Slots[i].TeamID = team.ID
	}
	f.teams = append(f.teams, *team)
	return nil
}

func (f *fakeData) Update(_ context.Context, team *models.MegaTeam) error {
	for i := range f.teams {
		if f.teams[i].ID == team.ID {
			team.UpdatedAt = time.Now()
			f.teams[i] = *team
			return nil
		}
	}
	return repositories.ErrMegaTeamNotFound
}

func (f *fakeData) Delete(_ context.Context, id int) error {
	for i := range f.teams {
		if f.teams[i].ID == id {
			f.teams = append(f.teams[:i], f.teams[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMegaTeamNotFound
}

func (f *fakeData) UpdateLogoKey(_ context.Context, id int, key string) error {
	for i := range f.teams {
		if f.teams[i].ID == id {
			k := key
			f.teams[i].LogoKey = &k
			return nil
		}
	}
	return repositories.ErrMegaTeamNotFound
}

// fakeUserRepo is a minimal in-memory repositories.UserRepository.
type fakeUserRepo struct {
	users  []models.User
	nextID int
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// fakeUploader records uploads and deletes in memory.
type fakeUploader struct {
	uploads []string
	deletes []string
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	f.uploads = append(f.uploads, key)
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return fmt.Sprintf("https://static.example.org/%s", key)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
