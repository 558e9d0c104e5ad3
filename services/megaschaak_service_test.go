package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wsv-pion/clubsite/megaschaak"
	"github.com/wsv-pion/clubsite/models"
	"github.com/wsv-pion/clubsite/storage"
)

const testLeague = "Herfstcompetitie 2025"

// serviceFixture is one open league edition with eleven players whose
// costs are pinned through a playerCosts override: 100 for players 1-10
// and 80 for the reserve candidate 11.
func serviceFixture(deadline time.Time) *fakeData {
	costs := make([]string, 0, 11)
	for id := 1; id <= 10; id++ {
		costs = append(costs, fmt.Sprintf("%q:100", fmt.Sprint(id)))
	}
	costs = append(costs, `"11":80`)
	cfg := fmt.Sprintf(`{"playerCosts":{%s}}`, strings.Join(costs, ","))

	f := &fakeData{
		editions: []models.League{{
			ID:                   1,
			Name:                 testLeague,
			Rounds:               10,
			MegaschaakEnabled:    true,
			RegistrationDeadline: deadline,
			MegaschaakConfig:     &cfg,
		}},
	}
	for id := 1; id <= 11; id++ {
		f.players = append(f.players, models.Player{
			ID: id, FirstName: "Speler", LastName: fmt.Sprint(id), Rating: 1800,
		})
		f.participations = append(f.participations, models.Participation{
			ID: id, PlayerID: id, LeagueID: 1,
		})
	}
	return f
}

func newTestService(f *fakeData, uploader storage.FileUploader) MegaschaakService {
	engine := megaschaak.NewEngine(f, f, f, f, f, nil)
	return NewMegaschaakService(engine, f, f, uploader, nil, discardLogger())
}

func validInput() TeamInput {
	return TeamInput{
		LeagueName:      testLeague,
		Name:            "De Torens",
		PlayerIDs:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		ReservePlayerID: intPtr(11),
	}
}

func TestCreateTeam_FreezesCosts(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	team, err := svc.CreateTeam(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}
	if team.ID == 0 {
		t.Error("expected team to get an ID")
	}
	if len(team.Slots) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(team.Slots))
	}
	for _, slot := range team.Slots {
		if slot.Cost == nil || *slot.Cost != 100 {
			t.Errorf("slot for player %d: expected frozen cost 100, got %v", slot.PlayerID, slot.Cost)
		}
	}
	if team.ReserveCost != 80 {
		t.Errorf("expected reserve cost 80, got %d", team.ReserveCost)
	}
}

func TestCreateTeam_SecondTeamConflicts(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	if _, err := svc.CreateTeam(context.Background(), 7, validInput()); err != nil {
		t.Fatalf("first CreateTeam returned error: %v", err)
	}
	_, err := svc.CreateTeam(context.Background(), 7, validInput())
	if !errors.Is(err, ErrTeamExists) {
		t.Errorf("expected ErrTeamExists, got %v", err)
	}
}

func TestCreateTeam_NameRequired(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	input := validInput()
	input.Name = "   "
	_, err := svc.CreateTeam(context.Background(), 7, input)
	if !errors.Is(err, ErrTeamNameRequired) {
		t.Errorf("expected ErrTeamNameRequired, got %v", err)
	}
}

func TestCreateTeam_DeadlineGate(t *testing.T) {
	f := serviceFixture(time.Now().Add(-24 * time.Hour))
	svc := newTestService(f, nil)

	_, err := svc.CreateTeam(context.Background(), 7, validInput())
	if !errors.Is(err, megaschaak.ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}

	// The admin path registers teams after the deadline, priced with the
	// current configuration.
	team, err := svc.CreateTeamForUser(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("CreateTeamForUser returned error: %v", err)
	}
	if team.UserID != 7 {
		t.Errorf("expected team owned by user 7, got %d", team.UserID)
	}
}

func TestUpdateTeam_ForeignTeamHidden(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	team, err := svc.CreateTeam(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}

	_, err = svc.UpdateTeam(context.Background(), 99, team.ID, validInput(), false)
	if !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("expected foreign team to be reported as not found, got %v", err)
	}

	// An admin may edit any team.
	if _, err := svc.UpdateTeam(context.Background(), 99, team.ID, validInput(), true); err != nil {
		t.Errorf("admin update returned error: %v", err)
	}
}

func TestUpdateTeam_RepricesSlots(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	team, err := svc.CreateTeam(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}

	// Swap player 10 for the cheaper player 11, reserve becomes player 10.
	input := validInput()
	input.PlayerIDs = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 11}
	input.ReservePlayerID = intPtr(10)

	updated, err := svc.UpdateTeam(context.Background(), 7, team.ID, input, false)
	if err != nil {
		t.Fatalf("UpdateTeam returned error: %v", err)
	}
	var found bool
	for _, slot := range updated.Slots {
		if slot.PlayerID == 11 {
			found = true
			if slot.Cost == nil || *slot.Cost != 80 {
				t.Errorf("expected player 11 frozen at 80, got %v", slot.Cost)
			}
		}
	}
	if !found {
		t.Error("expected player 11 in updated slots")
	}
	if updated.ReserveCost != 100 {
		t.Errorf("expected reserve cost 100, got %d", updated.ReserveCost)
	}
}

func TestDeleteTeam_RemovesLogo(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	uploader := &fakeUploader{}
	svc := newTestService(f, uploader)

	team, err := svc.CreateTeam(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}
	if _, err := svc.SetTeamLogo(context.Background(), 7, team.ID, "image/png", strings.NewReader("png"), false); err != nil {
		t.Fatalf("SetTeamLogo returned error: %v", err)
	}

	if err := svc.DeleteTeam(context.Background(), 7, team.ID, false); err != nil {
		t.Fatalf("DeleteTeam returned error: %v", err)
	}
	if _, err := svc.GetTeam(context.Background(), team.ID); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("expected deleted team to be gone, got %v", err)
	}
	if len(uploader.deletes) != 1 {
		t.Errorf("expected one logo delete, got %d", len(uploader.deletes))
	}
}

func TestSetTeamLogo(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	uploader := &fakeUploader{}
	svc := newTestService(f, uploader)

	team, err := svc.CreateTeam(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}

	updated, err := svc.SetTeamLogo(context.Background(), 7, team.ID, "image/png", strings.NewReader("png"), false)
	if err != nil {
		t.Fatalf("SetTeamLogo returned error: %v", err)
	}
	if updated.LogoURL == nil || !strings.Contains(*updated.LogoURL, fmt.Sprintf("teams/%d/logo", team.ID)) {
		t.Errorf("expected logo URL for team %d, got %v", team.ID, updated.LogoURL)
	}
}

func TestSetTeamLogo_UploadsDisabled(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	team, err := svc.CreateTeam(context.Background(), 7, validInput())
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}
	_, err = svc.SetTeamLogo(context.Background(), 7, team.ID, "image/png", strings.NewReader("png"), false)
	if !errors.Is(err, ErrUploadsDisabled) {
		t.Errorf("expected ErrUploadsDisabled, got %v", err)
	}
}

func TestConfig_UnknownLeague(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	_, err := svc.Config(context.Background(), "Zomercompetitie 2025", "")
	if !errors.Is(err, megaschaak.ErrLeagueNotFound) {
		t.Errorf("expected ErrLeagueNotFound, got %v", err)
	}
}

func TestConfig_AppliesOverride(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	cfg, err := svc.Config(context.Background(), testLeague, "")
	if err != nil {
		t.Fatalf("Config returned error: %v", err)
	}
	got, ok := cfg.PlayerCost(11)
	if !ok || got != 80 {
		t.Errorf("expected player 11 override of 80, got %v (found %v)", got, ok)
	}
}

func TestStandings_Passthrough(t *testing.T) {
	f := serviceFixture(time.Now().Add(24 * time.Hour))
	svc := newTestService(f, nil)

	if _, err := svc.CreateTeam(context.Background(), 7, validInput()); err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}
	standings, err := svc.Standings(context.Background(), testLeague)
	if err != nil {
		t.Fatalf("Standings returned error: %v", err)
	}
	if len(standings) != 1 {
		t.Fatalf("expected 1 standing, got %d", len(standings))
	}
	if standings[0].TeamName != "De Torens" {
		t.Errorf("expected team name De Torens, got %q", standings[0].TeamName)
	}
}
