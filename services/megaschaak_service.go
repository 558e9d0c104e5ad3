package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/wsv-pion/clubsite/live"
	"github.com/wsv-pion/clubsite/megaschaak"
	"github.com/wsv-pion/clubsite/models"
	"github.com/wsv-pion/clubsite/repositories"
	"github.com/wsv-pion/clubsite/storage"
)

// TeamInput is a team submission from the HTTP layer.
type TeamInput struct {
	LeagueName      string `json:"league_name"`
	Name            string `json:"name"`
	PlayerIDs       []int  `json:"player_ids"`
	ReservePlayerID *int   `json:"reserve_player_id"`
}

type MegaschaakService interface {
	CreateTeam(ctx context.Context, userID int, input TeamInput) (*models.MegaTeam, error)
	// CreateTeamForUser is the admin path: the registration deadline does
	// not apply, and players are priced with the current configuration.
	CreateTeamForUser(ctx context.Context, targetUserID int, input TeamInput) (*models.MegaTeam, error)
	UpdateTeam(ctx context.Context, userID, teamID int, input TeamInput, asAdmin bool) (*models.MegaTeam, error)
	DeleteTeam(ctx context.Context, userID, teamID int, asAdmin bool) error
	SetTeamLogo(ctx context.Context, userID, teamID int, contentType string, file io.Reader, asAdmin bool) (*models.MegaTeam, error)

	GetTeam(ctx context.Context, teamID int) (*models.MegaTeam, error)
	GetOwnTeam(ctx context.Context, userID int, leagueName string) (*models.MegaTeam, error)
	ListTeams(ctx context.Context, leagueName string) ([]models.MegaTeam, error)

	Standings(ctx context.Context, leagueName string) ([]megaschaak.TeamStanding, error)
	CrossTable(ctx context.Context, leagueName string) (*megaschaak.CrossTable, error)
	PopularPlayers(ctx context.Context, leagueName string) ([]megaschaak.PlayerPopularity, error)
	ValuePlayers(ctx context.Context, leagueName string) ([]megaschaak.PlayerValue, error)
	AvailablePlayers(ctx context.Context, leagueName string) ([]megaschaak.AvailablePlayer, error)
	Config(ctx context.Context, leagueName, className string) (megaschaak.Configuration, error)
}

type megaschaakService struct {
	engine   *megaschaak.Engine
	teamRepo repositories.MegaTeamRepository
	leagues  repositories.LeagueRepository
	uploader storage.FileUploader
	hub      *live.Hub
	log      *slog.Logger
}

func NewMegaschaakService(
	engine *megaschaak.Engine,
	teamRepo repositories.MegaTeamRepository,
	leagues repositories.LeagueRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) MegaschaakService {
	return &megaschaakService{
		engine:   engine,
		teamRepo: teamRepo,
		leagues:  leagues,
		uploader: uploader,
		hub:      hub,
		log:      logger,
	}
}

func (s *megaschaakService) CreateTeam(ctx context.Context, userID int, input TeamInput) (*models.MegaTeam, error) {
	return s.createTeam(ctx, userID, input, false)
}

func (s *megaschaakService) CreateTeamForUser(ctx context.Context, targetUserID int, input TeamInput) (*models.MegaTeam, error) {
	return s.createTeam(ctx, targetUserID, input, true)
}

func (s *megaschaakService) createTeam(ctx context.Context, userID int, input TeamInput, asAdmin bool) (*models.MegaTeam, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}
	if existing, err := s.teamRepo.GetTeamByUser(ctx, userID, input.LeagueName); err == nil && existing != nil {
		return nil, ErrTeamExists
	} else if err != nil && !errors.Is(err, repositories.ErrMegaTeamNotFound) {
		return nil, fmt.Errorf("failed to check existing team: %w", err)
	}

	priced, err := s.engine.ValidateAndPriceTeam(ctx, megaschaak.TeamInput{
		LeagueName:      input.LeagueName,
		PlayerIDs:       input.PlayerIDs,
		ReservePlayerID: input.ReservePlayerID,
		AsAdmin:         asAdmin,
	})
	if err != nil {
		return nil, err
	}

	team := &models.MegaTeam{
		UserID:          userID,
		LeagueName:      input.LeagueName,
		Name:            strings.TrimSpace(input.Name),
		ReservePlayerID: priced.ReservePlayerID,
		ReserveCost:     priced.ReserveCost,
		Slots:           slotsFromPriced(priced),
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to store team: %w", err)
	}

	s.log.Info("megaschaak team created",
		"team_id", team.ID, "user_id", userID, "league", input.LeagueName, "total_cost", priced.TotalCost)
	s.broadcastStandings(ctx, input.LeagueName)
	return team, nil
}

func (s *megaschaakService) UpdateTeam(ctx context.Context, userID, teamID int, input TeamInput, asAdmin bool) (*models.MegaTeam, error) {
	team, err := s.ownedTeam(ctx, userID, teamID, asAdmin)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	priced, err := s.engine.ValidateAndPriceTeam(ctx, megaschaak.TeamInput{
		LeagueName:      team.LeagueName,
		PlayerIDs:       input.PlayerIDs,
		ReservePlayerID: input.ReservePlayerID,
		AsAdmin:         asAdmin,
	})
	if err != nil {
		return nil, err
	}

	team.Name = strings.TrimSpace(input.Name)
	team.ReservePlayerID = priced.ReservePlayerID
	team.ReserveCost = priced.ReserveCost
	team.Slots = slotsFromPriced(priced)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrMegaTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}

	s.log.Info("megaschaak team updated", "team_id", teamID, "league", team.LeagueName)
	s.broadcastStandings(ctx, team.LeagueName)
	return team, nil
}

func (s *megaschaakService) DeleteTeam(ctx context.Context, userID, teamID int, asAdmin bool) error {
	team, err := s.ownedTeam(ctx, userID, teamID, asAdmin)
	if err != nil {
		return err
	}
	if err := s.engine.CheckDeadline(ctx, team.LeagueName, asAdmin); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrMegaTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	if team.LogoKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *team.LogoKey); err != nil {
			s.log.Warn("failed to delete team logo", "team_id", teamID, "error", err)
		}
	}

	s.log.Info("megaschaak team deleted", "team_id", teamID, "league", team.LeagueName)
	s.broadcastStandings(ctx, team.LeagueName)
	return nil
}

func (s *megaschaakService) SetTeamLogo(ctx context.Context, userID, teamID int, contentType string, file io.Reader, asAdmin bool) (*models.MegaTeam, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	team, err := s.ownedTeam(ctx, userID, teamID, asAdmin)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("megaschaak/teams/%d/logo", teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, result.Key); err != nil {
		return nil, fmt.Errorf("failed to store logo key for team %d: %w", teamID, err)
	}

	team.LogoKey = &result.Key
	s.attachLogoURL(team)
	return team, nil
}

func (s *megaschaakService) GetTeam(ctx context.Context, teamID int) (*models.MegaTeam, error) {
	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrMegaTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	s.attachLogoURL(team)
	return team, nil
}

func (s *megaschaakService) GetOwnTeam(ctx context.Context, userID int, leagueName string) (*models.MegaTeam, error) {
	team, err := s.teamRepo.GetTeamByUser(ctx, userID, leagueName)
	if err != nil {
		if errors.Is(err, repositories.ErrMegaTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team for user %d: %w", userID, err)
	}
	s.attachLogoURL(team)
	return team, nil
}

func (s *megaschaakService) ListTeams(ctx context.Context, leagueName string) ([]models.MegaTeam, error) {
	teams, err := s.teamRepo.ListTeams(ctx, leagueName)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		s.attachLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *megaschaakService) Standings(ctx context.Context, leagueName string) ([]megaschaak.TeamStanding, error) {
	return s.engine.BuildStandings(ctx, leagueName)
}

func (s *megaschaakService) CrossTable(ctx context.Context, leagueName string) (*megaschaak.CrossTable, error) {
	return s.engine.BuildCrossTable(ctx, leagueName)
}

func (s *megaschaakService) PopularPlayers(ctx context.Context, leagueName string) ([]megaschaak.PlayerPopularity, error) {
	return s.engine.PopularPlayers(ctx, leagueName)
}

func (s *megaschaakService) ValuePlayers(ctx context.Context, leagueName string) ([]megaschaak.PlayerValue, error) {
	return s.engine.ValuePlayers(ctx, leagueName)
}

func (s *megaschaakService) AvailablePlayers(ctx context.Context, leagueName string) ([]megaschaak.AvailablePlayer, error) {
	return s.engine.ListAvailablePlayers(ctx, leagueName)
}

func (s *megaschaakService) Config(ctx context.Context, leagueName, className string) (megaschaak.Configuration, error) {
	editions, err := s.leagues.ListEditionsByLeagueName(ctx, leagueName)
	if err != nil {
		return megaschaak.Configuration{}, fmt.Errorf("failed to list editions: %w", err)
	}
	if len(editions) == 0 {
		return megaschaak.Configuration{}, megaschaak.ErrLeagueNotFound
	}
	ids := make([]int, len(editions))
	for i, ed := range editions {
		ids[i] = ed.ID
	}
	return s.engine.ResolveConfig(ctx, ids, className), nil
}

// ownedTeam loads the team and checks the caller may modify it. A foreign
// team is reported as not found so team ids cannot be probed.
func (s *megaschaakService) ownedTeam(ctx context.Context, userID, teamID int, asAdmin bool) (*models.MegaTeam, error) {
	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrMegaTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.UserID != userID && !asAdmin {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

func (s *megaschaakService) attachLogoURL(team *models.MegaTeam) {
	if team.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	if url != "" {
		team.LogoURL = &url
	}
}

func (s *megaschaakService) broadcastStandings(ctx context.Context, leagueName string) {
	if s.hub == nil {
		return
	}
	standings, err := s.engine.BuildStandings(ctx, leagueName)
	if err != nil {
		s.log.Warn("failed to build standings for broadcast", "league", leagueName, "error", err)
		return
	}
	s.hub.BroadcastToLeague(leagueName, live.EventStandingsUpdated, standings)
}

func slotsFromPriced(priced *megaschaak.PricedTeam) []models.MegaTeamSlot {
	slots := make([]models.MegaTeamSlot, len(priced.Players))
	for i, p := range priced.Players {
		cost := p.Cost
		slots[i] = models.MegaTeamSlot{PlayerID: p.PlayerID, Cost: &cost}
	}
	return slots
}
