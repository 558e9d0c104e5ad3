package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wsv-pion/clubsite/models"
)

var ErrMegaTeamNotFound = errors.New("megaschaak team not found")

type MegaTeamRepository interface {
	ListTeams(ctx context.Context, leagueName string) ([]models.MegaTeam, error)
	GetTeam(ctx context.Context, id int) (*models.MegaTeam, error)
	GetTeamByUser(ctx context.Context, userID int, leagueName string) (*models.MegaTeam, error)
	Create(ctx context.Context, team *models.MegaTeam) error
	Update(ctx context.Context, team *models.MegaTeam) error
	Delete(ctx context.Context, id int) error
	UpdateLogoKey(ctx context.Context, id int, key string) error
}

type postgresMegaTeamRepository struct {
	db *sql.DB
}

func NewPostgresMegaTeamRepository(db *sql.DB) MegaTeamRepository {
	return &postgresMegaTeamRepository{db: db}
}

const megaTeamColumns = `id, user_id, league_name, name, reserve_player_id, reserve_cost, logo_key, created_at, updated_at`

func scanMegaTeam(scanner interface{ Scan(...interface{}) error }) (*models.MegaTeam, error) {
	var t models.MegaTeam
	err := scanner.Scan(
		&t.ID, &t.UserID, &t.LeagueName, &t.Name,
		&t.ReservePlayerID, &t.ReserveCost, &t.LogoKey,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresMegaTeamRepository) ListTeams(ctx context.Context, leagueName string) ([]models.MegaTeam, error) {
	query := `SELECT ` + megaTeamColumns + ` FROM mega_teams WHERE league_name = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, leagueName)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.MegaTeam
	for rows.Next() {
		t, err := scanMegaTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating teams: %w", err)
	}
	if err := r.attachSlots(ctx, teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresMegaTeamRepository) GetTeam(ctx context.Context, id int) (*models.MegaTeam, error) {
	query := `SELECT ` + megaTeamColumns + ` FROM mega_teams WHERE id = $1`
	team, err := scanMegaTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMegaTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	teams := []models.MegaTeam{*team}
	if err := r.attachSlots(ctx, teams); err != nil {
		return nil, err
	}
	return &teams[0], nil
}

func (r *postgresMegaTeamRepository) GetTeamByUser(ctx context.Context, userID int, leagueName string) (*models.MegaTeam, error) {
	query := `SELECT ` + megaTeamColumns + ` FROM mega_teams WHERE user_id = $1 AND league_name = $2`
	team, err := scanMegaTeam(r.db.QueryRowContext(ctx, query, userID, leagueName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMegaTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team for user %d: %w", userID, err)
	}
	teams := []models.MegaTeam{*team}
	if err := r.attachSlots(ctx, teams); err != nil {
		return nil, err
	}
	return &teams[0], nil
}

// Create inserts the team and its slots in one transaction so a team can
// never exist without its ten slots.
func (r *postgresMegaTeamRepository) Create(ctx context.Context, team *models.MegaTeam) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO mega_teams (user_id, league_name, name, reserve_player_id, reserve_cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		team.UserID, team.LeagueName, team.Name, team.ReservePlayerID, team.ReserveCost,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	if err := r.insertSlots(ctx, tx, team); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the team row and replaces all slots, so the frozen
// slot costs always reflect the latest accepted lineup.
func (r *postgresMegaTeamRepository) Update(ctx context.Context, team *models.MegaTeam) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE mega_teams
		SET name = $1, reserve_player_id = $2, reserve_cost = $3, updated_at = NOW()
		WHERE id = $4`
	result, err := tx.ExecContext(ctx, query,
		team.Name, team.ReservePlayerID, team.ReserveCost, team.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}
	if err := checkAffectedRows(result, ErrMegaTeamNotFound); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM mega_team_slots WHERE team_id = $1`, team.ID); err != nil {
		return fmt.Errorf("failed to clear slots for team %d: %w", team.ID, err)
	}
	if err := r.insertSlots(ctx, tx, team); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresMegaTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM mega_teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMegaTeamNotFound)
}

func (r *postgresMegaTeamRepository) UpdateLogoKey(ctx context.Context, id int, key string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE mega_teams SET logo_key = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update logo for team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMegaTeamNotFound)
}

func (r *postgresMegaTeamRepository) insertSlots(ctx context.Context, exec SQLExecutor, team *models.MegaTeam) error {
	query := `INSERT INTO mega_team_slots (team_id, player_id, cost) VALUES ($1, $2, $3) RETURNING id`
	for i := range team.Slots {
		slot := &team.Slots[i]
		slot.TeamID = team.ID
		err := exec.QueryRowContext(ctx, query, team.ID, slot.PlayerID, slot.Cost).Scan(&slot.ID)
		if err != nil {
			return fmt.Errorf("failed to insert slot for player %d: %w", slot.PlayerID, err)
		}
	}
	return nil
}

func (r *postgresMegaTeamRepository) attachSlots(ctx context.Context, teams []models.MegaTeam) error {
	if len(teams) == 0 {
		return nil
	}
	ids := make([]int, len(teams))
	index := make(map[int]*models.MegaTeam, len(teams))
	for i := range teams {
		ids[i] = teams[i].ID
		index[teams[i].ID] = &teams[i]
	}
	query := `
		SELECT id, team_id, player_id, cost
		FROM mega_team_slots
		WHERE team_id = ANY($1)
		ORDER BY team_id, id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.MegaTeamSlot
		if err := rows.Scan(&s.ID, &s.TeamID, &s.PlayerID, &s.Cost); err != nil {
			return fmt.Errorf("failed to scan slot: %w", err)
		}
		if team, ok := index[s.TeamID]; ok {
			team.Slots = append(team.Slots, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed iterating slots: %w", err)
	}
	return nil
}
