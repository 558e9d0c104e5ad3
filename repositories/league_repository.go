package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wsv-pion/clubsite/models"
)

var ErrLeagueNotFound = errors.New("league not found")

type LeagueRepository interface {
	GetEdition(ctx context.Context, id int) (*models.League, error)
	ListEditionsByLeagueName(ctx context.Context, name string) ([]models.League, error)
	SearchEditionsByName(ctx context.Context, substrings []string) ([]models.League, error)
	ListLeagueNames(ctx context.Context) ([]string, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

// leagueSelect pulls the edition row together with its latest round date.
const leagueSelect = `
	SELECT l.id, l.name, l.class_name, l.rounds, l.megaschaak_enabled,
	       l.registration_deadline, l.megaschaak_config, l.created_at,
	       (SELECT MAX(r.date) FROM rounds r WHERE r.league_id = l.id) AS last_round_date
	FROM leagues l`

func scanLeague(scanner interface{ Scan(...interface{}) error }) (*models.League, error) {
	var l models.League
	err := scanner.Scan(
		&l.ID, &l.Name, &l.ClassName, &l.Rounds, &l.MegaschaakEnabled,
		&l.RegistrationDeadline, &l.MegaschaakConfig, &l.CreatedAt,
		&l.LastRoundDate,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *postgresLeagueRepository) GetEdition(ctx context.Context, id int) (*models.League, error) {
	query := leagueSelect + ` WHERE l.id = $1`
	league, err := scanLeague(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get edition %d: %w", id, err)
	}
	return league, nil
}

func (r *postgresLeagueRepository) ListEditionsByLeagueName(ctx context.Context, name string) ([]models.League, error) {
	query := leagueSelect + ` WHERE l.name = $1 ORDER BY l.id`
	return r.queryLeagues(ctx, query, name)
}

func (r *postgresLeagueRepository) SearchEditionsByName(ctx context.Context, substrings []string) ([]models.League, error) {
	if len(substrings) == 0 {
		return nil, nil
	}
	conditions := make([]string, len(substrings))
	args := make([]interface{}, len(substrings))
	for i, sub := range substrings {
		conditions[i] = fmt.Sprintf("l.name ILIKE $%d", i+1)
		args[i] = "%" + sub + "%"
	}
	query := leagueSelect + ` WHERE ` + strings.Join(conditions, " OR ") + ` ORDER BY l.id`
	return r.queryLeagues(ctx, query, args...)
}

func (r *postgresLeagueRepository) ListLeagueNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT name FROM leagues ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list league names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan league name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *postgresLeagueRepository) queryLeagues(ctx context.Context, query string, args ...interface{}) ([]models.League, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list editions: %w", err)
	}
	defer rows.Close()

	var leagues []models.League
	for rows.Next() {
		l, err := scanLeague(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edition: %w", err)
		}
		leagues = append(leagues, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating editions: %w", err)
	}
	return leagues, nil
}
