package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wsv-pion/clubsite/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	ListPlayersByEditions(ctx context.Context, editionIDs []int) ([]models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, first_name, last_name, rating, youth, created_at`

func scanPlayer(scanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := scanner.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Rating, &p.Youth, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) ListPlayersByEditions(ctx context.Context, editionIDs []int) ([]models.Player, error) {
	query := `
		SELECT DISTINCT p.id, p.first_name, p.last_name, p.rating, p.youth, p.created_at
		FROM players p
		JOIN participations pt ON pt.player_id = p.id
		WHERE pt.league_id = ANY($1)
		ORDER BY p.id`
	return r.queryPlayers(ctx, query, pq.Array(editionIDs))
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY last_name, first_name`
	return r.queryPlayers(ctx, query)
}

func (r *postgresPlayerRepository) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating players: %w", err)
	}
	return players, nil
}
