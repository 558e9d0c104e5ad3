package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/wsv-pion/clubsite/models"
)

type GameRepository interface {
	ListGamesForPlayer(ctx context.Context, playerID int, editionIDs []int) ([]models.Game, error)
	ListGames(ctx context.Context, editionIDs []int) ([]models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, round_id, league_id, player1_id, player2_id, result, winner_id`

func (r *postgresGameRepository) ListGamesForPlayer(ctx context.Context, playerID int, editionIDs []int) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE (player1_id = $1 OR player2_id = $1) AND league_id = ANY($2)
		ORDER BY id`
	return r.queryGames(ctx, query, playerID, pq.Array(editionIDs))
}

func (r *postgresGameRepository) ListGames(ctx context.Context, editionIDs []int) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE league_id = ANY($1)
		ORDER BY id`
	return r.queryGames(ctx, query, pq.Array(editionIDs))
}

func (r *postgresGameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]models.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var g models.Game
		err := rows.Scan(&g.ID, &g.RoundID, &g.LeagueID, &g.Player1ID, &g.Player2ID, &g.Result, &g.WinnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating games: %w", err)
	}
	return games, nil
}
