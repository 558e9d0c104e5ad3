package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wsv-pion/clubsite/models"
)

type ParticipationRepository interface {
	// GetParticipation returns nil, nil when the player has no record in
	// the edition; the engine treats that as "not a participant".
	GetParticipation(ctx context.Context, playerID, editionID int) (*models.Participation, error)
	ListParticipationsByEditions(ctx context.Context, editionIDs []int) ([]models.Participation, error)
}

type postgresParticipationRepository struct {
	db *sql.DB
}

func NewPostgresParticipationRepository(db *sql.DB) ParticipationRepository {
	return &postgresParticipationRepository{db: db}
}

const participationColumns = `id, player_id, league_id, initial_rating, score, tie_break`

func (r *postgresParticipationRepository) GetParticipation(ctx context.Context, playerID, editionID int) (*models.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE player_id = $1 AND league_id = $2`
	var p models.Participation
	err := r.db.QueryRowContext(ctx, query, playerID, editionID).Scan(
		&p.ID, &p.PlayerID, &p.LeagueID, &p.InitialRating, &p.Score, &p.TieBreak,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participation (%d, %d): %w", playerID, editionID, err)
	}
	return &p, nil
}

func (r *postgresParticipationRepository) ListParticipationsByEditions(ctx context.Context, editionIDs []int) ([]models.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM participations
		WHERE league_id = ANY($1)
		ORDER BY player_id, league_id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(editionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	var parts []models.Participation
	for rows.Next() {
		var p models.Participation
		err := rows.Scan(&p.ID, &p.PlayerID, &p.LeagueID, &p.InitialRating, &p.Score, &p.TieBreak)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating participations: %w", err)
	}
	return parts, nil
}
