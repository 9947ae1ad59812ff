package feedback

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/paperweave/paperweave/pkg/models"
)

// Repository defines the interface for decision persistence
type Repository interface {
	Create(ctx context.Context, decision *Decision) error
	GetByCollectionID(ctx context.Context, collectionID string) ([]Decision, error)
	DeleteByCollectionID(ctx context.Context, collectionID string) error
}

// PostgresRepository implements Repository using PostgreSQL. The signal
// breakdown is stored as a pgvector vector(5) in the fixed order tag, text,
// year, role, connection.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgresRepository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new decision into the database
func (r *PostgresRepository) Create(ctx context.Context, decision *Decision) error {
	if decision.ID == "" {
		decision.ID = uuid.New().String()
	}
	if decision.CreatedAt.IsZero() {
		decision.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO feedback_decisions (id, collection_id, edge_id, source_id, target_id, accepted, breakdown, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		decision.ID,
		decision.CollectionID,
		decision.EdgeID,
		decision.SourceID,
		decision.TargetID,
		decision.Accepted,
		breakdownVector(decision.Breakdown),
		decision.CreatedAt,
	)

	return err
}

// GetByCollectionID retrieves all decisions for a collection, oldest first
func (r *PostgresRepository) GetByCollectionID(ctx context.Context, collectionID string) ([]Decision, error) {
	query := `
		SELECT id, collection_id, edge_id, source_id, target_id, accepted, breakdown, created_at
		FROM feedback_decisions
		WHERE collection_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var decision Decision
		var breakdown pgvector.Vector
		err := rows.Scan(
			&decision.ID,
			&decision.CollectionID,
			&decision.EdgeID,
			&decision.SourceID,
			&decision.TargetID,
			&decision.Accepted,
			&breakdown,
			&decision.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		decision.Breakdown = vectorBreakdown(breakdown)
		decisions = append(decisions, decision)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return decisions, nil
}

// DeleteByCollectionID removes all decisions for a collection
func (r *PostgresRepository) DeleteByCollectionID(ctx context.Context, collectionID string) error {
	query := `DELETE FROM feedback_decisions WHERE collection_id = $1`
	_, err := r.db.ExecContext(ctx, query, collectionID)
	return err
}

func breakdownVector(b models.Breakdown) pgvector.Vector {
	return pgvector.NewVector([]float32{
		float32(b.Tag),
		float32(b.Text),
		float32(b.Year),
		float32(b.Role),
		float32(b.Connection),
	})
}

func vectorBreakdown(v pgvector.Vector) models.Breakdown {
	s := v.Slice()
	if len(s) != 5 {
		return models.Breakdown{}
	}
	return models.Breakdown{
		Tag:        float64(s[0]),
		Text:       float64(s[1]),
		Year:       float64(s[2]),
		Role:       float64(s[3]),
		Connection: float64(s[4]),
	}
}
