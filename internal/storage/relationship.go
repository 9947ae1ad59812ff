package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/paperweave/paperweave/pkg/models"
)

// Relationship represents an explicit, user-authored link between two
// documents in the same collection.
type Relationship struct {
	ID           uuid.UUID
	CollectionID uuid.UUID
	SourceID     uuid.UUID
	TargetID     uuid.UUID
	Note         string
	CreatedAt    time.Time
}

// Model converts the storage row into the engine's snapshot type.
func (r *Relationship) Model() models.Relationship {
	return models.Relationship{
		ID:       r.ID.String(),
		SourceID: r.SourceID.String(),
		TargetID: r.TargetID.String(),
		Note:     r.Note,
	}
}

// RelationshipRepository defines the interface for relationship storage operations
type RelationshipRepository interface {
	Create(ctx context.Context, relationship *Relationship) error
	GetByID(ctx context.Context, id uuid.UUID) (*Relationship, error)
	GetByCollectionID(ctx context.Context, collectionID uuid.UUID) ([]*Relationship, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error
	DeleteByCollectionID(ctx context.Context, collectionID uuid.UUID) error
}

// PostgresRelationshipRepository implements RelationshipRepository using PostgreSQL
type PostgresRelationshipRepository struct {
	db *sql.DB
}

// NewPostgresRelationshipRepository creates a new PostgresRelationshipRepository
func NewPostgresRelationshipRepository(db *sql.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

// Create inserts a new relationship into the database
func (r *PostgresRelationshipRepository) Create(ctx context.Context, relationship *Relationship) error {
	if relationship.ID == uuid.Nil {
		relationship.ID = uuid.New()
	}
	if relationship.CreatedAt.IsZero() {
		relationship.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO relationships (id, collection_id, source_id, target_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		relationship.ID,
		relationship.CollectionID,
		relationship.SourceID,
		relationship.TargetID,
		relationship.Note,
		relationship.CreatedAt,
	)

	return err
}

// GetByID retrieves a relationship by its ID
func (r *PostgresRelationshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*Relationship, error) {
	query := `
		SELECT id, collection_id, source_id, target_id, note, created_at
		FROM relationships
		WHERE id = $1
	`

	relationship := &Relationship{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&relationship.ID,
		&relationship.CollectionID,
		&relationship.SourceID,
		&relationship.TargetID,
		&relationship.Note,
		&relationship.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return relationship, nil
}

// GetByCollectionID retrieves all relationships in a collection
func (r *PostgresRelationshipRepository) GetByCollectionID(ctx context.Context, collectionID uuid.UUID) ([]*Relationship, error) {
	query := `
		SELECT id, collection_id, source_id, target_id, note, created_at
		FROM relationships
		WHERE collection_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relationships []*Relationship
	for rows.Next() {
		relationship := &Relationship{}
		err := rows.Scan(
			&relationship.ID,
			&relationship.CollectionID,
			&relationship.SourceID,
			&relationship.TargetID,
			&relationship.Note,
			&relationship.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		relationships = append(relationships, relationship)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return relationships, nil
}

// Delete removes a relationship from the database
func (r *PostgresRelationshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM relationships WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteByDocumentID removes all relationships touching a document
func (r *PostgresRelationshipRepository) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	query := `DELETE FROM relationships WHERE source_id = $1 OR target_id = $1`
	_, err := r.db.ExecContext(ctx, query, documentID)
	return err
}

// DeleteByCollectionID removes all relationships in a collection
func (r *PostgresRelationshipRepository) DeleteByCollectionID(ctx context.Context, collectionID uuid.UUID) error {
	query := `DELETE FROM relationships WHERE collection_id = $1`
	_, err := r.db.ExecContext(ctx, query, collectionID)
	return err
}
