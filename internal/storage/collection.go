package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Collection represents a personal research collection
type Collection struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CollectionRepository defines the interface for collection storage operations
type CollectionRepository interface {
	Create(ctx context.Context, collection *Collection) error
	GetByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Collection, error)
	Update(ctx context.Context, collection *Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresCollectionRepository implements CollectionRepository using PostgreSQL
type PostgresCollectionRepository struct {
	db *sql.DB
}

// NewPostgresCollectionRepository creates a new PostgresCollectionRepository
func NewPostgresCollectionRepository(db *sql.DB) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{db: db}
}

// Create inserts a new collection into the database
func (r *PostgresCollectionRepository) Create(ctx context.Context, collection *Collection) error {
	if collection.ID == uuid.Nil {
		collection.ID = uuid.New()
	}

	now := time.Now()
	if collection.CreatedAt.IsZero() {
		collection.CreatedAt = now
	}
	if collection.UpdatedAt.IsZero() {
		collection.UpdatedAt = now
	}

	query := `
		INSERT INTO collections (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		collection.ID,
		collection.UserID,
		collection.Name,
		collection.CreatedAt,
		collection.UpdatedAt,
	)

	return err
}

// GetByID retrieves a collection by its ID
func (r *PostgresCollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Collection, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM collections
		WHERE id = $1
	`

	collection := &Collection{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&collection.ID,
		&collection.UserID,
		&collection.Name,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return collection, nil
}

// GetByUserID retrieves all collections for a specific user
func (r *PostgresCollectionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Collection, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM collections
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*Collection
	for rows.Next() {
		collection := &Collection{}
		err := rows.Scan(
			&collection.ID,
			&collection.UserID,
			&collection.Name,
			&collection.CreatedAt,
			&collection.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		collections = append(collections, collection)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return collections, nil
}

// Update modifies an existing collection
func (r *PostgresCollectionRepository) Update(ctx context.Context, collection *Collection) error {
	collection.UpdatedAt = time.Now()

	query := `
		UPDATE collections
		SET name = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		collection.ID,
		collection.Name,
		collection.UpdatedAt,
	)

	return err
}

// Delete removes a collection from the database
func (r *PostgresCollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM collections WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
