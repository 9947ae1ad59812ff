package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/paperweave/paperweave/pkg/models"
)

// Document represents a paper in a collection. Year is NULL when unknown.
type Document struct {
	ID           uuid.UUID
	CollectionID uuid.UUID
	Title        string
	Abstract     string
	Tags         []string
	Year         sql.NullInt64
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Model converts the storage row into the engine's read-only snapshot type.
func (d *Document) Model() models.Document {
	doc := models.Document{
		ID:           d.ID.String(),
		CollectionID: d.CollectionID.String(),
		Title:        d.Title,
		Abstract:     d.Abstract,
		Tags:         d.Tags,
		Role:         models.Role(d.Role),
	}
	if d.Year.Valid {
		year := int(d.Year.Int64)
		doc.Year = &year
	}
	return doc
}

// DocumentRepository defines the interface for document storage operations
type DocumentRepository interface {
	Create(ctx context.Context, document *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetByCollectionID(ctx context.Context, collectionID uuid.UUID) ([]*Document, error)
	Update(ctx context.Context, document *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCollectionID(ctx context.Context, collectionID uuid.UUID) error
}

// PostgresDocumentRepository implements DocumentRepository using PostgreSQL
type PostgresDocumentRepository struct {
	db *sql.DB
}

// NewPostgresDocumentRepository creates a new PostgresDocumentRepository
func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// Create inserts a new document into the database
func (r *PostgresDocumentRepository) Create(ctx context.Context, document *Document) error {
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}

	now := time.Now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	if document.UpdatedAt.IsZero() {
		document.UpdatedAt = now
	}

	query := `
		INSERT INTO documents (id, collection_id, title, abstract, tags, year, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		document.ID,
		document.CollectionID,
		document.Title,
		document.Abstract,
		pq.Array(document.Tags),
		document.Year,
		document.Role,
		document.CreatedAt,
		document.UpdatedAt,
	)

	return err
}

// GetByID retrieves a document by its ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	query := `
		SELECT id, collection_id, title, abstract, tags, year, role, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	document := &Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&document.ID,
		&document.CollectionID,
		&document.Title,
		&document.Abstract,
		pq.Array(&document.Tags),
		&document.Year,
		&document.Role,
		&document.CreatedAt,
		&document.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return document, nil
}

// GetByCollectionID retrieves all documents in a collection
func (r *PostgresDocumentRepository) GetByCollectionID(ctx context.Context, collectionID uuid.UUID) ([]*Document, error) {
	query := `
		SELECT id, collection_id, title, abstract, tags, year, role, created_at, updated_at
		FROM documents
		WHERE collection_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*Document
	for rows.Next() {
		document := &Document{}
		err := rows.Scan(
			&document.ID,
			&document.CollectionID,
			&document.Title,
			&document.Abstract,
			pq.Array(&document.Tags),
			&document.Year,
			&document.Role,
			&document.CreatedAt,
			&document.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return documents, nil
}

// Update modifies an existing document
func (r *PostgresDocumentRepository) Update(ctx context.Context, document *Document) error {
	document.UpdatedAt = time.Now()

	query := `
		UPDATE documents
		SET title = $2, abstract = $3, tags = $4, year = $5, role = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		document.ID,
		document.Title,
		document.Abstract,
		pq.Array(document.Tags),
		document.Year,
		document.Role,
		document.UpdatedAt,
	)

	return err
}

// Delete removes a document from the database
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteByCollectionID removes all documents in a collection
func (r *PostgresDocumentRepository) DeleteByCollectionID(ctx context.Context, collectionID uuid.UUID) error {
	query := `DELETE FROM documents WHERE collection_id = $1`
	_, err := r.db.ExecContext(ctx, query, collectionID)
	return err
}
