package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestPostgresRelationshipRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRelationshipRepository(db)

	relationship := &Relationship{
		CollectionID: uuid.New(),
		SourceID:     uuid.New(),
		TargetID:     uuid.New(),
		Note:         "extends the sampling method",
	}

	mock.ExpectExec("INSERT INTO relationships").
		WithArgs(sqlmock.AnyArg(), relationship.CollectionID, relationship.SourceID, relationship.TargetID, relationship.Note, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), relationship)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if relationship.ID == uuid.Nil {
		t.Error("expected relationship ID to be generated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRelationshipRepository_GetByCollectionID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRelationshipRepository(db)

	collectionID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "collection_id", "source_id", "target_id", "note", "created_at"}).
		AddRow(uuid.New().String(), collectionID.String(), uuid.New().String(), uuid.New().String(), "supports claim 2", now)

	mock.ExpectQuery("SELECT id, collection_id, source_id, target_id, note, created_at FROM relationships").
		WithArgs(collectionID).
		WillReturnRows(rows)

	relationships, err := repo.GetByCollectionID(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(relationships))
	}
	if relationships[0].Note != "supports claim 2" {
		t.Errorf("note = %q, want %q", relationships[0].Note, "supports claim 2")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRelationshipRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRelationshipRepository(db)

	id := uuid.New()

	mock.ExpectQuery("SELECT id, collection_id, source_id, target_id, note, created_at FROM relationships").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	relationship, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Errorf("expected no error for missing relationship, got %v", err)
	}
	if relationship != nil {
		t.Errorf("expected nil relationship, got %+v", relationship)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRelationshipRepository_DeleteByDocumentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRelationshipRepository(db)

	documentID := uuid.New()

	mock.ExpectExec("DELETE FROM relationships").
		WithArgs(documentID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = repo.DeleteByDocumentID(context.Background(), documentID)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
