package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"reflect"
	"testing"
)

// TestUpdateDocumentMetaPartialPatch verifies that a patch carrying only a
// tag set replaces the tags while leaving the title and permissions as they
// were stored.
func TestUpdateDocumentMetaPartialPatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db := openTestStore(t, ctx)
	defer db.Close()

	store := NewPostgresStore(db)
	userID := createTestUser(t, ctx, db, "meta-patch@example.com")
	defer cleanupTestRows(ctx, db, "doc-meta-patch", userID)

	doc := Document{
		ID:          "doc-meta-patch",
		Title:       "Quarterly Report",
		UploadedBy:  userID,
		ObjectKey:   "blobs/meta-patch",
		ContentType: "application/pdf",
	}
	if err := store.InsertDocument(ctx, doc, []string{"finance", "q1"}, []string{"reader@example.com"}); err != nil {
		t.Fatalf("insert document: %v", err)
	}

	// Patch only the tags; title and permissions stay nil.
	if err := store.UpdateDocumentMeta(ctx, doc.ID, nil, []string{"budget"}, nil); err != nil {
		t.Fatalf("update document meta: %v", err)
	}

	meta, err := store.GetDocumentMeta(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get document meta: %v", err)
	}
	if meta.Title != "Quarterly Report" {
		t.Fatalf("title changed by tag-only patch: %q", meta.Title)
	}
	if !reflect.DeepEqual(meta.Tags, []string{"budget"}) {
		t.Fatalf("unexpected tags after patch: %v", meta.Tags)
	}
	if !reflect.DeepEqual(meta.Permissions, []string{"reader@example.com"}) {
		t.Fatalf("permissions changed by tag-only patch: %v", meta.Permissions)
	}
}

// TestUpdateDocumentMetaUnknownDocument verifies patching a missing document
// surfaces sql.ErrNoRows rather than silently succeeding.
func TestUpdateDocumentMetaUnknownDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db := openTestStore(t, ctx)
	defer db.Close()

	store := NewPostgresStore(db)
	err := store.UpdateDocumentMeta(ctx, "doc-does-not-exist", nil, []string{"tag"}, nil)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got: %v", err)
	}
}

// TestRenameDocumentExpectedTitle verifies the optimistic rename: a stale
// expected title conflicts, the stored title goes through.
func TestRenameDocumentExpectedTitle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db := openTestStore(t, ctx)
	defer db.Close()

	store := NewPostgresStore(db)
	userID := createTestUser(t, ctx, db, "rename-check@example.com")
	defer cleanupTestRows(ctx, db, "doc-rename-check", userID)

	doc := Document{
		ID:          "doc-rename-check",
		Title:       "Draft",
		UploadedBy:  userID,
		ObjectKey:   "blobs/rename-check",
		ContentType: "text/plain",
	}
	if err := store.InsertDocument(ctx, doc, nil, nil); err != nil {
		t.Fatalf("insert document: %v", err)
	}

	stale := "Draft v2"
	err := store.RenameDocument(ctx, doc.ID, &stale, "Final")
	if !errors.Is(err, ErrTitleConflict) {
		t.Fatalf("expected ErrTitleConflict for stale title, got: %v", err)
	}

	current := "Draft"
	if err := store.RenameDocument(ctx, doc.ID, &current, "Final"); err != nil {
		t.Fatalf("rename with matching title: %v", err)
	}

	renamed, err := store.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if renamed.Title != "Final" {
		t.Fatalf("unexpected title after rename: %q", renamed.Title)
	}
}

func openTestStore(t *testing.T, ctx context.Context) *sql.DB {
	t.Helper()

	db, err := Open(ctx, getTestDatabaseURL(t), 5)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := ApplyMigrations(ctx, db, "../../db/migrations"); err != nil {
		db.Close()
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, ctx context.Context, db *sql.DB, email string) int64 {
	t.Helper()

	// Earlier aborted runs may have left the row behind.
	_, _ = db.ExecContext(ctx, `DELETE FROM users WHERE email=$1`, email)

	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash, role)
		VALUES ($1, $2, 'x', 'editor')
		RETURNING id
	`, email, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert test user: %v", err)
	}
	return id
}

func cleanupTestRows(ctx context.Context, db *sql.DB, documentID string, userID int64) {
	_, _ = db.ExecContext(ctx, `DELETE FROM activity_logs WHERE user_id=$1`, userID)
	_, _ = db.ExecContext(ctx, `DELETE FROM documents WHERE document_id=$1`, documentID)
	_, _ = db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, userID)
}

// getTestDatabaseURL returns the database URL for integration tests.
// It checks the TEST_DATABASE_URL environment variable first, then falls
// back to the standard Postgres environment variables.
func getTestDatabaseURL(t *testing.T) string {
	t.Helper()

	if url := testenv("TEST_DATABASE_URL", ""); url != "" {
		return url
	}

	host := testenv("POSTGRES_HOST", "localhost")
	port := testenv("POSTGRES_PORT", "5432")
	user := testenv("POSTGRES_USER", "docuvault")
	pass := testenv("POSTGRES_PASSWORD", "docuvault")
	dbname := testenv("POSTGRES_DB", "docuvault_test")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + dbname + "?sslmode=disable"
}

func testenv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
