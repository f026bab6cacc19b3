package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrTitleConflict is returned by RenameDocument when the caller supplied an
// expected current title and the stored title differs.
var ErrTitleConflict = errors.New("stored title does not match expected title")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error so mutations never leave partial writes.
func (s *PostgresStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ── Users ──

func (s *PostgresStore) CreateUser(ctx context.Context, user User) (User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, user.Email, user.Username, user.PasswordHash, user.Role).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users
		WHERE email=$1
	`, email).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID int64) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users
		WHERE id=$1
	`, userID).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) UpdateUserRole(ctx context.Context, email, role string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET role=$2 WHERE email=$1`, email, role)
	if err != nil {
		return false, fmt.Errorf("update user role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update user role rows: %w", err)
	}
	return affected > 0, nil
}

// ── Documents ──

// InsertDocument persists a document row together with its tag links and
// permission rows in one transaction.
func (s *PostgresStore) InsertDocument(ctx context.Context, doc Document, tags, permissions []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (document_id, title, uploaded_by, folder_id, object_key, content_type)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, doc.ID, doc.Title, doc.UploadedBy, doc.FolderID, doc.ObjectKey, doc.ContentType); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		if err := linkTags(ctx, tx, doc.ID, tags); err != nil {
			return err
		}
		return grantPermissions(ctx, tx, doc.ID, permissions)
	})
}

func linkTags(ctx context.Context, tx *sql.Tx, documentID string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tags (tag_name) VALUES ($1)
			ON CONFLICT (tag_name) DO NOTHING
		`, tag); err != nil {
			return fmt.Errorf("ensure tag %q: %w", tag, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document_tags (document_id, tag_id)
			SELECT $1, tag_id FROM tags WHERE tag_name=$2
			ON CONFLICT (document_id, tag_id) DO NOTHING
		`, documentID, tag); err != nil {
			return fmt.Errorf("link tag %q: %w", tag, err)
		}
	}
	return nil
}

func grantPermissions(ctx context.Context, tx *sql.Tx, documentID string, emails []string) error {
	for _, email := range emails {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO permissions (document_id, user_email)
			VALUES ($1, $2)
			ON CONFLICT (document_id, user_email) DO NOTHING
		`, documentID, email); err != nil {
			return fmt.Errorf("grant permission %q: %w", email, err)
		}
	}
	return nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, documentID string) (Document, error) {
	var doc Document
	err := s.db.QueryRowContext(ctx, `
		SELECT document_id, title, uploaded_by, folder_id, object_key, content_type, last_updated
		FROM documents
		WHERE document_id=$1
	`, documentID).Scan(&doc.ID, &doc.Title, &doc.UploadedBy, &doc.FolderID, &doc.ObjectKey, &doc.ContentType, &doc.LastUpdated)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *PostgresStore) GetDocumentMeta(ctx context.Context, documentID string) (DocumentMeta, error) {
	var meta DocumentMeta
	err := s.db.QueryRowContext(ctx, `
		SELECT d.document_id, d.title, d.uploaded_by, d.folder_id, d.object_key, d.content_type, d.last_updated,
			f.folder_name, u.email
		FROM documents d
		JOIN users u ON u.id = d.uploaded_by
		LEFT JOIN folders f ON f.folder_id = d.folder_id
		WHERE d.document_id=$1
	`, documentID).Scan(
		&meta.ID,
		&meta.Title,
		&meta.UploadedBy,
		&meta.FolderID,
		&meta.ObjectKey,
		&meta.ContentType,
		&meta.LastUpdated,
		&meta.FolderName,
		&meta.UploaderEmail,
	)
	if err != nil {
		return DocumentMeta{}, err
	}

	tagsByDoc, err := s.tagsForDocuments(ctx, []string{documentID})
	if err != nil {
		return DocumentMeta{}, err
	}
	permsByDoc, err := s.permissionsForDocuments(ctx, []string{documentID})
	if err != nil {
		return DocumentMeta{}, err
	}
	meta.Tags = nonNilStrings(tagsByDoc[documentID])
	meta.Permissions = nonNilStrings(permsByDoc[documentID])
	return meta, nil
}

// UpdateDocumentMeta applies a partial metadata patch: nil fields are left
// unchanged, non-nil tag/permission sets fully replace the stored sets.
func (s *PostgresStore) UpdateDocumentMeta(ctx context.Context, documentID string, title *string, tags, permissions []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM documents WHERE document_id=$1 FOR UPDATE)
		`, documentID).Scan(&exists); err != nil {
			return fmt.Errorf("lock document: %w", err)
		}
		if !exists {
			return sql.ErrNoRows
		}

		if title != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE documents SET title=$2 WHERE document_id=$1
			`, documentID, *title); err != nil {
				return fmt.Errorf("update title: %w", err)
			}
		}
		if tags != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM document_tags WHERE document_id=$1`, documentID); err != nil {
				return fmt.Errorf("clear tags: %w", err)
			}
			if err := linkTags(ctx, tx, documentID, tags); err != nil {
				return err
			}
		}
		if permissions != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM permissions WHERE document_id=$1`, documentID); err != nil {
				return fmt.Errorf("clear permissions: %w", err)
			}
			if err := grantPermissions(ctx, tx, documentID, permissions); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE documents SET last_updated=NOW() WHERE document_id=$1`, documentID); err != nil {
			return fmt.Errorf("touch document: %w", err)
		}
		return nil
	})
}

// RenameDocument updates the title. When expectedTitle is non-nil the stored
// title must match it exactly or ErrTitleConflict is returned.
func (s *PostgresStore) RenameDocument(ctx context.Context, documentID string, expectedTitle *string, newTitle string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var stored string
		err := tx.QueryRowContext(ctx, `
			SELECT title FROM documents WHERE document_id=$1 FOR UPDATE
		`, documentID).Scan(&stored)
		if err != nil {
			return err
		}
		if expectedTitle != nil && stored != *expectedTitle {
			return ErrTitleConflict
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE documents SET title=$2, last_updated=NOW() WHERE document_id=$1
		`, documentID, newTitle); err != nil {
			return fmt.Errorf("rename document: %w", err)
		}
		return nil
	})
}

// DeleteDocument removes the document row and returns the deleted row so the
// caller can clean up the backing blob. Tag links, permissions, and comments
// cascade; activity logs are retained as audit history.
func (s *PostgresStore) DeleteDocument(ctx context.Context, documentID string) (Document, error) {
	var doc Document
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT document_id, title, uploaded_by, folder_id, object_key, content_type, last_updated
			FROM documents
			WHERE document_id=$1
			FOR UPDATE
		`, documentID).Scan(&doc.ID, &doc.Title, &doc.UploadedBy, &doc.FolderID, &doc.ObjectKey, &doc.ContentType, &doc.LastUpdated)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE document_id=$1`, documentID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ListDocumentListings returns every document joined with uploader email and
// folder, each with its tag names and comment thread. One batched query per
// relation, merged in memory; ordering is document_id ascending.
func (s *PostgresStore) ListDocumentListings(ctx context.Context) ([]DocumentListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.document_id, d.title, d.folder_id, f.folder_name, u.email
		FROM documents d
		JOIN users u ON u.id = d.uploaded_by
		LEFT JOIN folders f ON f.folder_id = d.folder_id
		ORDER BY d.document_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	items := make([]DocumentListing, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var item DocumentListing
		if err := rows.Scan(&item.ID, &item.Title, &item.FolderID, &item.FolderName, &item.UploaderEmail); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, item)
		ids = append(ids, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	tagsByDoc, err := s.tagsForDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentsByDoc, err := s.commentsForDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Tags = nonNilStrings(tagsByDoc[items[i].ID])
		items[i].Comments = commentsByDoc[items[i].ID]
		if items[i].Comments == nil {
			items[i].Comments = []Comment{}
		}
	}
	return items, nil
}

// SearchDocuments matches the query as a case-insensitive substring of the
// title, a tag name, the uploader email, or the document id, and aggregates
// tag and permission sets per matching document.
func (s *PostgresStore) SearchDocuments(ctx context.Context, query string) ([]SearchHit, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT d.document_id, d.title, u.email, d.folder_id, f.folder_name
		FROM documents d
		JOIN users u ON u.id = d.uploaded_by
		LEFT JOIN folders f ON f.folder_id = d.folder_id
		LEFT JOIN document_tags dt ON dt.document_id = d.document_id
		LEFT JOIN tags t ON t.tag_id = dt.tag_id
		WHERE d.title ILIKE $1
		   OR t.tag_name ILIKE $1
		   OR u.email ILIKE $1
		   OR d.document_id ILIKE $1
		ORDER BY d.document_id ASC
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	hits := make([]SearchHit, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var hit SearchHit
		if err := rows.Scan(&hit.DocumentID, &hit.Title, &hit.UploaderEmail, &hit.FolderID, &hit.FolderName); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, hit)
		ids = append(ids, hit.DocumentID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search hits: %w", err)
	}
	if len(hits) == 0 {
		return hits, nil
	}

	tagsByDoc, err := s.tagsForDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}
	permsByDoc, err := s.permissionsForDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range hits {
		hits[i].Tags = nonNilStrings(tagsByDoc[hits[i].DocumentID])
		hits[i].Permissions = nonNilStrings(permsByDoc[hits[i].DocumentID])
	}
	return hits, nil
}

func (s *PostgresStore) DocumentExists(ctx context.Context, documentID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM documents WHERE document_id=$1)`, documentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check document: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) tagsForDocuments(ctx context.Context, documentIDs []string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dt.document_id, t.tag_name
		FROM document_tags dt
		JOIN tags t ON t.tag_id = dt.tag_id
		WHERE dt.document_id = ANY($1)
		ORDER BY dt.document_id ASC, t.tag_name ASC
	`, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	byDoc := make(map[string][]string)
	for rows.Next() {
		var documentID, tag string
		if err := rows.Scan(&documentID, &tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		byDoc[documentID] = append(byDoc[documentID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return byDoc, nil
}

func (s *PostgresStore) permissionsForDocuments(ctx context.Context, documentIDs []string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, user_email
		FROM permissions
		WHERE document_id = ANY($1)
		ORDER BY document_id ASC, user_email ASC
	`, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	defer rows.Close()

	byDoc := make(map[string][]string)
	for rows.Next() {
		var documentID, email string
		if err := rows.Scan(&documentID, &email); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		byDoc[documentID] = append(byDoc[documentID], email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}
	return byDoc, nil
}

func (s *PostgresStore) commentsForDocuments(ctx context.Context, documentIDs []string) (map[string][]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, user_email, comment_text, created_at
		FROM comments
		WHERE document_id = ANY($1)
		ORDER BY document_id ASC, created_at ASC
	`, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()

	byDoc := make(map[string][]Comment)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.UserEmail, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		byDoc[c.DocumentID] = append(byDoc[c.DocumentID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return byDoc, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// ── Folders ──

func (s *PostgresStore) CreateFolder(ctx context.Context, name string, createdBy int64) (Folder, error) {
	folder := Folder{Name: name, CreatedBy: createdBy}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO folders (folder_name, created_by)
		VALUES ($1, $2)
		RETURNING folder_id
	`, name, createdBy).Scan(&folder.ID)
	if err != nil {
		return Folder{}, fmt.Errorf("insert folder: %w", err)
	}
	return folder, nil
}

// DeleteFolder removes the folder; documents inside it keep existing with a
// cleared folder reference (FK ON DELETE SET NULL).
func (s *PostgresStore) DeleteFolder(ctx context.Context, folderID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE folder_id=$1`, folderID)
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete folder rows: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) RenameFolder(ctx context.Context, folderID int64, newName string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE folders SET folder_name=$2 WHERE folder_id=$1`, folderID, newName)
	if err != nil {
		return false, fmt.Errorf("rename folder: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rename folder rows: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) ListFolders(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT folder_id, folder_name, created_by
		FROM folders
		ORDER BY folder_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	items := make([]Folder, 0)
	for rows.Next() {
		var item Folder
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetFolder(ctx context.Context, folderID int64) (Folder, error) {
	var folder Folder
	err := s.db.QueryRowContext(ctx, `
		SELECT folder_id, folder_name, created_by
		FROM folders
		WHERE folder_id=$1
	`, folderID).Scan(&folder.ID, &folder.Name, &folder.CreatedBy)
	if err != nil {
		return Folder{}, err
	}
	return folder, nil
}

// FindFolderByName resolves a folder name to a folder. Names are not unique;
// the lowest folder_id wins among duplicates.
func (s *PostgresStore) FindFolderByName(ctx context.Context, name string) (Folder, error) {
	var folder Folder
	err := s.db.QueryRowContext(ctx, `
		SELECT folder_id, folder_name, created_by
		FROM folders
		WHERE folder_name=$1
		ORDER BY folder_id ASC
		LIMIT 1
	`, name).Scan(&folder.ID, &folder.Name, &folder.CreatedBy)
	if err != nil {
		return Folder{}, err
	}
	return folder, nil
}

func (s *PostgresStore) ListFolderDocumentTitles(ctx context.Context, folderID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title FROM documents WHERE folder_id=$1 ORDER BY document_id ASC
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder documents: %w", err)
	}
	defer rows.Close()

	titles := make([]string, 0)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan folder document: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder documents: %w", err)
	}
	return titles, nil
}

// ListFoldersWithDocuments returns every folder paired with everything it
// contains, using one batched titles query instead of one per folder.
func (s *PostgresStore) ListFoldersWithDocuments(ctx context.Context) ([]FolderDocuments, error) {
	folders, err := s.ListFolders(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]FolderDocuments, 0, len(folders))
	if len(folders) == 0 {
		return items, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT folder_id, title
		FROM documents
		WHERE folder_id IS NOT NULL
		ORDER BY folder_id ASC, document_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list folder contents: %w", err)
	}
	defer rows.Close()

	titlesByFolder := make(map[int64][]string)
	for rows.Next() {
		var folderID int64
		var title string
		if err := rows.Scan(&folderID, &title); err != nil {
			return nil, fmt.Errorf("scan folder content: %w", err)
		}
		titlesByFolder[folderID] = append(titlesByFolder[folderID], title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder contents: %w", err)
	}

	for _, folder := range folders {
		titles := titlesByFolder[folder.ID]
		if titles == nil {
			titles = []string{}
		}
		items = append(items, FolderDocuments{Folder: folder, Titles: titles})
	}
	return items, nil
}

// ── Comments ──

func (s *PostgresStore) InsertComment(ctx context.Context, comment Comment) (Comment, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (document_id, user_email, comment_text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, comment.DocumentID, comment.UserEmail, comment.Text).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

// ── Activity logs ──

func (s *PostgresStore) InsertActivityLog(ctx context.Context, entry ActivityLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, document_id, action)
		VALUES ($1, $2, $3)
	`, entry.UserID, entry.DocumentID, entry.Action)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActivityLogs(ctx context.Context) ([]ActivityLog, error) {
	return s.queryActivityLogs(ctx, `
		SELECT id, user_id, document_id, action, created_at
		FROM activity_logs
		ORDER BY created_at ASC, id ASC
	`)
}

// ListDocumentActivityLogs returns only entries bearing a document reference.
func (s *PostgresStore) ListDocumentActivityLogs(ctx context.Context) ([]ActivityLog, error) {
	return s.queryActivityLogs(ctx, `
		SELECT id, user_id, document_id, action, created_at
		FROM activity_logs
		WHERE document_id IS NOT NULL
		ORDER BY created_at ASC, id ASC
	`)
}

// ListUserActivityLogs returns all entries grouped by the acting user.
func (s *PostgresStore) ListUserActivityLogs(ctx context.Context) ([]ActivityLog, error) {
	return s.queryActivityLogs(ctx, `
		SELECT id, user_id, document_id, action, created_at
		FROM activity_logs
		ORDER BY user_id ASC, created_at ASC, id ASC
	`)
}

func (s *PostgresStore) queryActivityLogs(ctx context.Context, query string) ([]ActivityLog, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	items := make([]ActivityLog, 0)
	for rows.Next() {
		var item ActivityLog
		if err := rows.Scan(&item.ID, &item.UserID, &item.DocumentID, &item.Action, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity logs: %w", err)
	}
	return items, nil
}
