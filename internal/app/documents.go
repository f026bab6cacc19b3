package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"docuvault/api/internal/search"
	"docuvault/api/internal/store"
	"docuvault/api/internal/util"
)

// MetadataView is the JSON shape for a single document's metadata.
type MetadataView struct {
	DocumentID  string   `json:"document_id"`
	Title       string   `json:"title"`
	FolderName  *string  `json:"folder_name"`
	Tags        []string `json:"tags"`
	UploadedBy  string   `json:"uploaded_by"`
	Permissions []string `json:"permissions"`
	LastUpdated string   `json:"last_updated"`
}

// CommentView is one comment in a listing's thread.
type CommentView struct {
	CommentText string `json:"comment_text"`
	UserEmail   string `json:"user_email"`
	Timestamp   string `json:"timestamp"`
}

// ListingView is one row of the file-explorer listing.
type ListingView struct {
	DocumentID string        `json:"document_id"`
	Title      string        `json:"title"`
	FolderID   *int64        `json:"folder_id"`
	FolderName *string       `json:"folder_name"`
	Tags       []string      `json:"tags"`
	UploadedBy string        `json:"uploaded_by"`
	Comments   []CommentView `json:"comments"`
}

// SearchHitView is one aggregated search result.
type SearchHitView struct {
	DocumentID  string   `json:"document_id"`
	Title       string   `json:"title"`
	UploadedBy  string   `json:"uploaded_by"`
	FolderID    *int64   `json:"folder_id"`
	FolderName  *string  `json:"folder_name"`
	Tags        []string `json:"tags"`
	Permissions []string `json:"permissions"`
}

const timestampLayout = "2006-01-02 15:04:05"

func metadataView(meta store.DocumentMeta) MetadataView {
	return MetadataView{
		DocumentID:  meta.ID,
		Title:       meta.Title,
		FolderName:  meta.FolderName,
		Tags:        meta.Tags,
		UploadedBy:  meta.UploaderEmail,
		Permissions: meta.Permissions,
		LastUpdated: meta.LastUpdated.Format(timestampLayout),
	}
}

// UploadInput carries one multipart upload.
type UploadInput struct {
	Title       string
	Tags        []string
	Permissions []string
	FolderName  string // optional; resolved by name, 404 when unresolved
	FolderID    *int64 // pre-resolved for folder-scoped uploads
	File        io.Reader
	Size        int64
	ContentType string
}

// UploadDocument stores the content blob, then the document row with its
// tags and permissions in one transaction, logs the activity, and indexes
// the new document for search.
func (s *Service) UploadDocument(ctx context.Context, session Session, in UploadInput) (MetadataView, error) {
	if strings.TrimSpace(in.Title) == "" {
		return MetadataView{}, validationError("title cannot be empty")
	}

	folderID := in.FolderID
	if folderID == nil && in.FolderName != "" {
		folder, err := s.store.FindFolderByName(ctx, in.FolderName)
		if errors.Is(err, sql.ErrNoRows) {
			return MetadataView{}, notFound("Folder not found")
		}
		if err != nil {
			return MetadataView{}, fmt.Errorf("resolve folder: %w", err)
		}
		folderID = &folder.ID
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey, err := s.blobs.Put(ctx, in.File, in.Size, contentType)
	if err != nil {
		return MetadataView{}, fmt.Errorf("store content: %w", err)
	}

	doc := store.Document{
		ID:          util.NewID("doc"),
		Title:       in.Title,
		UploadedBy:  session.UserID,
		FolderID:    folderID,
		ObjectKey:   objectKey,
		ContentType: contentType,
		LastUpdated: time.Now(),
	}
	if err := s.store.InsertDocument(ctx, doc, in.Tags, in.Permissions); err != nil {
		// The blob is orphaned if the row insert fails; remove it so storage
		// does not accumulate unreferenced objects.
		if removeErr := s.blobs.Remove(ctx, objectKey); removeErr != nil {
			s.logger.Warn("remove orphaned blob", zap.String("object_key", objectKey), zap.Error(removeErr))
		}
		return MetadataView{}, err
	}

	s.logActivity(ctx, session.UserID, &doc.ID, "upload")

	meta, err := s.store.GetDocumentMeta(ctx, doc.ID)
	if err != nil {
		return MetadataView{}, fmt.Errorf("load metadata: %w", err)
	}
	s.indexDocument(meta)
	return metadataView(meta), nil
}

// GetMetadata returns the metadata view for one document.
func (s *Service) GetMetadata(ctx context.Context, documentID string) (MetadataView, error) {
	meta, err := s.store.GetDocumentMeta(ctx, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return MetadataView{}, notFound("Document not found")
	}
	if err != nil {
		return MetadataView{}, err
	}
	return metadataView(meta), nil
}

// DownloadPayload is the content stream plus the headers needed to serve it.
type DownloadPayload struct {
	Content     io.ReadCloser
	ContentType string
	Title       string
}

// Download streams the stored content of a document.
func (s *Service) Download(ctx context.Context, documentID string) (DownloadPayload, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return DownloadPayload{}, notFound("Document not found")
	}
	if err != nil {
		return DownloadPayload{}, err
	}
	content, err := s.blobs.Get(ctx, doc.ObjectKey)
	if err != nil {
		return DownloadPayload{}, fmt.Errorf("load content: %w", err)
	}
	return DownloadPayload{Content: content, ContentType: doc.ContentType, Title: doc.Title}, nil
}

// MetadataPatch is a partial metadata update; nil fields are unchanged.
type MetadataPatch struct {
	Title       *string  `json:"title"`
	Tags        []string `json:"tags"`
	Permissions []string `json:"permissions"`
}

// normalizeList trims entries and drops empties. A nil slice stays nil
// so a patch can distinguish "unchanged" from "cleared".
func normalizeList(values []string) []string {
	if values == nil {
		return nil
	}
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// EditMetadata applies a metadata patch and reindexes the document.
func (s *Service) EditMetadata(ctx context.Context, session Session, documentID string, patch MetadataPatch) (MetadataView, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return MetadataView{}, validationError("title cannot be empty")
	}

	err := s.store.UpdateDocumentMeta(ctx, documentID, patch.Title, normalizeList(patch.Tags), normalizeList(patch.Permissions))
	if errors.Is(err, sql.ErrNoRows) {
		return MetadataView{}, notFound("Document not found")
	}
	if err != nil {
		return MetadataView{}, err
	}

	s.logActivity(ctx, session.UserID, &documentID, "edit_metadata")

	meta, err := s.store.GetDocumentMeta(ctx, documentID)
	if err != nil {
		return MetadataView{}, fmt.Errorf("load metadata: %w", err)
	}
	s.indexDocument(meta)
	return metadataView(meta), nil
}

// RenameDocument retitles a document. When currentTitle is supplied the
// stored title must still match it, otherwise the rename conflicts.
func (s *Service) RenameDocument(ctx context.Context, session Session, documentID string, currentTitle *string, newTitle string) (MetadataView, error) {
	if strings.TrimSpace(newTitle) == "" {
		return MetadataView{}, validationError("new_title cannot be empty")
	}

	err := s.store.RenameDocument(ctx, documentID, currentTitle, newTitle)
	if errors.Is(err, sql.ErrNoRows) {
		return MetadataView{}, notFound("Document not found")
	}
	if errors.Is(err, store.ErrTitleConflict) {
		return MetadataView{}, domainError(http.StatusConflict, "TITLE_MISMATCH", "Document title has changed since it was read", nil)
	}
	if err != nil {
		return MetadataView{}, err
	}

	s.logActivity(ctx, session.UserID, &documentID, "rename")

	meta, err := s.store.GetDocumentMeta(ctx, documentID)
	if err != nil {
		return MetadataView{}, fmt.Errorf("load metadata: %w", err)
	}
	s.indexDocument(meta)
	return metadataView(meta), nil
}

// DeleteDocument removes the row (tags, permissions, and comments cascade),
// then cleans up the blob and the search index best-effort.
func (s *Service) DeleteDocument(ctx context.Context, session Session, documentID string) error {
	doc, err := s.store.DeleteDocument(ctx, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("Document not found")
	}
	if err != nil {
		return err
	}

	s.logActivity(ctx, session.UserID, &documentID, "delete")

	if err := s.blobs.Remove(ctx, doc.ObjectKey); err != nil {
		s.logger.Warn("remove blob", zap.String("object_key", doc.ObjectKey), zap.Error(err))
	}
	s.search.DeleteDocument(documentID)
	return nil
}

// ListDocuments returns the whole-document listing with tags and comments.
func (s *Service) ListDocuments(ctx context.Context) ([]ListingView, error) {
	listings, err := s.store.ListDocumentListings(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ListingView, 0, len(listings))
	for _, listing := range listings {
		comments := make([]CommentView, 0, len(listing.Comments))
		for _, comment := range listing.Comments {
			comments = append(comments, CommentView{
				CommentText: comment.Text,
				UserEmail:   comment.UserEmail,
				Timestamp:   comment.CreatedAt.Format(timestampLayout),
			})
		}
		views = append(views, ListingView{
			DocumentID: listing.ID,
			Title:      listing.Title,
			FolderID:   listing.FolderID,
			FolderName: listing.FolderName,
			Tags:       listing.Tags,
			UploadedBy: listing.UploaderEmail,
			Comments:   comments,
		})
	}
	return views, nil
}

// SearchDocuments runs a free-text search across titles, tags, uploader
// emails, and document ids. An empty query is a validation error; zero hits
// is an empty result, not an error.
func (s *Service) SearchDocuments(ctx context.Context, query string) ([]SearchHitView, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Search query cannot be empty.", nil)
	}
	hits, err := s.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	views := make([]SearchHitView, 0, len(hits))
	for _, hit := range hits {
		views = append(views, SearchHitView{
			DocumentID:  hit.DocumentID,
			Title:       hit.Title,
			UploadedBy:  hit.UploaderEmail,
			FolderID:    hit.FolderID,
			FolderName:  hit.FolderName,
			Tags:        hit.Tags,
			Permissions: hit.Permissions,
		})
	}
	return views, nil
}

func (s *Service) indexDocument(meta store.DocumentMeta) {
	s.search.IndexDocument(search.DocumentRecord{
		ID:            meta.ID,
		Title:         meta.Title,
		UploaderEmail: meta.UploaderEmail,
		FolderID:      meta.FolderID,
		FolderName:    meta.FolderName,
		Tags:          meta.Tags,
		Permissions:   meta.Permissions,
	})
}
