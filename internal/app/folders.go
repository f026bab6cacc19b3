package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"docuvault/api/internal/store"
)

// FolderView is one folder row.
type FolderView struct {
	FolderID   int64  `json:"folder_id"`
	FolderName string `json:"folder_name"`
}

// FolderDocumentsView lists the document titles inside one folder.
type FolderDocumentsView struct {
	FolderID   int64    `json:"folder_id"`
	FolderName string   `json:"folder_name"`
	Documents  []string `json:"documents"`
}

// FolderTreeView is one entry of the whole-tree listing.
type FolderTreeView struct {
	FolderName string   `json:"folder_name"`
	FolderID   int64    `json:"folder_id"`
	Files      []string `json:"files"`
}

// CreateFolder creates a named folder owned by the caller.
func (s *Service) CreateFolder(ctx context.Context, session Session, name string) (FolderView, error) {
	if strings.TrimSpace(name) == "" {
		return FolderView{}, validationError("folder_name cannot be empty")
	}
	folder, err := s.store.CreateFolder(ctx, name, session.UserID)
	if err != nil {
		return FolderView{}, err
	}
	s.logActivity(ctx, session.UserID, nil, "create_folder")
	return FolderView{FolderID: folder.ID, FolderName: folder.Name}, nil
}

// DeleteFolder removes a folder; its documents are unfiled, not deleted.
func (s *Service) DeleteFolder(ctx context.Context, session Session, folderID int64) error {
	deleted, err := s.store.DeleteFolder(ctx, folderID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Folder not found")
	}
	s.logActivity(ctx, session.UserID, nil, "delete_folder")
	return nil
}

// RenameFolder renames a folder.
func (s *Service) RenameFolder(ctx context.Context, session Session, folderID int64, newName string) (FolderView, error) {
	if strings.TrimSpace(newName) == "" {
		return FolderView{}, validationError("new_name cannot be empty")
	}
	renamed, err := s.store.RenameFolder(ctx, folderID, newName)
	if err != nil {
		return FolderView{}, err
	}
	if !renamed {
		return FolderView{}, notFound("Folder not found")
	}
	s.logActivity(ctx, session.UserID, nil, "rename_folder")
	return FolderView{FolderID: folderID, FolderName: newName}, nil
}

// ListFolders returns every folder.
func (s *Service) ListFolders(ctx context.Context) ([]FolderView, error) {
	folders, err := s.store.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]FolderView, 0, len(folders))
	for _, folder := range folders {
		views = append(views, FolderView{FolderID: folder.ID, FolderName: folder.Name})
	}
	return views, nil
}

// FolderDocuments returns the titles of the documents filed in a folder.
func (s *Service) FolderDocuments(ctx context.Context, folderID int64) (FolderDocumentsView, error) {
	folder, err := s.store.GetFolder(ctx, folderID)
	if errors.Is(err, sql.ErrNoRows) {
		return FolderDocumentsView{}, notFound("Folder not found")
	}
	if err != nil {
		return FolderDocumentsView{}, err
	}
	titles, err := s.store.ListFolderDocumentTitles(ctx, folderID)
	if err != nil {
		return FolderDocumentsView{}, err
	}
	return FolderDocumentsView{FolderID: folder.ID, FolderName: folder.Name, Documents: titles}, nil
}

// FolderTree returns every folder with the titles of its documents.
func (s *Service) FolderTree(ctx context.Context) ([]FolderTreeView, error) {
	folders, err := s.store.ListFoldersWithDocuments(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]FolderTreeView, 0, len(folders))
	for _, folder := range folders {
		views = append(views, FolderTreeView{
			FolderName: folder.Name,
			FolderID:   folder.ID,
			Files:      folder.Titles,
		})
	}
	return views, nil
}

// UploadToFolder files a document into a folder resolved by name, with the
// filename doubling as the title.
func (s *Service) UploadToFolder(ctx context.Context, session Session, folderName string, in UploadInput) (MetadataView, error) {
	folder, err := s.store.FindFolderByName(ctx, folderName)
	if errors.Is(err, sql.ErrNoRows) {
		return MetadataView{}, notFound("Folder not found")
	}
	if err != nil {
		return MetadataView{}, err
	}
	in.FolderID = &folder.ID
	in.FolderName = ""
	return s.UploadDocument(ctx, session, in)
}

// AddComment attaches a comment to an existing document.
func (s *Service) AddComment(ctx context.Context, session Session, documentID, text string) (CommentView, error) {
	if strings.TrimSpace(text) == "" {
		return CommentView{}, validationError("comment cannot be empty")
	}
	exists, err := s.store.DocumentExists(ctx, documentID)
	if err != nil {
		return CommentView{}, err
	}
	if !exists {
		return CommentView{}, notFound("Document not found")
	}
	comment, err := s.store.InsertComment(ctx, store.Comment{
		DocumentID: documentID,
		UserEmail:  session.Email,
		Text:       text,
	})
	if err != nil {
		return CommentView{}, err
	}
	s.logActivity(ctx, session.UserID, &documentID, "comment")
	return CommentView{
		CommentText: comment.Text,
		UserEmail:   comment.UserEmail,
		Timestamp:   comment.CreatedAt.Format(timestampLayout),
	}, nil
}

// LogView is one audit entry.
type LogView struct {
	LogID      int64   `json:"log_id"`
	UserID     int64   `json:"user_id"`
	DocumentID *string `json:"document_id"`
	Action     string  `json:"action"`
	Timestamp  string  `json:"timestamp"`
}

func logViews(logs []store.ActivityLog) []LogView {
	views := make([]LogView, 0, len(logs))
	for _, entry := range logs {
		views = append(views, LogView{
			LogID:      entry.ID,
			UserID:     entry.UserID,
			DocumentID: entry.DocumentID,
			Action:     entry.Action,
			Timestamp:  entry.CreatedAt.Format(timestampLayout),
		})
	}
	return views
}

// AllLogs returns every audit entry in the order it was recorded.
func (s *Service) AllLogs(ctx context.Context) ([]LogView, error) {
	logs, err := s.store.ListActivityLogs(ctx)
	if err != nil {
		return nil, err
	}
	return logViews(logs), nil
}

// DocumentLogs returns the audit entries tied to a document.
func (s *Service) DocumentLogs(ctx context.Context) ([]LogView, error) {
	logs, err := s.store.ListDocumentActivityLogs(ctx)
	if err != nil {
		return nil, err
	}
	return logViews(logs), nil
}

// UserLogs returns the audit entries grouped by user.
func (s *Service) UserLogs(ctx context.Context) ([]LogView, error) {
	logs, err := s.store.ListUserActivityLogs(ctx)
	if err != nil {
		return nil, err
	}
	return logViews(logs), nil
}

// RecordUserAction writes a free-form audit entry for a user.
func (s *Service) RecordUserAction(ctx context.Context, userID int64, action string) error {
	if strings.TrimSpace(action) == "" {
		return validationError("action cannot be empty")
	}
	if _, err := s.store.GetUserByID(ctx, userID); errors.Is(err, sql.ErrNoRows) {
		return notFound("User not found")
	} else if err != nil {
		return err
	}
	return s.store.InsertActivityLog(ctx, store.ActivityLog{UserID: userID, Action: action})
}
