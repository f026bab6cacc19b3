package store

import "time"

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Document struct {
	ID          string
	Title       string
	UploadedBy  int64
	FolderID    *int64
	ObjectKey   string
	ContentType string
	LastUpdated time.Time
}

type Folder struct {
	ID        int64
	Name      string
	CreatedBy int64
}

type Comment struct {
	ID         int64
	DocumentID string
	UserEmail  string
	Text       string
	CreatedAt  time.Time
}

type ActivityLog struct {
	ID         int64
	UserID     int64
	DocumentID *string
	Action     string
	CreatedAt  time.Time
}

// DocumentMeta is a document joined with its folder name, uploader email,
// tag names, and permission emails — the shape returned by GetDocumentMeta.
type DocumentMeta struct {
	Document
	FolderName    *string
	UploaderEmail string
	Tags          []string
	Permissions   []string
}

// DocumentListing is one row of the whole-document view: metadata plus the
// comment thread.
type DocumentListing struct {
	ID            string
	Title         string
	FolderID      *int64
	FolderName    *string
	UploaderEmail string
	Tags          []string
	Comments      []Comment
}

// SearchHit is an aggregated search result for one matching document.
type SearchHit struct {
	DocumentID    string
	Title         string
	UploaderEmail string
	FolderID      *int64
	FolderName    *string
	Tags          []string
	Permissions   []string
}

// FolderDocuments pairs a folder with the titles of the documents it holds.
type FolderDocuments struct {
	Folder
	Titles []string
}
