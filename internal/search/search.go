// Package search provides document search backed by Meilisearch with a SQL
// fallback.
package search

import (
	"context"

	"docuvault/api/internal/store"
)

// DocumentRecord is the data we index for a document.
type DocumentRecord struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	UploaderEmail string   `json:"uploaderEmail"`
	FolderID      *int64   `json:"folderId"`
	FolderName    *string  `json:"folderName"`
	Tags          []string `json:"tags"`
	Permissions   []string `json:"permissions"`
}

// Hit converts the indexed record back into the result shape.
func (r DocumentRecord) Hit() store.SearchHit {
	return store.SearchHit{
		DocumentID:    r.ID,
		Title:         r.Title,
		UploaderEmail: r.UploaderEmail,
		FolderID:      r.FolderID,
		FolderName:    r.FolderName,
		Tags:          nonNil(r.Tags),
		Permissions:   nonNil(r.Permissions),
	}
}

// RecordFromHit builds the indexable record for a document.
func RecordFromHit(hit store.SearchHit) DocumentRecord {
	return DocumentRecord{
		ID:            hit.DocumentID,
		Title:         hit.Title,
		UploaderEmail: hit.UploaderEmail,
		FolderID:      hit.FolderID,
		FolderName:    hit.FolderName,
		Tags:          nonNil(hit.Tags),
		Permissions:   nonNil(hit.Permissions),
	}
}

// Searcher can execute a document search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]store.SearchHit, error)
	Healthy() bool
}

// Indexer can push documents into a search index.
type Indexer interface {
	IndexDocument(record DocumentRecord) error
	DeleteDocument(id string) error
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
