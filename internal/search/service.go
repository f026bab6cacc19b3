package search

import (
	"context"

	"go.uber.org/zap"

	"docuvault/api/internal/store"
)

// SQLSearcher is the relational fallback, implemented by the Postgres store.
type SQLSearcher interface {
	SearchDocuments(ctx context.Context, query string) ([]store.SearchHit, error)
}

// Service is the facade that tries Meilisearch first and falls back to SQL.
type Service struct {
	meili  *Meili
	sql    SQLSearcher
	logger *zap.Logger
}

// NewService creates a search service. meili may be nil if Meilisearch is not
// configured.
func NewService(meili *Meili, sql SQLSearcher, logger *zap.Logger) *Service {
	return &Service{meili: meili, sql: sql, logger: logger}
}

// Search tries Meilisearch if healthy, otherwise falls back to SQL.
func (s *Service) Search(ctx context.Context, query string) ([]store.SearchHit, error) {
	if s.meili != nil && s.meili.Healthy() {
		hits, err := s.meili.Search(ctx, query)
		if err == nil {
			return hits, nil
		}
		s.logger.Warn("meilisearch error, falling back to sql", zap.Error(err))
	}
	return s.sql.SearchDocuments(ctx, query)
}

// IndexDocument indexes a document (fire-and-forget to Meilisearch).
func (s *Service) IndexDocument(record DocumentRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexDocument(record); err != nil {
			s.logger.Warn("index document", zap.String("id", record.ID), zap.Error(err))
		}
	}()
}

// DeleteDocument removes a document from the search index (fire-and-forget).
func (s *Service) DeleteDocument(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteDocument(id); err != nil {
			s.logger.Warn("delete document from index", zap.String("id", id), zap.Error(err))
		}
	}()
}

// ReindexAll reads every document from SQL and pushes it into Meilisearch.
// Called during startup when Meilisearch is healthy.
func (s *Service) ReindexAll(ctx context.Context) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	hits, err := s.sql.SearchDocuments(ctx, "")
	if err != nil {
		s.logger.Warn("reindex load failed", zap.Error(err))
		return
	}
	records := make([]DocumentRecord, 0, len(hits))
	for _, hit := range hits {
		records = append(records, RecordFromHit(hit))
	}
	if err := s.meili.IndexDocuments(records); err != nil {
		s.logger.Warn("reindex failed", zap.Error(err))
	}
}
