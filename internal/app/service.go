package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"docuvault/api/internal/auth"
	"docuvault/api/internal/identity"
	"docuvault/api/internal/rbac"
	"docuvault/api/internal/search"
	"docuvault/api/internal/store"
	"docuvault/api/internal/textproc"
)

// Session is the authenticated caller derived from a bearer token.
type Session struct {
	UserID    int64
	Email     string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

type dataStore interface {
	Ping(context.Context) error
	GetUserByID(context.Context, int64) (store.User, error)

	InsertDocument(ctx context.Context, doc store.Document, tags, permissions []string) error
	GetDocument(context.Context, string) (store.Document, error)
	GetDocumentMeta(context.Context, string) (store.DocumentMeta, error)
	UpdateDocumentMeta(ctx context.Context, documentID string, title *string, tags, permissions []string) error
	RenameDocument(ctx context.Context, documentID string, expectedTitle *string, newTitle string) error
	DeleteDocument(context.Context, string) (store.Document, error)
	ListDocumentListings(context.Context) ([]store.DocumentListing, error)
	DocumentExists(context.Context, string) (bool, error)

	CreateFolder(ctx context.Context, name string, createdBy int64) (store.Folder, error)
	DeleteFolder(context.Context, int64) (bool, error)
	RenameFolder(ctx context.Context, folderID int64, newName string) (bool, error)
	ListFolders(context.Context) ([]store.Folder, error)
	GetFolder(context.Context, int64) (store.Folder, error)
	FindFolderByName(context.Context, string) (store.Folder, error)
	ListFolderDocumentTitles(context.Context, int64) ([]string, error)
	ListFoldersWithDocuments(context.Context) ([]store.FolderDocuments, error)

	InsertComment(context.Context, store.Comment) (store.Comment, error)
	InsertActivityLog(context.Context, store.ActivityLog) error
	ListActivityLogs(context.Context) ([]store.ActivityLog, error)
	ListDocumentActivityLogs(context.Context) ([]store.ActivityLog, error)
	ListUserActivityLogs(context.Context) ([]store.ActivityLog, error)
}

type searcher interface {
	Search(ctx context.Context, query string) ([]store.SearchHit, error)
	IndexDocument(record search.DocumentRecord)
	DeleteDocument(id string)
}

type blobStore interface {
	Put(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, objectKey string) (io.ReadCloser, error)
	Remove(ctx context.Context, objectKey string) error
}

type identityService interface {
	Register(ctx context.Context, req identity.RegisterRequest) error
	VerifyOTP(ctx context.Context, email, code string) (store.User, error)
	Login(ctx context.Context, email, password string) (identity.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (identity.LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangeRole(ctx context.Context, email, role string) error
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
}

type textProcessor interface {
	ExtractText(ctx context.Context, file *textproc.FileInput) (json.RawMessage, error)
	ExtractImages(ctx context.Context, file *textproc.FileInput) (json.RawMessage, error)
	Translate(ctx context.Context, file *textproc.FileInput, text, targetLanguage string, fileUpload bool) (json.RawMessage, error)
	Transliterate(ctx context.Context, file *textproc.FileInput, text, targetScript string, fileUpload bool) (json.RawMessage, error)
	QnA(ctx context.Context, file *textproc.FileInput, question string) (json.RawMessage, error)
	Summarize(ctx context.Context, file *textproc.FileInput) (json.RawMessage, error)
}

// Service holds the application's collaborators and implements every
// operation the HTTP layer exposes.
type Service struct {
	store     dataStore
	blobs     blobStore
	search    searcher
	identity  identityService
	textproc  textProcessor
	logger    *zap.Logger
	jwtSecret []byte
}

func NewService(dataStore dataStore, blobs blobStore, search searcher, identity identityService, textproc textProcessor, logger *zap.Logger, jwtSecret string) *Service {
	return &Service{
		store:     dataStore,
		blobs:     blobs,
		search:    search,
		identity:  identity,
		textproc:  textproc,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
	}
}

// Ping reports database connectivity for the readiness endpoint.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Identity exposes the identity collaborator to the HTTP layer.
func (s *Service) Identity() identityService {
	return s.identity
}

// TextProcessor exposes the ML pass-through collaborator.
func (s *Service) TextProcessor() textProcessor {
	return s.textproc
}

// Can checks whether the role is allowed to perform the action.
func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Role(role), action)
}

// SessionFromToken validates the bearer token and builds the session.
func (s *Service) SessionFromToken(_ context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken(s.jwtSecret, token)
	if err != nil {
		return Session{}, err
	}
	userID, err := strconv.ParseInt(claims.Sub, 10, 64)
	if err != nil {
		return Session{}, auth.ErrInvalidToken
	}
	return Session{
		UserID:    userID,
		Email:     claims.Email,
		Role:      claims.Role,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

// logActivity records an audit entry. Failures are logged, never surfaced:
// the triggering mutation has already committed.
func (s *Service) logActivity(ctx context.Context, userID int64, documentID *string, action string) {
	err := s.store.InsertActivityLog(ctx, store.ActivityLog{
		UserID:     userID,
		DocumentID: documentID,
		Action:     action,
	})
	if err != nil {
		s.logger.Warn("record activity", zap.String("action", action), zap.Error(err))
	}
}

func validationError(message string) *DomainError {
	return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, nil)
}

func notFound(message string) *DomainError {
	return domainError(http.StatusNotFound, "NOT_FOUND", message, nil)
}
