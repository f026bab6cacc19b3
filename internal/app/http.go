package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"docuvault/api/internal/auth"
	"docuvault/api/internal/identity"
	"docuvault/api/internal/rbac"
	"docuvault/api/internal/store"
	"docuvault/api/internal/textproc"
)

const maxUploadBytes = 64 << 20

type HTTPServer struct {
	service    *Service
	logger     *zap.Logger
	corsOrigin string
}

func NewHTTPServer(service *Service, logger *zap.Logger, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, logger: logger, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) forbid(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, "Forbidden")
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}
		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{"status": "error", "error": err.Error()}
		}
		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Identity routes (no session required)
	if r.Method == http.MethodPost && r.URL.Path == "/auth/register" {
		s.handleRegister(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/auth/verify-otp" {
		s.handleVerifyOTP(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/auth/login" {
		s.handleLogin(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/auth/refresh" {
		s.handleRefresh(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/auth/logout" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = decodeBody(r, &body)
		_ = s.service.Identity().Logout(r.Context(), body.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	segments := splitPath(r.URL.Path)
	if len(segments) == 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch segments[0] {
	case "auth":
		s.handleAuthed(w, r, session, segments)
	case "documents":
		s.handleDocuments(w, r, session, segments)
	case "folders":
		s.handleFolders(w, r, session, segments)
	case "comments":
		s.handleComments(w, r, session, segments)
	case "logs":
		s.handleLogs(w, r, session, segments)
	case "extract-text", "extract-images", "translate", "transliterate", "qna", "summarize-text":
		s.handleTextProc(w, r, session, segments)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (s *HTTPServer) handleAuthed(w http.ResponseWriter, r *http.Request, session Session, segments []string) {
	if len(segments) != 2 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch {
	case (r.Method == http.MethodPut || r.Method == http.MethodPost) && segments[1] == "change-role":
		if !s.service.Can(session.Role, rbac.ActionManageRoles) {
			s.forbid(w)
			return
		}
		var body struct {
			Email   string `json:"email"`
			NewRole string `json:"new_role"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.service.Identity().ChangeRole(r.Context(), body.Email, body.NewRole); err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": fmt.Sprintf("Role updated to %s", body.NewRole)})

	case r.Method == http.MethodGet && segments[1] == "get-role":
		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			email = session.Email
		}
		user, err := s.service.Identity().GetUserByEmail(r.Context(), email)
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"role": user.Role})

	case r.Method == http.MethodGet && segments[1] == "get-user-info":
		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			email = session.Email
		}
		user, err := s.service.Identity().GetUserByEmail(r.Context(), email)
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user_id":  user.ID,
			"username": user.Username,
			"email":    user.Email,
		})

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (s *HTTPServer) handleDocuments(w http.ResponseWriter, r *http.Request, session Session, segments []string) {
	if r.Method == http.MethodGet && len(segments) == 1 {
		if !s.service.Can(session.Role, rbac.ActionRead) {
			s.forbid(w)
			return
		}
		items, err := s.service.ListDocuments(r.Context())
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if r.Method == http.MethodGet && len(segments) == 2 && segments[1] == "search" {
		if !s.service.Can(session.Role, rbac.ActionRead) {
			s.forbid(w)
			return
		}
		query := r.URL.Query().Get("query")
		hits, err := s.service.SearchDocuments(r.Context(), query)
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		if len(hits) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"message": "No documents found."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": hits})
		return
	}

	if r.Method == http.MethodPost && len(segments) == 2 && segments[1] == "upload" {
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		s.handleUpload(w, r, session)
		return
	}

	switch {
	case r.Method == http.MethodGet && len(segments) == 2:
		if !s.service.Can(session.Role, rbac.ActionRead) {
			s.forbid(w)
			return
		}
		meta, err := s.service.GetMetadata(r.Context(), segments[1])
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, meta)

	case r.Method == http.MethodGet && len(segments) == 3 && segments[1] == "download":
		if !s.service.Can(session.Role, rbac.ActionRead) {
			s.forbid(w)
			return
		}
		payload, err := s.service.Download(r.Context(), segments[2])
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		defer payload.Content.Close()
		w.Header().Set("Content-Type", payload.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Title))
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, payload.Content)

	case r.Method == http.MethodPut && len(segments) == 3 && segments[1] == "edit":
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		var patch MetadataPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		meta, err := s.service.EditMetadata(r.Context(), session, segments[2], patch)
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, meta)

	case r.Method == http.MethodPut && len(segments) == 3 && segments[1] == "rename":
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		newTitle, currentTitle, err := renameParams(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		meta, err := s.service.RenameDocument(r.Context(), session, segments[2], currentTitle, newTitle)
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, meta)

	case r.Method == http.MethodDelete && len(segments) == 3 && segments[1] == "delete":
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		if err := s.service.DeleteDocument(r.Context(), session, segments[2]); err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Document deleted successfully"})

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// renameParams accepts either a JSON body or form fields, since clients send
// both encodings for this endpoint.
func renameParams(r *http.Request) (newTitle string, currentTitle *string, err error) {
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		var body struct {
			NewTitle     string  `json:"new_title"`
			CurrentTitle *string `json:"current_title"`
		}
		if err := decodeBody(r, &body); err != nil {
			return "", nil, err
		}
		return body.NewTitle, body.CurrentTitle, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", nil, fmt.Errorf("invalid form body")
	}
	newTitle = r.FormValue("new_title")
	if value := r.FormValue("current_title"); value != "" {
		currentTitle = &value
	}
	return newTitle, currentTitle, nil
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request, session Session) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	in := UploadInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Tags:        formList(r, "tags"),
		Permissions: formList(r, "permissions"),
		FolderName:  strings.TrimSpace(r.FormValue("folder_name")),
		File:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	meta, err := s.service.UploadDocument(r.Context(), session, in)
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *HTTPServer) handleFolders(w http.ResponseWriter, r *http.Request, session Session, segments []string) {
	switch {
	case r.Method == http.MethodPost && len(segments) == 2 && segments[1] == "create":
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		var body struct {
			FolderName string `json:"folder_name"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		folder, err := s.service.CreateFolder(r.Context(), session, body.FolderName)
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, folder)

	case r.Method == http.MethodGet && len(segments) == 1:
		if !s.service.Can(session.Role, rbac.ActionRead) {
			s.forbid(w)
			return
		}
		folders, err := s.service.ListFolders(r.Context())
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, folders)

	case r.Method == http.MethodGet && len(segments) == 2 && segments[1] == "all-documents":
		if !s.service.Can(session.Role, rbac.ActionRead) {
			s.forbid(w)
			return
		}
		tree, err := s.service.FolderTree(r.Context())
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, tree)

	case r.Method == http.MethodDelete && len(segments) == 3 && segments[1] == "delete":
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		folderID, err := strconv.ParseInt(segments[2], 10, 64)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "folder id must be an integer")
			return
		}
		if err := s.service.DeleteFolder(r.Context(), session, folderID); err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Folder deleted successfully"})

	case r.Method == http.MethodPut && len(segments) == 3 && segments[1] == "rename":
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		folderID, err := strconv.ParseInt(segments[2], 10, 64)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "folder id must be an integer")
			return
		}
		var body struct {
			NewName string `json:"new_name"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		folder, err := s.service.RenameFolder(r.Context(), session, folderID, body.NewName)
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, folder)

	case r.Method == http.MethodGet && len(segments) == 3 && segments[2] == "documents":
		if !s.service.Can(session.Role, rbac.ActionRead) {
			s.forbid(w)
			return
		}
		folderID, err := strconv.ParseInt(segments[1], 10, 64)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "folder id must be an integer")
			return
		}
		docs, err := s.service.FolderDocuments(r.Context(), folderID)
		if err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, docs)

	case r.Method == http.MethodPost && len(segments) == 3 && segments[2] == "upload":
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		s.handleFolderUpload(w, r, session, segments[1])

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (s *HTTPServer) handleFolderUpload(w http.ResponseWriter, r *http.Request, session Session, folderName string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	in := UploadInput{
		Title:       header.Filename,
		Tags:        formList(r, "tags"),
		File:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	meta, err := s.service.UploadToFolder(r.Context(), session, folderName, in)
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *HTTPServer) handleComments(w http.ResponseWriter, r *http.Request, session Session, segments []string) {
	if r.Method != http.MethodPost || len(segments) != 1 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if !s.service.Can(session.Role, rbac.ActionComment) {
		s.forbid(w)
		return
	}
	// Parameters arrive as query or form fields; the author is always the
	// session user, never a caller-supplied email.
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	documentID := strings.TrimSpace(r.FormValue("document_id"))
	text := r.FormValue("comment_text")
	if documentID == "" {
		writeError(w, http.StatusUnprocessableEntity, "document_id is required")
		return
	}
	comment, err := s.service.AddComment(r.Context(), session, documentID, text)
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *HTTPServer) handleLogs(w http.ResponseWriter, r *http.Request, session Session, segments []string) {
	if r.Method == http.MethodPost && len(segments) == 3 && segments[1] == "user" {
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			s.forbid(w)
			return
		}
		userID, err := strconv.ParseInt(segments[2], 10, 64)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "user id must be an integer")
			return
		}
		var body struct {
			Action string `json:"action"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.service.RecordUserAction(r.Context(), userID, body.Action); err != nil {
			status, message := mapError(err)
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Log recorded"})
		return
	}

	if r.Method != http.MethodGet || len(segments) != 2 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if !s.service.Can(session.Role, rbac.ActionRead) {
		s.forbid(w)
		return
	}

	var (
		logs []LogView
		err  error
	)
	switch segments[1] {
	case "all":
		logs, err = s.service.AllLogs(r.Context())
	case "documents":
		logs, err = s.service.DocumentLogs(r.Context())
	case "users":
		logs, err = s.service.UserLogs(r.Context())
	default:
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return Session{}, false
		}
		writeError(w, http.StatusInternalServerError, "Session lookup failed")
		return Session{}, false
	}
	return session, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", writer.status),
			zap.Int64("duration_ms", time.Since(started).Milliseconds()),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders the error envelope every handler shares.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"detail": message})
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// formList reads a repeatable multipart form field. A single value is
// additionally comma-split so older clients that send one delimited
// field keep working.
func formList(r *http.Request, field string) []string {
	if r.MultipartForm == nil {
		return nil
	}
	raw := r.MultipartForm.Value[field]
	if len(raw) == 0 {
		return nil
	}
	if len(raw) == 1 {
		return splitCommaList(raw[0])
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func mapError(err error) (status int, message string) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Message
	}
	var remoteErr *textproc.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode, remoteErr.Detail
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, store.ErrTitleConflict):
		return http.StatusConflict, "Document title has changed since it was read"
	case errors.Is(err, identity.ErrInvalid), errors.Is(err, textproc.ErrInvalid):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, identity.ErrEmailTaken):
		return http.StatusConflict, identity.ErrEmailTaken.Error()
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized, identity.ErrInvalidCredentials.Error()
	case errors.Is(err, identity.ErrInvalidCode), errors.Is(err, identity.ErrUnknownRole):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, identity.ErrUserNotFound):
		return http.StatusNotFound, identity.ErrUserNotFound.Error()
	}
	return http.StatusInternalServerError, "Server error"
}
