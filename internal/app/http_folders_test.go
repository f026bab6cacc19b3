package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"docuvault/api/internal/store"
)

func TestFolderDocumentsView(t *testing.T) {
	fs := &fakeStore{
		getFolderFn: func(_ context.Context, id int64) (store.Folder, error) {
			return store.Folder{ID: id, Name: "Reports"}, nil
		},
		listFolderDocumentTitlesFn: func(context.Context, int64) ([]string, error) {
			return []string{"Q1", "Q2"}, nil
		},
	}
	server := newTestServer(newTestService(fs, nil, nil, nil))
	token := issueTestToken(t, 1, "user@example.com", "viewer")

	rr := doRequest(t, server, http.MethodGet, "/folders/5/documents", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload := decodePayload(t, rr)
	if payload["folder_name"] != "Reports" {
		t.Fatalf("unexpected folder name %v", payload["folder_name"])
	}
	documents := payload["documents"].([]any)
	if len(documents) != 2 || documents[0] != "Q1" {
		t.Fatalf("unexpected documents %v", documents)
	}
}

func TestFolderTreeEmptyIsArray(t *testing.T) {
	server := newTestServer(newTestService(nil, nil, nil, nil))
	token := issueTestToken(t, 1, "user@example.com", "viewer")

	rr := doRequest(t, server, http.MethodGet, "/folders/all-documents", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var tree []any
	if err := json.Unmarshal(rr.Body.Bytes(), &tree); err != nil {
		t.Fatalf("expected a JSON array, got %s", rr.Body.String())
	}
	if len(tree) != 0 {
		t.Fatalf("expected an empty array, got %v", tree)
	}
}

func TestFolderTreeListsFiles(t *testing.T) {
	fs := &fakeStore{listFoldersWithDocumentsFn: func(context.Context) ([]store.FolderDocuments, error) {
		return []store.FolderDocuments{{
			Folder: store.Folder{ID: 2, Name: "Archive"},
			Titles: []string{"Old Notes"},
		}}, nil
	}}
	server := newTestServer(newTestService(fs, nil, nil, nil))
	token := issueTestToken(t, 1, "user@example.com", "viewer")

	rr := doRequest(t, server, http.MethodGet, "/folders/all-documents", token, "")
	var tree []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &tree); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(tree) != 1 || tree[0]["folder_name"] != "Archive" {
		t.Fatalf("unexpected tree %v", tree)
	}
	files := tree[0]["files"].([]any)
	if len(files) != 1 || files[0] != "Old Notes" {
		t.Fatalf("unexpected files %v", files)
	}
}

func TestDeleteFolderNotFound(t *testing.T) {
	server := newTestServer(newTestService(nil, nil, nil, nil))
	token := issueTestToken(t, 1, "editor@example.com", "editor")

	rr := doRequest(t, server, http.MethodDelete, "/folders/delete/44", token, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRenameFolder(t *testing.T) {
	fs := &fakeStore{renameFolderFn: func(_ context.Context, id int64, newName string) (bool, error) {
		return id == 3 && newName == "Renamed", nil
	}}
	server := newTestServer(newTestService(fs, nil, nil, nil))
	token := issueTestToken(t, 1, "editor@example.com", "editor")

	rr := doRequest(t, server, http.MethodPut, "/folders/rename/3", token, `{"new_name":"Renamed"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload := decodePayload(t, rr)
	if payload["folder_name"] != "Renamed" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestFolderUploadUsesFilenameAsTitle(t *testing.T) {
	var inserted store.Document
	fs := &fakeStore{
		findFolderByNameFn: func(_ context.Context, name string) (store.Folder, error) {
			return store.Folder{ID: 8, Name: name}, nil
		},
		insertDocumentFn: func(_ context.Context, doc store.Document, _, _ []string) error {
			inserted = doc
			return nil
		},
		getDocumentMetaFn: func(_ context.Context, id string) (store.DocumentMeta, error) {
			return store.DocumentMeta{
				Document:      store.Document{ID: id, Title: "report.pdf"},
				UploaderEmail: "editor@example.com",
				Tags:          []string{},
				Permissions:   []string{},
			}, nil
		},
	}
	server := newTestServer(newTestService(fs, nil, nil, nil))
	token := issueTestToken(t, 2, "editor@example.com", "editor")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "report.pdf")
	_, _ = part.Write([]byte("%PDF"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/folders/Reports/upload", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if inserted.Title != "report.pdf" {
		t.Fatalf("expected filename title, got %q", inserted.Title)
	}
	if inserted.FolderID == nil || *inserted.FolderID != 8 {
		t.Fatalf("expected folder id 8, got %v", inserted.FolderID)
	}
}

func TestFolderUploadForwardsTags(t *testing.T) {
	var insertedTags []string
	fs := &fakeStore{
		findFolderByNameFn: func(_ context.Context, name string) (store.Folder, error) {
			return store.Folder{ID: 8, Name: name}, nil
		},
		insertDocumentFn: func(_ context.Context, _ store.Document, tags, _ []string) error {
			insertedTags = tags
			return nil
		},
		getDocumentMetaFn: func(_ context.Context, id string) (store.DocumentMeta, error) {
			return store.DocumentMeta{
				Document:      store.Document{ID: id, Title: "report.pdf"},
				UploaderEmail: "editor@example.com",
				Tags:          []string{"finance"},
				Permissions:   []string{},
			}, nil
		},
	}
	server := newTestServer(newTestService(fs, nil, nil, nil))
	token := issueTestToken(t, 2, "editor@example.com", "editor")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "report.pdf")
	_, _ = part.Write([]byte("%PDF"))
	_ = writer.WriteField("tags", "finance")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/folders/Reports/upload", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if len(insertedTags) != 1 || insertedTags[0] != "finance" {
		t.Fatalf("expected tags to reach the store, got %v", insertedTags)
	}
}
