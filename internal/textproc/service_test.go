package textproc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestQnAForwardsQuestionAndFile(t *testing.T) {
	var gotQuestion, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/qna" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotQuestion = r.FormValue("question")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		file.Close()
		gotFilename = header.Filename
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"question":"what","answer":"42","file":"doc.pdf"}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, zap.NewNop())
	raw, err := svc.QnA(context.Background(), &FileInput{
		Filename: "doc.pdf",
		Reader:   strings.NewReader("content"),
	}, "what")
	if err != nil {
		t.Fatalf("QnA() error = %v", err)
	}
	if gotQuestion != "what" || gotFilename != "doc.pdf" {
		t.Fatalf("forwarded question=%q filename=%q", gotQuestion, gotFilename)
	}

	var parsed map[string]string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if parsed["answer"] != "42" {
		t.Fatalf("unexpected response: %v", parsed)
	}
}

func TestQnARejectsEmptyQuestion(t *testing.T) {
	svc := NewService("http://unused", zap.NewNop())
	_, err := svc.QnA(context.Background(), &FileInput{Filename: "doc.pdf", Reader: strings.NewReader("x")}, "   ")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("QnA() error = %v, want ErrInvalid", err)
	}
}

func TestExtractImagesRejectsNonPDF(t *testing.T) {
	svc := NewService("http://unused", zap.NewNop())
	_, err := svc.ExtractImages(context.Background(), &FileInput{Filename: "doc.docx", Reader: strings.NewReader("x")})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("ExtractImages() error = %v, want ErrInvalid", err)
	}
}

func TestSummarizeRejectsUnsupportedFormat(t *testing.T) {
	svc := NewService("http://unused", zap.NewNop())
	_, err := svc.Summarize(context.Background(), &FileInput{Filename: "notes.txt", Reader: strings.NewReader("x")})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Summarize() error = %v, want ErrInvalid", err)
	}
}

func TestTransliterateRejectsMissingText(t *testing.T) {
	svc := NewService("http://unused", zap.NewNop())
	_, err := svc.Transliterate(context.Background(), nil, "  ", "devanagari", false)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Transliterate() error = %v, want ErrInvalid", err)
	}
}

func TestForwardSurfacesRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"no extractable text found in the document"}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, zap.NewNop())
	_, err := svc.ExtractText(context.Background(), &FileInput{Filename: "doc.pdf", Reader: strings.NewReader("x")})

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", remote.StatusCode)
	}
	if remote.Detail != "no extractable text found in the document" {
		t.Fatalf("unexpected detail %q", remote.Detail)
	}
}

func TestTranslateForwardsFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("target_language") != "french" {
			t.Fatalf("target_language = %q", r.FormValue("target_language"))
		}
		if r.FormValue("file_upload") != "false" {
			t.Fatalf("file_upload = %q", r.FormValue("file_upload"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translated_text":"bonjour"}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, zap.NewNop())
	raw, err := svc.Translate(context.Background(), nil, "hello", "french", false)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.Contains(string(raw), "bonjour") {
		t.Fatalf("unexpected response %s", raw)
	}
}
