// Package textproc forwards text-utility requests to the ML processing
// service: extraction, translation, transliteration, Q&A, and summarization.
package textproc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrInvalid marks request validation failures handled before forwarding.
var ErrInvalid = errors.New("invalid request")

// RemoteError carries a non-2xx reply from the processing service so the
// handler can forward the status and detail verbatim.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("textproc: status %d: %s", e.StatusCode, e.Detail)
}

// FileInput is an uploaded file to forward.
type FileInput struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Service proxies requests to the text processing service.
type Service struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewService(baseURL string, logger *zap.Logger) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}
}

// ExtractText pulls the plain text out of an uploaded document.
func (s *Service) ExtractText(ctx context.Context, file *FileInput) (json.RawMessage, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalid)
	}
	return s.forward(ctx, "/extract-text/", file, nil)
}

// ExtractImages pulls embedded images out of an uploaded PDF.
func (s *Service) ExtractImages(ctx context.Context, file *FileInput) (json.RawMessage, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalid)
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return nil, fmt.Errorf("%w: only PDF files are supported", ErrInvalid)
	}
	return s.forward(ctx, "/extract-images/", file, nil)
}

// Translate renders the provided text, or the text of an uploaded file, in
// the target language.
func (s *Service) Translate(ctx context.Context, file *FileInput, text, targetLanguage string, fileUpload bool) (json.RawMessage, error) {
	if targetLanguage == "" {
		return nil, fmt.Errorf("%w: target_language is required", ErrInvalid)
	}
	if fileUpload && file == nil {
		return nil, fmt.Errorf("%w: file is required when file_upload is set", ErrInvalid)
	}
	if !fileUpload && strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text found to translate", ErrInvalid)
	}
	fields := map[string]string{
		"target_language": targetLanguage,
		"file_upload":     strconv.FormatBool(fileUpload),
	}
	if text != "" {
		fields["text"] = text
	}
	return s.forward(ctx, "/translate/", file, fields)
}

// Transliterate renders the provided text, or the text of an uploaded file,
// in the target script.
func (s *Service) Transliterate(ctx context.Context, file *FileInput, text, targetScript string, fileUpload bool) (json.RawMessage, error) {
	if targetScript == "" {
		return nil, fmt.Errorf("%w: target_script is required", ErrInvalid)
	}
	if !fileUpload && strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text found to transliterate", ErrInvalid)
	}
	fields := map[string]string{
		"target_script": targetScript,
		"file_upload":   strconv.FormatBool(fileUpload),
	}
	if text != "" {
		fields["text"] = text
	}
	return s.forward(ctx, "/transliterate/", file, fields)
}

// QnA answers a question against the text of an uploaded PDF or DOCX.
func (s *Service) QnA(ctx context.Context, file *FileInput, question string) (json.RawMessage, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", ErrInvalid)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalid)
	}
	return s.forward(ctx, "/qna", file, map[string]string{"question": question})
}

// Summarize produces a summary of an uploaded PDF or DOCX.
func (s *Service) Summarize(ctx context.Context, file *FileInput) (json.RawMessage, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalid)
	}
	name := strings.ToLower(file.Filename)
	if !strings.HasSuffix(name, ".pdf") && !strings.HasSuffix(name, ".docx") {
		return nil, fmt.Errorf("%w: unsupported file format, please upload PDF or DOCX files only", ErrInvalid)
	}
	return s.forward(ctx, "/summarize-text/", file, nil)
}

// forward builds a multipart request mirroring the caller's upload and
// returns the remote JSON body unchanged.
func (s *Service) forward(ctx context.Context, path string, file *FileInput, fields map[string]string) (json.RawMessage, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if file != nil {
		part, err := writer.CreateFormFile("file", file.Filename)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return nil, fmt.Errorf("copy file: %w", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call text processor: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := remoteDetail(payload)
		s.logger.Warn("text processor error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return nil, &RemoteError{StatusCode: resp.StatusCode, Detail: detail}
	}
	return json.RawMessage(payload), nil
}

func remoteDetail(payload []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(payload))
}
