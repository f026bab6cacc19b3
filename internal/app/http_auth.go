package app

import (
	"errors"
	"net/http"
	"strings"

	"docuvault/api/internal/identity"
	"docuvault/api/internal/textproc"
)

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := s.service.Identity().Register(r.Context(), identity.RegisterRequest{
		Email:    body.Email,
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "OTP sent to email. Verify to complete registration."})
}

func (s *HTTPServer) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.service.Identity().VerifyOTP(r.Context(), body.Email, body.OTP)
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User registered successfully",
		"user_id": user.ID,
		"role":    user.Role,
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.service.Identity().Login(r.Context(), body.Email, body.Password)
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, loginPayload(result))
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.service.Identity().Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, loginPayload(result))
}

func loginPayload(result identity.LoginResult) map[string]any {
	return map[string]any{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "bearer",
		"expires_in":    result.ExpiresIn,
		"role":          result.User.Role,
	}
}

// Text utility pass-throughs. Each endpoint validates its inputs and then
// forwards the upload to the processing service unchanged.
func (s *HTTPServer) handleTextProc(w http.ResponseWriter, r *http.Request, _ Session, segments []string) {
	if r.Method != http.MethodPost || len(segments) != 1 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var input *textproc.FileInput
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		input = &textproc.FileInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "invalid file upload")
		return
	}

	proc := s.service.TextProcessor()
	var (
		payload any
		err     error
	)
	switch segments[0] {
	case "extract-text":
		payload, err = proc.ExtractText(r.Context(), input)
	case "extract-images":
		payload, err = proc.ExtractImages(r.Context(), input)
	case "translate":
		payload, err = proc.Translate(r.Context(), input,
			r.FormValue("text"),
			r.FormValue("target_language"),
			parseBoolField(r.FormValue("file_upload")))
	case "transliterate":
		payload, err = proc.Transliterate(r.Context(), input,
			r.FormValue("text"),
			r.FormValue("target_script"),
			parseBoolField(r.FormValue("file_upload")))
	case "qna":
		payload, err = proc.QnA(r.Context(), input, r.FormValue("question"))
	case "summarize-text":
		payload, err = proc.Summarize(r.Context(), input)
	default:
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		status, message := mapError(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func parseBoolField(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
