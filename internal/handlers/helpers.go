package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
)

const (
	// maxUploadBytes bounds multipart uploads
	maxUploadBytes = 20 << 20
	// maxJSONBytes bounds JSON request bodies
	maxJSONBytes = 5 << 20
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteServiceError maps service errors to status codes:
// validation and unparseable uploads are 400, unknown ids and empty exports are 404,
// anything else is 500 with fallback as the message.
func WriteServiceError(w http.ResponseWriter, logger arbor.ILogger, err error, fallback string) {
	var verr *interfaces.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message, Details: verr.Details})
	case errors.Is(err, interfaces.ErrValidation):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, interfaces.ErrNoParsableLines):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "파싱 가능한 로그가 없습니다.", Details: err.Error()})
	case errors.Is(err, interfaces.ErrReminderNotFound):
		WriteError(w, http.StatusNotFound, "알림을 찾을 수 없습니다.")
	case errors.Is(err, interfaces.ErrDocumentNotFound):
		WriteError(w, http.StatusNotFound, "문서를 찾을 수 없습니다.")
	case errors.Is(err, interfaces.ErrNoLogsToExport):
		WriteError(w, http.StatusNotFound, "내보낼 로그가 없습니다.")
	default:
		logger.Error().Err(err).Msg(fallback)
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fallback, Details: err.Error()})
	}
}

// DecodeJSON reads a bounded JSON body into v
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return interfaces.NewValidationError("request body is empty")
		}
		return interfaces.NewValidationErrorf("Invalid request body", "%v", err)
	}
	return nil
}

// ReadUploadedFile parses a multipart form and returns the named file's name and contents
func ReadUploadedFile(w http.ResponseWriter, r *http.Request, field string) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, interfaces.NewValidationErrorf("파일이 필요합니다.", "%v", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, interfaces.NewValidationErrorf("파일이 필요합니다.", "missing form field %q", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return header.Filename, data, nil
}

// GetLimitOffset extracts limit/offset from the query string.
// Missing or malformed values fall back to defaultLimit and 0.
func GetLimitOffset(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit

	if s := r.URL.Query().Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 {
			limit = l
		}
	}

	if s := r.URL.Query().Get("offset"); s != "" {
		if o, err := strconv.Atoi(s); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}

// PathSegments splits the path below prefix: "/api/reminders/abc/send" -> ["abc", "send"]
func PathSegments(r *http.Request, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// attachmentHeader builds a Content-Disposition value for a download
func attachmentHeader(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q", fileName)
}
