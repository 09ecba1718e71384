package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code      derrors.Code `json:"code"`
	Message   string       `json:"message"`
	Line      int          `json:"line,omitempty"`
	Text      string       `json:"text,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var pe *derrors.ParseError
	if errors.As(err, &pe) {
		return http.StatusBadRequest
	}
	switch derrors.GetCode(err) {
	case derrors.ErrCodeValidation, derrors.ErrCodeNodeNotFound, derrors.ErrCodeScope,
		derrors.ErrCodeParse, derrors.ErrCodeUnsupportedFormat, derrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case derrors.ErrCodeExportRejected:
		return http.StatusBadGateway
	case derrors.ErrCodeExportTimeout:
		return http.StatusGatewayTimeout
	case derrors.ErrCodeToolNotFound:
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Code:      derrors.GetCode(err),
		Message:   derrors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	}
	var pe *derrors.ParseError
	if errors.As(err, &pe) {
		resp.Code = pe.Code()
		resp.Line = pe.Line
		resp.Text = pe.Text
	}
	if resp.Code == "" {
		resp.Code = derrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		resp.Message = "internal error"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func itoa(n int) string { return strconv.Itoa(n) }
