package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"zorgmatch/internal/common"
)

type ErrorCollector interface {
	IncErrors()
}

var errorCollector ErrorCollector

// SetErrorCollector wires the metrics collector into error rendering. Safe to
// leave unset.
func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

type errorBody struct {
	Error           string            `json:"error"`
	Code            string            `json:"code"`
	Fields          map[string]string `json:"fields,omitempty"`
	RequiresPayment bool              `json:"requires_payment,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)
	status := statusFor(code)
	if errorCollector != nil && status >= http.StatusInternalServerError {
		errorCollector.IncErrors()
	}
	body := errorBody{Error: messageFor(err, status), Code: string(code)}
	var appErr *common.Error
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		body.Fields = appErr.Fields
	}
	if code == common.CodePaymentRequired {
		body.RequiresPayment = true
	}
	JSON(w, status, body)
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodePaymentRequired:
		return http.StatusPaymentRequired
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Internal error details never reach the client.
func messageFor(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
