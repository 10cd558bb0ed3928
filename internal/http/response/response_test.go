package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"zorgmatch/internal/common"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   common.Code
		status int
	}{
		{common.CodeValidation, http.StatusBadRequest},
		{common.CodeUnauthorized, http.StatusUnauthorized},
		{common.CodePaymentRequired, http.StatusPaymentRequired},
		{common.CodeForbidden, http.StatusForbidden},
		{common.CodeNotFound, http.StatusNotFound},
		{common.CodeConflict, http.StatusConflict},
		{common.CodeUnavailable, http.StatusServiceUnavailable},
		{common.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, common.NewError(tc.code, "boom", nil))
		if rec.Code != tc.status {
			t.Errorf("code %s: expected status %d, got %d", tc.code, tc.status, rec.Code)
		}
	}
}

func TestErrorPaymentRequiredFlagsBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, common.NewError(common.CodePaymentRequired, "geen credits beschikbaar", nil))

	body := decodeError(t, rec)
	if body["requires_payment"] != true {
		t.Fatalf("expected requires_payment true, got %v", body["requires_payment"])
	}
	if body["error"] != "geen credits beschikbaar" {
		t.Errorf("expected message preserved, got %v", body["error"])
	}
}

func TestErrorOmitsPaymentFlagOtherwise(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, common.NewError(common.CodeNotFound, "vacancy not found", nil))

	body := decodeError(t, rec)
	if _, present := body["requires_payment"]; present {
		t.Fatalf("expected requires_payment omitted, got %v", body["requires_payment"])
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, common.NewError(common.CodeInternal, "db exploded: secret dsn", errors.New("pq: connection refused")))

	body := decodeError(t, rec)
	if body["error"] != "internal server error" {
		t.Fatalf("expected generic message, got %v", body["error"])
	}
}

func TestErrorIncludesValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, common.NewValidationError("invalid vacancy", map[string]string{"title": "required"}))

	body := decodeError(t, rec)
	fields, ok := body["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected fields object, got %v", body["fields"])
	}
	if fields["title"] != "required" {
		t.Errorf("expected title field error, got %v", fields["title"])
	}
}

func TestErrorUnwrapsWrappedCodes(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", common.NewError(common.CodeConflict, "already applied", nil))

	rec := httptest.NewRecorder()
	Error(rec, wrapped)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped conflict, got %d", rec.Code)
	}
}
