// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestJSONErrorRendersAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"quota", QuotaExceededError("limit reached"), http.StatusTooManyRequests, "QUOTA_EXCEEDED"},
		{"storage", StorageError(), http.StatusBadGateway, "STORAGE_FAILURE"},
		{"not found", NotFoundError("sound"), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", DuplicateError("username"), http.StatusConflict, "DUPLICATE"},
		{"forbidden", ForbiddenError(""), http.StatusForbidden, "FORBIDDEN"},
		{"wrapped", fmt.Errorf("handler: %w", TokenRevokedError()), http.StatusUnauthorized, "TOKEN_REVOKED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeBody(t, rec)
			if body.Success || body.Error == nil || body.Error.Code != tt.wantCode {
				t.Fatalf("body = %+v, want code %s", body, tt.wantCode)
			}
		})
	}
}

func TestJSONErrorHidesUnexpectedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body.Error.Message != "an unexpected error occurred" {
		t.Fatalf("leaked message %q", body.Error.Message)
	}
}

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("download: %w", QuotaExceededError("x"))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatal("expected errors.Is to reach ErrQuotaExceeded")
	}
	if !IsAppError(err) {
		t.Fatal("expected IsAppError")
	}
}

func TestPaginatedMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{"a"}, 2, 10, 21)

	body := decodeBody(t, rec)
	if body.Meta == nil || body.Meta.TotalPages != 3 || body.Meta.Page != 2 {
		t.Fatalf("meta = %+v", body.Meta)
	}
}

func TestOKMessageCarriesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	OKMessage(rec, map[string]string{"status": "added"}, "Sound added to collection.")

	body := decodeBody(t, rec)
	if !body.Success || body.Message != "Sound added to collection." {
		t.Fatalf("body = %+v", body)
	}
}
