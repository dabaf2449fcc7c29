package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kenta/pressbox/internal/model"
)

func decodeErrorBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return raw
}

// TestWriteError_APIError はAPIErrorのステータスとメッセージがそのまま返ることを検証する。
func TestWriteError_APIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *model.APIError
		wantStatus int
		wantMsg    string
	}{
		{"validation", model.NewParametersMissingError(), http.StatusBadRequest, "Parameters missing"},
		{"unauthorized", model.NewInvalidCredentialsError(), http.StatusUnauthorized, "Invalid credentials"},
		{"not found", model.NewArticleNotFoundError(), http.StatusNotFound, "Article not found"},
		{"conflict", model.NewUsernameTakenError(), http.StatusConflict, model.NewUsernameTakenError().Message},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/article", nil)

			WriteError(w, req, tt.err)

			resp := w.Result()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want %q", ct, "application/json")
			}

			body := decodeErrorBody(t, resp)
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

// TestWriteError_WrappedAPIError はラップされたAPIErrorも展開されることを検証する。
func TestWriteError_WrappedAPIError(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/article", nil)

	wrapped := fmt.Errorf("failed to create article: %w", model.NewTitleContentRequiredError())
	WriteError(w, req, wrapped)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	body := decodeErrorBody(t, resp)
	if body["error"] != "Title and content are required" {
		t.Errorf("error = %q, want the validation message", body["error"])
	}
}

// TestWriteError_UnexpectedError は想定外のエラーが詳細を漏らさず500になることを検証する。
func TestWriteError_UnexpectedError(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/article", nil)

	WriteError(w, req, errors.New("pq: connection refused"))

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	body := decodeErrorBody(t, resp)
	if body["error"] != "An unknown error occurred" {
		t.Errorf("error = %q, want generic message", body["error"])
	}
}

// TestWriteError_BodyHasOnlyErrorField はレスポンスがerrorフィールドのみ持つことを検証する。
func TestWriteError_BodyHasOnlyErrorField(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/article", nil)

	WriteError(w, req, model.NewNoImagesError())

	body := decodeErrorBody(t, w.Result())
	if len(body) != 1 {
		t.Errorf("body has %d fields, want 1: %v", len(body), body)
	}
	if _, ok := body["error"]; !ok {
		t.Error("missing required field: error")
	}
}
