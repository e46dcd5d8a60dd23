package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"financeai/internal/core"
	"financeai/internal/store"
)

func TestResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().
		Status(http.StatusCreated).
		Header("X-Test", "yes").
		JSON(map[string]int{"n": 1}).
		Write(rr)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if rr.Header().Get("X-Test") != "yes" {
		t.Fatal("custom header missing")
	}
	if body := rr.Body.String(); body != "{\"n\":1}\n" {
		t.Fatalf("body = %q", body)
	}
}

func TestResponseBuilderWithoutPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().Status(http.StatusNoContent).Write(rr)

	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
}

func TestResponseBuilderEncodeFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().JSON(map[string]any{"ch": make(chan int)}).Write(rr)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "failed to encode response") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestErrorFor(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		message string
	}{
		{"duplicate category", store.ErrDuplicateCategory, http.StatusConflict, store.ErrDuplicateCategory.Error()},
		{"request error", badRequest("bad %s", "input"), http.StatusBadRequest, "bad input"},
		{"validation", core.ErrEmptyTitle, http.StatusUnprocessableEntity, core.ErrEmptyTitle.Error()},
		{"wrapped validation", fmt.Errorf("limit: %w", core.ErrInvalidLimit), http.StatusUnprocessableEntity, "limit: "},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			errorFor(tt.err).Write(rr)

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if !strings.Contains(rr.Body.String(), tt.message) {
				t.Fatalf("body %q does not contain %q", rr.Body.String(), tt.message)
			}
			if strings.Contains(rr.Body.String(), "exploded") {
				t.Fatal("internal error details leaked")
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		builder *ResponseBuilder
		want    int
	}{
		{BadRequestError("x"), http.StatusBadRequest},
		{UnprocessableEntityError("x"), http.StatusUnprocessableEntity},
		{NotFoundError("x"), http.StatusNotFound},
		{ConflictError("x"), http.StatusConflict},
		{InternalServerError("x"), http.StatusInternalServerError},
		{ServiceUnavailableError("x"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		tt.builder.Write(rr)
		if rr.Code != tt.want {
			t.Errorf("status = %d, want %d", rr.Code, tt.want)
		}
		if rr.Body.String() != "{\"error\":\"x\"}\n" {
			t.Errorf("body = %q", rr.Body.String())
		}
	}
}
