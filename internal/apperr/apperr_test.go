package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindMatchingThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("Blog not found"))

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("NotFound must not match ErrConflict")
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("status = %d", HTTPStatus(err))
	}
	if PublicMessage(err) != "Blog not found" {
		t.Fatalf("message = %q", PublicMessage(err))
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal("Could not save the token", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable with errors.Is")
	}
	if HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("status = %d", HTTPStatus(err))
	}
	if PublicMessage(err) != "Internal server error" {
		t.Fatalf("internal message leaked: %q", PublicMessage(err))
	}
	if PublicMessage(errors.New("boom")) != "Internal server error" {
		t.Fatalf("plain errors must be treated as internal")
	}
}

func TestStatusTable(t *testing.T) {
	cases := map[*Error]int{
		BadRequest("x"):      http.StatusBadRequest,
		Unauthorized("x"):    http.StatusUnauthorized,
		Forbidden("x"):       http.StatusForbidden,
		Conflict("x"):        http.StatusConflict,
		TooManyRequests("x"): http.StatusTooManyRequests,
		Unprocessable("x"):   http.StatusUnprocessableEntity,
	}
	for err, want := range cases {
		if got := HTTPStatus(err); got != want {
			t.Fatalf("%s: status = %d, want %d", err.Kind, got, want)
		}
	}
}
