package handler

import (
	"errors"
	"testing"

	"github.com/taskserver/task-api/internal/core/domain"
)

func TestValidator_FieldNamesFromJSONTags(t *testing.T) {
	err := NewValidator().Validate(&signupRequest{Email: "bad", Password: "123"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatal("expected error to unwrap to ErrValidation")
	}

	got := map[string]string{}
	for _, f := range ve.Fields {
		got[f.Field] = f.Message
	}
	if got["email"] != "email must be a valid email" {
		t.Errorf("unexpected email message: %q", got["email"])
	}
	if got["password"] != "password must be at least 6 characters" {
		t.Errorf("unexpected password message: %q", got["password"])
	}
}

func TestValidator_Valid(t *testing.T) {
	if err := NewValidator().Validate(&loginRequest{Email: "a@example.com", Password: "x"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
