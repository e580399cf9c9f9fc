/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("Product", "123")

	expected := `Product with key "123" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestStoreNotFoundError(t *testing.T) {
	err := NewStoreNotFoundError("virtualStore1")

	expected := `store with key "virtualStore1" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Type != "store" {
		t.Errorf("Expected NotFoundError of type store, got %#v", err)
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "id",
			message:  "invalid UUID format",
			expected: `validation failed for field "id": invalid UUID format`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "unsupported JSON structure",
			expected: "validation failed: unsupported JSON structure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Error("ValidationError should match ErrInvalidInput")
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewStoreNotFoundError("missing")
	wrapped := fmt.Errorf("create entity: %w", original)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("Wrapped NotFoundError should still match ErrNotFound")
	}

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should work with wrapped errors")
	}

	if IsValidationError(wrapped) {
		t.Error("NotFoundError must not match ErrInvalidInput")
	}
}

func TestSentinelErrors(t *testing.T) {
	if errors.Is(ErrNotFound, ErrInvalidInput) || errors.Is(ErrInvalidInput, ErrNotFound) {
		t.Error("Sentinel errors should be distinct")
	}
}
