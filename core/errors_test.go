package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestCommErrorFormatting(t *testing.T) {
	base := errors.New("boom")

	err := &CommError{Op: "discovery.Discover", Category: CategoryDiscovery, ActorID: "actor-1", Err: base}
	if got := err.Error(); got != "discovery.Discover [actor-1]: boom" {
		t.Errorf("unexpected message: %q", got)
	}

	err = &CommError{Op: "dispatch", Category: CategoryNetwork, Err: base}
	if got := err.Error(); got != "dispatch: boom" {
		t.Errorf("unexpected message: %q", got)
	}

	err = &CommError{Message: "plain message"}
	if got := err.Error(); got != "plain message" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestCommErrorUnwrap(t *testing.T) {
	err := NewCommError("discovery.Discover", CategoryDiscovery,
		fmt.Errorf("%w: gateway 503", ErrDiscoveryFailed))

	if !errors.Is(err, ErrDiscoveryFailed) {
		t.Error("wrapped sentinel not reachable through errors.Is")
	}

	var ce *CommError
	if !errors.As(err, &ce) {
		t.Fatal("errors.As failed to recover *CommError")
	}
	if ce.Category != CategoryDiscovery {
		t.Errorf("category = %q", ce.Category)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCategory
	}{
		{ErrConnectionFailed, CategoryNetwork},
		{ErrRequestFailed, CategoryNetwork},
		{ErrTimeout, CategoryNetwork},
		{ErrDiscoveryFailed, CategoryDiscovery},
		{ErrMetadataUnparseable, CategoryDiscovery},
		{ErrHandlerNotFound, CategoryMatching},
		{ErrExtractionIncomplete, CategoryExtraction},
		{ErrValidationFailed, CategoryValidation},
		{ErrInvalidConfiguration, CategoryConfiguration},
		{errors.New("anything else"), CategoryExecution},
		{fmt.Errorf("wrapped: %w", ErrConnectionFailed), CategoryNetwork},
	}

	for _, tc := range cases {
		if got := Categorize(tc.err); got != tc.want {
			t.Errorf("Categorize(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}

	// An explicit CommError category wins over sentinel inference.
	err := NewCommError("op", CategoryValidation, ErrConnectionFailed)
	if got := Categorize(err); got != CategoryValidation {
		t.Errorf("explicit category overridden: got %q", got)
	}
}

func TestIsRetryable(t *testing.T) {
	for _, err := range []error{ErrTimeout, ErrConnectionFailed, ErrActorUnreachable, ErrDiscoveryUnavailable} {
		if !IsRetryable(err) {
			t.Errorf("%v should be retryable", err)
		}
	}
	for _, err := range []error{ErrValidationFailed, ErrInvalidConfiguration, errors.New("other")} {
		if IsRetryable(err) {
			t.Errorf("%v should not be retryable", err)
		}
	}
}
