package domain

import (
	"errors"
	"testing"
)

func TestTaskValidate_Valid(t *testing.T) {
	task := Task{
		Title:          "Runbook",
		URL:            "123456",
		Downloader:     "confluence",
		IdempotencyKey: "2024-01-01T00:00:00Z",
	}
	if err := task.Validate(); err != nil {
		t.Errorf("expected valid task, got %v", err)
	}
}

func TestTaskValidate_MissingFields(t *testing.T) {
	cases := []Task{
		{Downloader: "confluence", IdempotencyKey: "k"},
		{URL: "1", IdempotencyKey: "k"},
		{URL: "1", Downloader: "confluence"},
	}
	for _, task := range cases {
		if err := task.Validate(); !errors.Is(err, ErrMissingField) {
			t.Errorf("expected ErrMissingField for %+v, got %v", task, err)
		}
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := NewValidationError("url", "", ErrMissingField)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected Is to find wrapped sentinel")
	}
}
