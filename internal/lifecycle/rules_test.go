package lifecycle

import (
	"errors"
	"testing"
	"time"

	"bridged/internal/models"
)

func TestValidateSubmission(t *testing.T) {
	cases := []struct {
		name        string
		subType     models.SubmissionType
		sub         Submission
		existingURL string
		wantErr     bool
	}{
		{"link with url", models.SubmissionLink, Submission{URL: "https://example.com/post"}, "", false},
		{"link without url", models.SubmissionLink, Submission{Notes: "see my profile"}, "", true},
		{"file with upload", models.SubmissionFile, Submission{HasFile: true}, "", false},
		{"file with stored url", models.SubmissionFile, Submission{}, "submissions/abc.pdf", false},
		{"file with nothing", models.SubmissionFile, Submission{Notes: "coming soon"}, "", true},
		{"text with notes", models.SubmissionText, Submission{Notes: "wrote the recap"}, "", false},
		{"text without notes", models.SubmissionText, Submission{URL: "https://example.com"}, "", true},
		{"unknown type", models.SubmissionType("video"), Submission{URL: "x"}, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSubmission(tc.subType, tc.sub, tc.existingURL)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCanRequestExtension(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name             string
		endDate          time.Time
		alreadyRequested bool
		want             bool
	}{
		{"end date 29 days out", now.AddDate(0, 0, 29), false, true},
		{"end date exactly 30 days out", now.Add(30 * 24 * time.Hour), false, true},
		{"end date 31 days out", now.AddDate(0, 0, 31), false, false},
		{"end date already passed", now.AddDate(0, 0, -5), false, true},
		{"already requested", now.AddDate(0, 0, 10), true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanRequestExtension(tc.endDate, now, tc.alreadyRequested); got != tc.want {
				t.Errorf("CanRequestExtension() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanSignInternship(t *testing.T) {
	if CanSignInternship("") {
		t.Error("signing should be blocked before the agreement is uploaded")
	}
	if !CanSignInternship("agreements/p1/doc.pdf") {
		t.Error("signing should be allowed once the agreement is uploaded")
	}
}

func TestDefaultOnboardingSteps(t *testing.T) {
	steps := DefaultOnboardingSteps()
	if len(steps) == 0 {
		t.Fatal("expected a non-empty checklist")
	}
	for i, step := range steps {
		if step.StepNumber != i+1 {
			t.Errorf("step %d has number %d", i, step.StepNumber)
		}
		if step.IsCompleted {
			t.Errorf("step %d should start incomplete", step.StepNumber)
		}
	}
}
