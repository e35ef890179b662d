package lifecycle

import (
	"errors"
	"testing"

	"bridged/internal/models"
)

func TestApplicationTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{string(models.ApplicationApplied), string(models.ApplicationAccepted), true},
		{string(models.ApplicationApplied), string(models.ApplicationRejected), true},
		{string(models.ApplicationAccepted), string(models.ApplicationRejected), false},
		{string(models.ApplicationRejected), string(models.ApplicationAccepted), false},
		{string(models.ApplicationAccepted), string(models.ApplicationApplied), false},
	}

	for _, tc := range cases {
		if got := Applications.Can(tc.from, tc.to); got != tc.allowed {
			t.Errorf("Applications.Can(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestApplicationTerminalStatuses(t *testing.T) {
	for _, status := range []string{string(models.ApplicationAccepted), string(models.ApplicationRejected)} {
		if !Applications.IsTerminal(status) {
			t.Errorf("expected %q to be terminal", status)
		}
	}
	if Applications.IsTerminal(string(models.ApplicationApplied)) {
		t.Error("applied should not be terminal")
	}
}

func TestValidateReturnsTypedErrors(t *testing.T) {
	err := Applications.Validate(string(models.ApplicationAccepted), string(models.ApplicationRejected))
	if !errors.Is(err, ErrAlreadyTerminal) {
		t.Errorf("expected ErrAlreadyTerminal from a terminal status, got %v", err)
	}

	err = Deliverables.Validate(string(models.DeliverableNotStarted), string(models.DeliverableApproved))
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	if err := Deliverables.Validate(string(models.DeliverableCompleted), string(models.DeliverableApproved)); err != nil {
		t.Errorf("expected completed -> approved to be allowed, got %v", err)
	}
}

func TestDeliverableTransitions(t *testing.T) {
	cases := []struct {
		from, to models.DeliverableStatus
		allowed  bool
	}{
		{models.DeliverableNotStarted, models.DeliverableInProgress, true},
		{models.DeliverableNotStarted, models.DeliverableCompleted, true},
		{models.DeliverableNotStarted, models.DeliverableApproved, false},
		{models.DeliverableNotStarted, models.DeliverableNeedsRevision, false},
		{models.DeliverableInProgress, models.DeliverableCompleted, true},
		{models.DeliverableCompleted, models.DeliverableApproved, true},
		{models.DeliverableCompleted, models.DeliverableNeedsRevision, true},
		{models.DeliverableNeedsRevision, models.DeliverableCompleted, true},
		{models.DeliverableNeedsRevision, models.DeliverableApproved, false},
		{models.DeliverableApproved, models.DeliverableCompleted, false},
	}

	for _, tc := range cases {
		if got := Deliverables.Can(string(tc.from), string(tc.to)); got != tc.allowed {
			t.Errorf("Deliverables.Can(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestVerificationTransitions(t *testing.T) {
	if !Verifications.Can(string(models.VerificationPending), string(models.VerificationVerified)) {
		t.Error("pending -> verified should be allowed")
	}
	if Verifications.Can(string(models.VerificationVerified), string(models.VerificationRejected)) {
		t.Error("verified -> rejected should not be allowed")
	}
	if Verifications.Can(string(models.VerificationRejected), string(models.VerificationVerified)) {
		t.Error("rejected -> verified should not be allowed")
	}
}

func TestExtensionTransitions(t *testing.T) {
	if !Extensions.Can(string(models.ExtensionNone), string(models.ExtensionPending)) {
		t.Error("none -> pending should be allowed")
	}
	if !Extensions.Can(string(models.ExtensionPending), string(models.ExtensionRejected)) {
		t.Error("pending -> rejected should be allowed")
	}
	if Extensions.Can(string(models.ExtensionNone), string(models.ExtensionApproved)) {
		t.Error("none -> approved should not be allowed")
	}
	if !Extensions.Can(string(models.ExtensionRejected), string(models.ExtensionPending)) {
		t.Error("rejected -> pending should be allowed so a declined request can be reopened")
	}
	if Extensions.IsTerminal(string(models.ExtensionRejected)) {
		t.Error("rejected should not be terminal")
	}
	if !Extensions.IsTerminal(string(models.ExtensionApproved)) {
		t.Error("approved should be terminal")
	}
}

func TestPartnershipTransitions(t *testing.T) {
	cases := []struct {
		from, to models.PartnershipStatus
		allowed  bool
	}{
		{models.PartnershipPending, models.PartnershipActive, true},
		{models.PartnershipPending, models.PartnershipCancelled, true},
		{models.PartnershipPending, models.PartnershipCompleted, false},
		{models.PartnershipActive, models.PartnershipCompleted, true},
		{models.PartnershipActive, models.PartnershipCancelled, true},
		{models.PartnershipActive, models.PartnershipPending, false},
		{models.PartnershipCompleted, models.PartnershipPending, false},
		{models.PartnershipCompleted, models.PartnershipActive, false},
		{models.PartnershipCancelled, models.PartnershipActive, false},
	}

	for _, tc := range cases {
		if got := Partnerships.Can(string(tc.from), string(tc.to)); got != tc.allowed {
			t.Errorf("Partnerships.Can(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}

	for _, status := range []models.PartnershipStatus{models.PartnershipCompleted, models.PartnershipCancelled} {
		if !Partnerships.IsTerminal(string(status)) {
			t.Errorf("expected %q to be terminal", status)
		}
	}
}

func TestCampaignTransitions(t *testing.T) {
	if !Campaigns.Can(string(models.CampaignPendingApproval), string(models.CampaignApproved)) {
		t.Error("pending approval -> approved should be allowed")
	}
	if !Campaigns.Can(string(models.CampaignPendingReview), string(models.CampaignRejected)) {
		t.Error("pending review -> rejected should be allowed")
	}
	if Campaigns.Can(string(models.CampaignApproved), string(models.CampaignRejected)) {
		t.Error("approved -> rejected should not be allowed")
	}
}

func TestPaymentTransitions(t *testing.T) {
	if !Payments.Can(string(models.PaymentScheduled), string(models.PaymentPaid)) {
		t.Error("scheduled -> paid should be allowed")
	}
	if Payments.Can(string(models.PaymentPaid), string(models.PaymentScheduled)) {
		t.Error("paid -> scheduled should not be allowed")
	}
}
