// Package lifecycle holds the single shared definition of every status
// transition in the system. All surfaces (company dashboard, admin queues,
// athlete views) consult these tables instead of re-deriving allowed actions
// per screen.
package lifecycle

import (
	"errors"
	"fmt"

	"bridged/internal/models"
)

var (
	// ErrInvalidTransition is returned when the target status is not
	// reachable from the current one.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyTerminal is returned when the record has reached a final
	// status and the requested transition would move it again.
	ErrAlreadyTerminal = errors.New("record is already in a terminal status")

	// ErrValidation covers client-side payload validation failures caught
	// before any store call is made.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the caller's role or party is not
	// allowed to drive the transition.
	ErrForbidden = errors.New("caller may not perform this transition")
)

// Machine is a transition table over string statuses.
type Machine struct {
	transitions map[string][]string
	terminal    map[string]bool
}

// NewMachine builds a machine from a transition table. Statuses that appear
// only as targets are terminal.
func NewMachine(transitions map[string][]string) *Machine {
	terminal := make(map[string]bool)
	for _, targets := range transitions {
		for _, t := range targets {
			if _, hasOut := transitions[t]; !hasOut {
				terminal[t] = true
			}
		}
	}
	return &Machine{transitions: transitions, terminal: terminal}
}

// Can reports whether the machine allows moving from one status to another.
func (m *Machine) Can(from, to string) bool {
	for _, t := range m.transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func (m *Machine) IsTerminal(status string) bool {
	return m.terminal[status]
}

// Validate returns a typed error when the transition is not allowed.
func (m *Machine) Validate(from, to string) error {
	if m.Can(from, to) {
		return nil
	}
	if m.IsTerminal(from) {
		return fmt.Errorf("%w: %s", ErrAlreadyTerminal, from)
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Shared machines, one per entity type.
var (
	Applications = NewMachine(map[string][]string{
		string(models.ApplicationApplied): {
			string(models.ApplicationAccepted),
			string(models.ApplicationRejected),
		},
	})

	Verifications = NewMachine(map[string][]string{
		string(models.VerificationPending): {
			string(models.VerificationVerified),
			string(models.VerificationRejected),
		},
	})

	Deliverables = NewMachine(map[string][]string{
		string(models.DeliverableNotStarted): {
			string(models.DeliverableInProgress),
			string(models.DeliverableCompleted),
		},
		string(models.DeliverableInProgress): {
			string(models.DeliverableCompleted),
		},
		string(models.DeliverableCompleted): {
			string(models.DeliverableApproved),
			string(models.DeliverableNeedsRevision),
		},
		string(models.DeliverableNeedsRevision): {
			string(models.DeliverableCompleted),
		},
	})

	// A declined extension may be re-requested while the window is still
	// open, so rejected is not terminal.
	Extensions = NewMachine(map[string][]string{
		string(models.ExtensionNone): {
			string(models.ExtensionPending),
		},
		string(models.ExtensionPending): {
			string(models.ExtensionApproved),
			string(models.ExtensionRejected),
		},
		string(models.ExtensionRejected): {
			string(models.ExtensionPending),
		},
	})

	Partnerships = NewMachine(map[string][]string{
		string(models.PartnershipPending): {
			string(models.PartnershipActive),
			string(models.PartnershipCancelled),
		},
		string(models.PartnershipActive): {
			string(models.PartnershipCompleted),
			string(models.PartnershipCancelled),
		},
	})

	Campaigns = NewMachine(map[string][]string{
		string(models.CampaignPendingApproval): {
			string(models.CampaignApproved),
			string(models.CampaignRejected),
		},
		string(models.CampaignPendingReview): {
			string(models.CampaignApproved),
			string(models.CampaignRejected),
		},
	})

	ModelList = NewMachine(map[string][]string{
		string(models.ModelListPending): {
			string(models.ModelListApproved),
			string(models.ModelListRejected),
		},
	})

	Payments = NewMachine(map[string][]string{
		string(models.PaymentScheduled): {
			string(models.PaymentPaid),
		},
	})
)
