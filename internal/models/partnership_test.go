package models

import "testing"

func TestComputeFees(t *testing.T) {
	cases := []struct {
		stipend     float64
		wantFee     float64
		wantTotal   float64
		description string
	}{
		{1000, 170, 1170, "round stipend"},
		{1500, 255, 1755, "another round stipend"},
		{333.33, 56.67, 390, "fractional stipend rounds to cents"},
		{0, 0, 0, "zero stipend"},
	}

	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			fee, total := ComputeFees(tc.stipend)
			if fee != tc.wantFee {
				t.Errorf("service fee = %v, want %v", fee, tc.wantFee)
			}
			if total != tc.wantTotal {
				t.Errorf("total cost = %v, want %v", total, tc.wantTotal)
			}
		})
	}
}

func TestPaperworkComplete(t *testing.T) {
	base := Partnership{
		PlatformSignedByCompany:   true,
		PlatformSignedByAthlete:   true,
		InternshipSignedByCompany: true,
		InternshipSignedByAthlete: true,
	}

	if !base.PaperworkComplete(false) {
		t.Error("adult athlete with all four signatures should be complete")
	}
	if base.PaperworkComplete(true) {
		t.Error("minor athlete without parental consent should be incomplete")
	}

	withConsent := base
	withConsent.ConsentSignedByParent = true
	withConsent.ConsentAckedByAthlete = true
	if !withConsent.PaperworkComplete(true) {
		t.Error("minor athlete with consent pair signed should be complete")
	}

	missing := base
	missing.InternshipSignedByAthlete = false
	if missing.PaperworkComplete(false) {
		t.Error("missing internship signature should be incomplete")
	}
}

func TestHasParty(t *testing.T) {
	p := Partnership{AthleteID: 7, CompanyID: 12}
	if !p.HasParty(7) || !p.HasParty(12) {
		t.Error("both parties should have access")
	}
	if p.HasParty(99) {
		t.Error("a third user should not have access")
	}
}
