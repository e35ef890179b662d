package models

import (
	"testing"
	"time"
)

func TestAgeAt(t *testing.T) {
	dob := time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want int
	}{
		{"day before birthday", time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 13},
		{"on birthday", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 14},
		{"day after birthday", time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), 14},
		{"earlier month", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 13},
		{"later month", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), 14},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AgeAt(dob, tc.at); got != tc.want {
				t.Errorf("AgeAt() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIsMinor(t *testing.T) {
	seventeen := time.Now().AddDate(-17, 0, 0)
	nineteen := time.Now().AddDate(-19, 0, 0)

	minor := &User{DateOfBirth: &seventeen}
	if !minor.IsMinor() {
		t.Error("a 17 year old should be a minor")
	}

	adult := &User{DateOfBirth: &nineteen}
	if adult.IsMinor() {
		t.Error("a 19 year old should not be a minor")
	}

	noDOB := &User{}
	if noDOB.IsMinor() {
		t.Error("a user without a date of birth is treated as an adult")
	}
}

func TestHasParentInfo(t *testing.T) {
	u := &User{}
	if u.HasParentInfo() {
		t.Error("empty parent info should report false")
	}

	u.ParentName = "Pat Smith"
	if u.HasParentInfo() {
		t.Error("name alone is not enough")
	}

	u.ParentEmail = "pat@example.com"
	if !u.HasParentInfo() {
		t.Error("name and email together should report true")
	}
}
