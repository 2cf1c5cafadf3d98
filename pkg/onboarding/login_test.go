// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"testing"
)

func TestParseLogin(t *testing.T) {
	testCases := []struct {
		name          string
		handle        string
		expectedEmail string
	}{
		{
			name:          "bare handle gets the access domain",
			handle:        "felipesilva",
			expectedEmail: "felipesilva@acesso.apexpro.fit",
		},
		{
			name:          "real email is kept verbatim",
			handle:        "ana@studiofit.com.br",
			expectedEmail: "ana@studiofit.com.br",
		},
		{
			name:          "handle with digits",
			handle:        "coach2026",
			expectedEmail: "coach2026@acesso.apexpro.fit",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			login := ParseLogin(tc.handle)

			if got := login.CredentialEmail("acesso.apexpro.fit"); got != tc.expectedEmail {
				t.Errorf("expected %q, got %q", tc.expectedEmail, got)
			}
		})
	}
}

func TestParseLoginVariants(t *testing.T) {
	if _, ok := ParseLogin("felipesilva").(HandleLogin); !ok {
		t.Errorf("expected HandleLogin for a bare handle")
	}
	if _, ok := ParseLogin("ana@studiofit.com.br").(EmailLogin); !ok {
		t.Errorf("expected EmailLogin for an address")
	}
}

func TestSlugify(t *testing.T) {
	testCases := []struct {
		handle   string
		expected string
	}{
		{"felipesilva", "felipesilva"},
		{"Felipe.Silva", "felipesilva"},
		{"ana@studiofit.com.br", "anastudiofitcombr"},
		{"coach_2026", "coach2026"},
		{"---", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.handle, func(t *testing.T) {
			if got := Slugify(tc.handle); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
