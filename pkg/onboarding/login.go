// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"strings"
)

// Login is the identification a coach signs up with. It is either a real
// email address or a bare handle that gets a synthesized address under the
// platform's access domain.
type Login interface {
	// CredentialEmail returns the address stored as the identity credential.
	CredentialEmail(domain string) string
}

type EmailLogin string

func (l EmailLogin) CredentialEmail(_ string) string {
	return string(l)
}

type HandleLogin string

func (l HandleLogin) CredentialEmail(domain string) string {
	return string(l) + "@" + domain
}

// ParseLogin distinguishes the two variants by the presence of '@'.
func ParseLogin(handle string) Login {
	if strings.Contains(handle, "@") {
		return EmailLogin(handle)
	}
	return HandleLogin(handle)
}

// Slugify derives the tenant short-name from the login handle: lower-cased
// with every non-alphanumeric character stripped.
func Slugify(handle string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(handle) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
