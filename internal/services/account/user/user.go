// Package user defines account identity derivation rules.
package user

import (
	"strings"

	"github.com/google/uuid"
)

// GuestDisplayName labels anonymous accounts until the user picks a name.
const GuestDisplayName = "Guest User"

// EmailID derives a deterministic user id from an email address, so signing
// in with the same email always lands on the same account. Characters
// outside [a-z0-9] collapse to underscores.
func EmailID(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	var b strings.Builder
	b.WriteString("user-")
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// AnonymousID generates a fresh id for an anonymous account.
func AnonymousID() string {
	return "guest-" + uuid.NewString()
}

// DisplayNameFromEmail derives the default display name, the address's
// local part.
func DisplayNameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// ValidEmail reports whether the address is plausible enough to sign in
// with. The account service never sends mail, so a shape check suffices.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.Contains(email[at+1:], "@")
}
