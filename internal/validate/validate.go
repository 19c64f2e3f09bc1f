package validate

import (
	"regexp"
	"strings"

	"storefront/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9 ()-]{3,30}$`)
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

// Email trims s and checks the address shape.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Password accepts any non-empty password bcrypt can hash in full.
func Password(s string) bool {
	return s != "" && len(s) <= maxPasswordBytes
}

// Phone allows digits, spaces, parentheses, dashes and a leading plus.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "" || rePhone.MatchString(s)
}

// ID validates a resource identifier (24 hex characters).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, domain.ValidID(s)
}
