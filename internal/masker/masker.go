// Package masker hides personal data before it reaches the logs.
package masker

import "strings"

const emailVisible = 2

// Email keeps the first two characters of the local part and the domain:
// "asha.rao@example.com" becomes "as***@example.com". Values that are not
// emails are masked completely.
func Email(v string) string {
	if v == "" {
		return ""
	}

	local, domain, ok := strings.Cut(v, "@")
	if !ok || domain == "" {
		return "***"
	}

	r := []rune(local)
	if len(r) > emailVisible {
		r = r[:emailVisible]
	}
	return string(r) + "***@" + domain
}
