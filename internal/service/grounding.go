package service

import "strings"

// IsGrounded interprets the verifier model's raw output. The check is lenient
// on formatting (case, surrounding whitespace, extra words) but fails closed:
// any output that does not contain "YES" counts as ungrounded.
func IsGrounded(raw string) bool {
	return strings.Contains(strings.ToUpper(strings.TrimSpace(raw)), "YES")
}
