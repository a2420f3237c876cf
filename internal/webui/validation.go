package webui

import (
	"net/mail"
	"strings"

	"friendfeed/internal/service"
)

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

func validUsername(s string) bool {
	return service.ValidUsername(s)
}
