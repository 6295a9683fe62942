package service

import (
	"strings"
)

// ModeratorPolicy is a fixed allow-list of moderator emails, evaluated
// server-side. Membership is case-insensitive.
type ModeratorPolicy struct {
	emails map[string]struct{}
}

// NewModeratorPolicy builds a policy from the configured allow-list
func NewModeratorPolicy(emails []string) *ModeratorPolicy {
	p := &ModeratorPolicy{emails: make(map[string]struct{}, len(emails))}
	for _, email := range emails {
		p.emails[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return p
}

// IsModerator reports whether the email is on the allow-list
func (p *ModeratorPolicy) IsModerator(email string) bool {
	_, ok := p.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
