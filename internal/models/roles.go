// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package models

import (
	"strings"
	"time"
)

// Role is a profile's authorization level.
type Role string

// Role constants. A profile holds exactly one role.
const (
	// RoleOwner runs the board.
	RoleOwner Role = "owner"

	// RoleAdmin curates job listings.
	RoleAdmin Role = "admin"

	// RoleUser is the default for every signed-in account.
	RoleUser Role = "user"
)

// ValidRoles contains all valid role names.
var ValidRoles = []Role{RoleOwner, RoleAdmin, RoleUser}

// ParseRole normalizes s and reports whether it names a valid role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidRoles {
		if r == valid {
			return r, true
		}
	}
	return "", false
}

// CanManageJobs is the single rule for creating and mutating job listings.
// Every role-gated path calls it instead of comparing role strings.
func CanManageJobs(role Role) bool {
	return role == RoleAdmin || role == RoleOwner
}

// Profile is a user's account record. ID matches the auth identity.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        Role      `json:"role"`
	Points      int64     `json:"points"` // Changed only through the points ledger
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
