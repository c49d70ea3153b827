package domain

import (
	"context"
	"sort"
)

const DefaultProcessNamePattern = "systemd|.*sh"

type User struct {
	ID                           string
	Username                     string
	FirstName                    string
	LastName                     string
	Locale                       string
	Active                       bool
	AccessCode                   string
	ProcessNamePattern           string
	ProhibitedProcessNamePattern string

	RuleSets []*RuleSet
	Devices  []*User2Device
}

func (u *User) FullName() string {
	if u.FirstName != "" {
		if u.LastName != "" {
			return u.FirstName + " " + u.LastName
		}
		return u.FirstName
	}
	return u.Username
}

// MaxRulePriority returns 0 for a user without rule sets.
func (u *User) MaxRulePriority() int {
	highest := 0
	for _, rs := range u.RuleSets {
		highest = max(highest, rs.Priority)
	}
	return highest
}

func (u *User) SortedRuleSets() []*RuleSet {
	sorted := make([]*RuleSet, len(u.RuleSets))
	copy(sorted, u.RuleSets)
	SortRuleSets(sorted)
	return sorted
}

// SortedUser2Devices orders by descending percent, then device name.
func (u *User) SortedUser2Devices() []*User2Device {
	sorted := make([]*User2Device, len(u.Devices))
	copy(sorted, u.Devices)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Percent != sorted[j].Percent {
			return sorted[i].Percent > sorted[j].Percent
		}
		return sorted[i].DeviceName < sorted[j].DeviceName
	})
	return sorted
}

type UserRepository interface {
	// CreateUser stores the user and its initial rule set atomically.
	CreateUser(ctx context.Context, user *User, defaultRuleSet *RuleSet) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, userID string, params UpdateUserParams) error
	DeleteUser(ctx context.Context, userID string) error
}

type UpdateUserParams struct {
	FirstName          string
	LastName           string
	Locale             string
	Active             bool
	ProcessNamePattern string
}
