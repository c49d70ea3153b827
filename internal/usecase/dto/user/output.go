package userdto

import "github.com/LavaJover/little-brother/internal/domain"

type User struct {
	Username     string   `json:"username"`
	FullName     string   `json:"full_name"`
	Locale       string   `json:"locale,omitempty"`
	Active       bool     `json:"active"`
	RuleSetCount int      `json:"rule_set_count"`
	Devices      []string `json:"devices,omitempty"`
}

func NewUser(u *domain.User) User {
	out := User{
		Username:     u.Username,
		FullName:     u.FullName(),
		Locale:       u.Locale,
		Active:       u.Active,
		RuleSetCount: len(u.RuleSets),
	}
	for _, d := range u.SortedUser2Devices() {
		out.Devices = append(out.Devices, d.DeviceName)
	}
	return out
}
