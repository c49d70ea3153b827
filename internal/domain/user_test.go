package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ann Smith", (&User{Username: "ann", FirstName: "Ann", LastName: "Smith"}).FullName())
	assert.Equal(t, "Ann", (&User{Username: "ann", FirstName: "Ann"}).FullName())
	assert.Equal(t, "ann", (&User{Username: "ann", LastName: "Smith"}).FullName())
}

func TestUser_MaxRulePriority(t *testing.T) {
	assert.Zero(t, (&User{}).MaxRulePriority())

	u := &User{RuleSets: []*RuleSet{{Priority: 1}, {Priority: 3}, {Priority: 2}}}
	assert.Equal(t, 3, u.MaxRulePriority())

	sorted := u.SortedRuleSets()
	assert.Equal(t, 1, sorted[0].Priority)
	assert.Equal(t, 3, u.RuleSets[1].Priority, "original order kept")
}

func TestUser_SortedUser2Devices(t *testing.T) {
	u := &User{Devices: []*User2Device{
		{DeviceName: "tablet", Percent: 50},
		{DeviceName: "pc", Percent: 100},
		{DeviceName: "laptop", Percent: 100},
	}}

	sorted := u.SortedUser2Devices()

	assert.Equal(t, []string{"laptop", "pc", "tablet"}, []string{sorted[0].DeviceName, sorted[1].DeviceName, sorted[2].DeviceName})
}
