package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamMembers(t *testing.T) {
	team := &Team{Name: "Team Marvel"}

	assert.True(t, team.AddMember("Thor"))
	assert.True(t, team.AddMember("Hulk"))
	assert.False(t, team.AddMember("Thor"), "duplicate names are not appended")
	assert.False(t, team.AddMember(""))
	assert.Equal(t, []string{"Thor", "Hulk"}, []string(team.Members))

	assert.True(t, team.RemoveMember("Thor"))
	assert.False(t, team.RemoveMember("Thor"))
	assert.Equal(t, []string{"Hulk"}, []string(team.Members))
}

func TestIsDistanceBased(t *testing.T) {
	assert.True(t, IsDistanceBased(ActivityRunning))
	assert.True(t, IsDistanceBased(ActivitySwimming))
	assert.False(t, IsDistanceBased(ActivityYoga))
	assert.False(t, IsDistanceBased("Parkour"))
}
