package utils

import (
	"database/sql"
	"testing"

	"ticket-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestResolveCapabilities(t *testing.T) {
	staffRoles := []string{"r-staff", "r-mod"}
	devs := []string{"dev"}

	tests := []struct {
		name  string
		user  string
		roles []string
		perms int64
		staff []string
		want  model.Capabilities
	}{
		{"plain member", "u", []string{"r-other"}, 0, staffRoles, 0},
		{"staff role", "u", []string{"r-other", "r-mod"}, 0, staffRoles, model.CapStaff},
		{"administrator", "u", nil, discordgo.PermissionAdministrator, staffRoles, model.CapManage},
		{"manage server and staff", "u", []string{"r-staff"}, discordgo.PermissionManageGuild, staffRoles, model.CapStaff | model.CapManage},
		{"no staff configured", "u", []string{"r-staff"}, 0, nil, 0},
		{"developer", "dev", nil, 0, nil, model.CapAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCapabilities(tt.user, tt.roles, tt.perms, tt.staff, devs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActorFromInteraction(t *testing.T) {
	cfg := &model.GuildConfig{StaffRoleIDsRaw: sql.NullString{String: "r1,r2", Valid: true}}
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "42"}, Roles: []string{"r2"}},
	}}

	actor := ActorFromInteraction(i, cfg, nil)
	assert.Equal(t, "42", actor.ID)
	assert.True(t, actor.Caps.Has(model.CapStaff))
	assert.False(t, actor.Caps.Has(model.CapManage))
	assert.Equal(t, "staff", actor.Caps.String())

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "7"}}}
	assert.Equal(t, model.Actor{ID: "7"}, ActorFromInteraction(dm, cfg, nil))
}
