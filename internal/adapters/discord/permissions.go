package discord

import "github.com/bwmarrin/discordgo"

// memberIsAdmin calcula la capacidad del que invoca: owner del guild, bit de
// Administrator o alguno de los roles de ADMIN_ROLE_IDS. El service es quien
// EXIGE la capacidad; acá solo se resuelve quién la tiene.
func (r *Router) memberIsAdmin(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil || ic.Member.User == nil {
		return false
	}

	// Owner
	if g, _ := s.State.Guild(ic.GuildID); g != nil && ic.Member.User.ID == g.OwnerID {
		return true
	}

	// La interacción ya trae los permisos calculados del miembro
	if ic.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}

	// Fallback: merge de permisos por roles cuando el campo viene vacío
	if ic.Member.Permissions == 0 {
		roles, _ := s.GuildRoles(ic.GuildID)
		var perms int64
		for _, rid := range ic.Member.Roles {
			for _, ro := range roles {
				if ro.ID == rid {
					perms |= ro.Permissions
				}
			}
		}
		if perms&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	// Roles explícitos del bot
	if len(r.adminRoleIDs) > 0 {
		has := make(map[string]struct{}, len(ic.Member.Roles))
		for _, rid := range ic.Member.Roles {
			has[rid] = struct{}{}
		}
		for _, want := range r.adminRoleIDs {
			if _, ok := has[want]; ok {
				return true
			}
		}
	}

	return false
}
