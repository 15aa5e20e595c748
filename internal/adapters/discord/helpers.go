package discord

import "github.com/bwmarrin/discordgo"

func optStr(ic *discordgo.InteractionCreate, name string) (string, bool) {
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue(), true
		}
	}
	return "", false
}

func optChannelID(ic *discordgo.InteractionCreate, name string) (string, bool) {
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionChannel {
			if ch := o.ChannelValue(nil); ch != nil {
				return ch.ID, true
			}
		}
	}
	return "", false
}

// safeGetGuild: primero el estado local, después REST.
func (r *Router) safeGetGuild(id string) (*discordgo.Guild, error) {
	if g, err := r.s.State.Guild(id); err == nil && g != nil {
		return g, nil
	}
	g, err := r.s.Guild(id)
	if err != nil {
		return nil, err
	}
	_ = r.s.State.GuildAdd(g)
	return g, nil
}
