package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "setup",
		Description: "XCG: vincula este server al relay (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "canal",
				Description:  "Canal donde entran y salen los mensajes del relay",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				Required:     true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "nombre",
				Description: "Nombre visible del server en la red (default: nombre del guild)",
				Required:    false,
			},
		},
	},
	{
		Name:        "enable",
		Description: "XCG: reactiva el relay en este server (admins)",
	},
	{
		Name:        "disable",
		Description: "XCG: pausa el relay en este server (admins)",
	},
	{
		Name:        "servers",
		Description: "Lista los servers activos de la red",
	},
	{
		Name:        "help",
		Description: "Cómo funciona el relay y sus límites",
	},
	{
		Name:        "ping",
		Description: "Latencia del bot",
	},
}
