package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// CommandHandler es la firma única de los handlers de slash commands. El
// schema de parámetros de cada comando vive en Commands (commands.go); el
// dispatch enruta por nombre con un mapa estático, sin reflexión.
type CommandHandler func(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate)
