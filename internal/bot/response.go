package bot

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type ResponseString struct {
	string
}

// An embed, with an optional image file shown inside it
type ResponseEmbed struct {
	discordgo.MessageEmbed
	image string
}

type Response interface {
	Send(channelId string, discord Discord) (*discordgo.Message, error)
}

func (response ResponseString) Send(channelId string, discord Discord) (*discordgo.Message, error) {
	return discord.ChannelMessageSend(channelId, response.string)
}

func (response ResponseEmbed) Send(channelId string, discord Discord) (*discordgo.Message, error) {

	embed := response.MessageEmbed
	data := discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{&embed}}

	// Attach the image if it can be found
	if response.image != "" {
		file, err := os.Open(response.image)
		if err != nil {
			log.Warn().Msg(fmt.Sprintf("Sending embed without image %s: %s", response.image, err))
		} else {
			defer file.Close()
			name := filepath.Base(response.image)
			contentType := mime.TypeByExtension(filepath.Ext(name))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			data.Files = []*discordgo.File{{Name: name, ContentType: contentType, Reader: file}}
			embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + name}
		}
	}

	return discord.ChannelMessageSendComplex(channelId, &data)
}
