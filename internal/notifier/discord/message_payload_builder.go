package discord

import (
	"fmt"
	"strings"
)

// MaxMentionedUsers keeps a message of snowflake mentions under Discord's
// 2000 character content limit. Larger audiences are split across messages.
const MaxMentionedUsers = 80

// DiscordMessagePayloadBuilder helps in constructing DiscordMessagePayload objects.
type DiscordMessagePayloadBuilder struct {
	payload DiscordMessagePayload
}

// NewDiscordMessagePayloadBuilder creates a new instance of DiscordMessagePayloadBuilder.
func NewDiscordMessagePayloadBuilder() *DiscordMessagePayloadBuilder {
	return &DiscordMessagePayloadBuilder{}
}

// WithContent sets the Content for the DiscordMessagePayload.
func (b *DiscordMessagePayloadBuilder) WithContent(content string) *DiscordMessagePayloadBuilder {
	b.payload.Content = content
	return b
}

// WithUsername sets the Username for the DiscordMessagePayload.
func (b *DiscordMessagePayloadBuilder) WithUsername(username string) *DiscordMessagePayloadBuilder {
	b.payload.Username = username
	return b
}

// WithAvatarURL sets the AvatarURL for the DiscordMessagePayload.
func (b *DiscordMessagePayloadBuilder) WithAvatarURL(avatarURL string) *DiscordMessagePayloadBuilder {
	b.payload.AvatarURL = avatarURL
	return b
}

// AddEmbed adds an embed to the DiscordMessagePayload.
func (b *DiscordMessagePayloadBuilder) AddEmbed(embed DiscordEmbed) *DiscordMessagePayloadBuilder {
	b.payload.Embeds = append(b.payload.Embeds, embed)
	return b
}

// MentionUsers prefixes the content with a ping for each user ID and allows
// exactly those users to be mentioned. Other mention types are suppressed.
// IDs past MaxMentionedUsers are dropped; use MentionBatches to cover them all.
func (b *DiscordMessagePayloadBuilder) MentionUsers(userIDs []string) *DiscordMessagePayloadBuilder {
	if len(userIDs) > MaxMentionedUsers {
		userIDs = userIDs[:MaxMentionedUsers]
	}

	mentions := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		mentions = append(mentions, fmt.Sprintf("<@%s>", id))
	}

	if len(mentions) > 0 {
		prefix := strings.Join(mentions, " ")
		if b.payload.Content == "" {
			b.payload.Content = prefix
		} else {
			b.payload.Content = prefix + " " + b.payload.Content
		}
	}

	b.payload.AllowedMentions = &AllowedMentions{
		Parse: []string{},
		Users: append([]string(nil), userIDs...),
	}
	return b
}

// Build returns the constructed DiscordMessagePayload object.
func (b *DiscordMessagePayloadBuilder) Build() DiscordMessagePayload {
	return b.payload
}

// MentionBatches splits userIDs into groups that each fit in one message.
// An empty list yields a single empty group so the message is still sent.
func MentionBatches(userIDs []string) [][]string {
	if len(userIDs) == 0 {
		return [][]string{nil}
	}
	batches := make([][]string, 0, (len(userIDs)+MaxMentionedUsers-1)/MaxMentionedUsers)
	for start := 0; start < len(userIDs); start += MaxMentionedUsers {
		end := min(start+MaxMentionedUsers, len(userIDs))
		batches = append(batches, userIDs[start:end])
	}
	return batches
}
