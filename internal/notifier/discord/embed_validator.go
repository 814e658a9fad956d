package discord

import (
	"fmt"
	"unicode/utf8"
)

// Discord embed limits, counted in characters.
const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxFields            = 25
	maxFieldNameLength   = 256
	maxFieldValueLength  = 1024
	maxFooterTextLength  = 2048
	maxAuthorNameLength  = 256
)

// ValidationError describes an embed attribute that Discord would reject.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid embed %s: %s", e.Field, e.Message)
}

// DiscordEmbedValidator validates Discord embed objects
type DiscordEmbedValidator struct{}

// NewDiscordEmbedValidator creates a new embed validator
func NewDiscordEmbedValidator() *DiscordEmbedValidator {
	return &DiscordEmbedValidator{}
}

// ValidateEmbed checks an embed against Discord's size limits
func (dev *DiscordEmbedValidator) ValidateEmbed(embed DiscordEmbed) error {
	if utf8.RuneCountInString(embed.Title) > maxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("cannot exceed %d characters", maxTitleLength)}
	}
	if utf8.RuneCountInString(embed.Description) > maxDescriptionLength {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("cannot exceed %d characters", maxDescriptionLength)}
	}
	if len(embed.Fields) > maxFields {
		return &ValidationError{Field: "fields", Message: fmt.Sprintf("cannot have more than %d fields", maxFields)}
	}

	for i, field := range embed.Fields {
		if field.Name == "" || utf8.RuneCountInString(field.Name) > maxFieldNameLength {
			return &ValidationError{Field: "field_name", Message: fmt.Sprintf("field %d name must be 1-%d characters", i, maxFieldNameLength)}
		}
		if field.Value == "" || utf8.RuneCountInString(field.Value) > maxFieldValueLength {
			return &ValidationError{Field: "field_value", Message: fmt.Sprintf("field %d value must be 1-%d characters", i, maxFieldValueLength)}
		}
	}

	if embed.Footer != nil && utf8.RuneCountInString(embed.Footer.Text) > maxFooterTextLength {
		return &ValidationError{Field: "footer_text", Message: fmt.Sprintf("cannot exceed %d characters", maxFooterTextLength)}
	}
	if embed.Author != nil && utf8.RuneCountInString(embed.Author.Name) > maxAuthorNameLength {
		return &ValidationError{Field: "author_name", Message: fmt.Sprintf("cannot exceed %d characters", maxAuthorNameLength)}
	}

	return nil
}
