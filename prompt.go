package avatargen

import (
	"strings"
	"text/template"
)

// DefaultStyle describes the look shared by every portrait in the set.
const DefaultStyle = "Painterly digital illustration, warm muted palette, soft studio lighting, " +
	"head and shoulders, facing slightly to the side, plain dark background, " +
	"no text, no lettering, no frame"

const promptTemplateText = `Create a dignified portrait avatar of {{.Name}}, ` +
	`the author and thinker, suitable for a circular profile image in a reading app. ` +
	`Depict them as they are commonly portrayed in historical sources. ` +
	`Style: {{.Style}}.`

var promptTemplate = template.Must(template.New("portrait").Parse(promptTemplateText))

// PromptData is the input to the portrait prompt template.
type PromptData struct {
	Name  string
	Style string
}

// BuildPrompt renders the fixed portrait prompt for name. An empty style
// falls back to DefaultStyle.
func BuildPrompt(name, style string) string {
	if style == "" {
		style = DefaultStyle
	}
	var sb strings.Builder
	// The template only interpolates strings; Execute cannot fail.
	_ = promptTemplate.Execute(&sb, PromptData{
		Name:  strings.TrimSpace(name),
		Style: strings.TrimSuffix(strings.TrimSpace(style), "."),
	})
	return sb.String()
}
