// Package markdown renders recipe descriptions for the terminal.
package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// ErrUnknownStyle is returned for a style other than "dark" or "light".
var ErrUnknownStyle = errors.New("unknown markdown style")

// noMarginStyle removes document margins on top of the base style.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with the console's configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width and style. An empty
// style means "dark".
func New(width int, style string) (*Renderer, error) {
	switch style {
	case "", "dark":
		style = "dark"
	case "light":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// RenderRecipe renders a recipe's name, line of business, tags and
// description.
func (r *Renderer) RenderRecipe(recipe registry.Recipe) (string, error) {
	return r.Render(RecipeDocument(recipe))
}

// RecipeDocument builds the markdown document shown for a recipe.
func RecipeDocument(recipe registry.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", recipe.Name)
	if recipe.LineOfBusiness != "" {
		fmt.Fprintf(&b, "_%s_\n\n", recipe.LineOfBusiness)
	}
	for _, tag := range recipe.Tags {
		fmt.Fprintf(&b, "- `%s`\n", tag)
	}
	if len(recipe.Tags) > 0 {
		b.WriteString("\n")
	}
	if desc := strings.TrimSpace(recipe.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return b.String()
}
