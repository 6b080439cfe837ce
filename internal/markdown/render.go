// Package markdown renders agent replies for the terminal. Replies arrive
// whole rather than streamed, so a single width-bound glamour renderer
// suffices.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Renderer wraps a glamour term renderer at a fixed width.
type Renderer struct {
	glamour *glamour.TermRenderer
	width   int
}

// NewRenderer constructs a renderer wrapping at the given width.
func NewRenderer(width int) (*Renderer, error) {
	gr, err := glamour.NewTermRenderer(
		glamour.WithStyles(chatStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{glamour: gr, width: width}, nil
}

// Render renders markdown content, falling back to the raw text when glamour
// cannot handle it.
func (r *Renderer) Render(content string) string {
	rendered, err := r.glamour.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// SetWidth rebuilds the renderer when the terminal is resized.
func (r *Renderer) SetWidth(width int) error {
	if r.width == width {
		return nil
	}
	rebuilt, err := NewRenderer(width)
	if err != nil {
		return err
	}
	*r = *rebuilt
	return nil
}

// chatStyle strips the margins and prefixes that misalign chat bubbles.
func chatStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig
	zero := uint(0)
	style.Document.Margin = &zero
	style.CodeBlock.Margin = &zero
	style.CodeBlock.Indent = &zero
	style.CodeBlock.Prefix = ""
	style.CodeBlock.BlockPrefix = ""

	style.Code.Margin = &zero
	style.Code.Indent = &zero
	style.Code.Prefix = ""
	style.Code.Suffix = ""

	style.Paragraph.BlockPrefix = ""
	style.Paragraph.BlockSuffix = ""

	return style
}
