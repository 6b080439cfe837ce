package chatui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/taskflowpro/taskflow/internal/tui/styles"
)

// adjustTextareaHeight resizes the textarea based on content line count.
func (m *Model) adjustTextareaHeight() {
	lineCount := strings.Count(m.textarea.Value(), "\n") + 1

	newHeight := lineCount
	if newHeight < styles.MinTextareaHeight {
		newHeight = styles.MinTextareaHeight
	}
	if newHeight > styles.MaxTextareaHeight {
		newHeight = styles.MaxTextareaHeight
	}

	if m.textarea.Height() != newHeight {
		m.textarea.SetHeight(newHeight)
		m.recalculateLayout()
	}
}

// recalculateLayout adjusts viewport and textarea dimensions.
func (m *Model) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	viewportHeight := m.height - styles.HeaderHeight
	viewportWidth := m.width
	if m.sidebarOpen {
		viewportWidth -= styles.SidebarWidth
	}

	if m.sending {
		viewportHeight -= 1
	} else {
		viewportHeight -= m.textarea.Height() + styles.InputBorderHeight
	}
	if viewportHeight < styles.MinViewportHeight {
		viewportHeight = styles.MinViewportHeight
	}

	m.renderer.SetWidth(viewportWidth - styles.MessageHorizontalFrameSize())

	if !m.ready {
		m.viewport = viewport.New(viewportWidth, viewportHeight)
		m.ready = true
		m.refreshViewport(true)
	} else {
		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
		m.refreshViewport(false)
	}

	m.textarea.SetWidth(viewportWidth - styles.TextAreaStyle.GetHorizontalPadding() - styles.TextAreaStyle.GetHorizontalBorderSize())
}

// refreshViewport re-renders the message log, optionally pinning to bottom.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}
	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if gotoBottom || wasAtBottom {
		m.viewport.GotoBottom()
	}
}
