// Package history persists chat input history across sessions and supports
// shell-style up/down navigation from the composer.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	fileName   = "taskflow_chat_history"
	maxEntries = 1000
)

// History is the navigable input history. Entries persist in a temp file so
// history survives restarts but not reboots.
type History struct {
	mu      sync.Mutex
	entries []string
	index   int    // -1 means composing new input
	draft   string // input saved when navigation starts
	path    string
}

// New loads history from disk, if present.
func New() *History {
	h := &History{
		index: -1,
		path:  filepath.Join(os.TempDir(), fileName),
	}
	h.load()
	return h
}

func (h *History) load() {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := unescape(scanner.Text())
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
}

// save is best effort: losing history is not worth surfacing an error.
func (h *History) save() {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Create(h.path)
	if err != nil {
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, entry := range h.entries {
		writer.WriteString(escape(entry) + "\n")
	}
	writer.Flush()
}

// Add records a sent message and resets navigation. Empty input and
// repetitions of the last entry are dropped.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}

	h.mu.Lock()
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		h.index = -1
		h.draft = ""
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
	h.index = -1
	h.draft = ""
	h.mu.Unlock()

	h.save()
}

// Previous steps one entry back. The current composer content is stashed on
// the first step so Next can restore it.
func (h *History) Previous(currentInput string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.index == -1:
		h.draft = currentInput
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	default:
		return h.entries[0], false
	}
	return h.entries[h.index], true
}

// Next steps one entry forward, returning the stashed draft past the newest
// entry.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == -1 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		h.index = -1
		return h.draft, true
	}
	return h.entries[h.index], true
}

// Reset abandons navigation. Call when the user edits the composer.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.index = -1
	h.draft = ""
}

// Entries are stored one per line, so embedded newlines get escaped.
func escape(entry string) string {
	escaped := strings.ReplaceAll(entry, "\\", "\\\\")
	return strings.ReplaceAll(escaped, "\n", "\\n")
}

func unescape(line string) string {
	unescaped := strings.ReplaceAll(line, "\\n", "\n")
	return strings.ReplaceAll(unescaped, "\\\\", "\\")
}
