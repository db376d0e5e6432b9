package clipboard

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatContext renders up to maxEntries readable entries as a markdown
// table for system-prompt injection, or "" if there are none.
func FormatContext(m *Manager, maxEntries int, showSource bool) (string, error) {
	entries, err := m.ListEntries(ListOptions{})
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}
	if maxEntries > 0 && len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	var b strings.Builder
	b.WriteString("## Available Clipboard Entries\n\n")
	b.WriteString("| Key | Scope | Lines | Description |\n")
	b.WriteString("|-----|-------|-------|-------------|\n")
	for _, e := range entries {
		desc := e.ShortDescription
		if desc == "" && showSource && e.SourcePath != "" {
			desc = "from " + e.SourcePath
			if e.SourceLines != "" {
				desc += ":" + e.SourceLines
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", e.Key, e.Scope, e.LineCount, desc)
	}
	b.WriteString("\nUse `paste(key=\"...\")` to insert content. Use `clipboard_list(verbose=True)` to preview.\n")

	if expired, err := m.CountExpired(""); err == nil && expired > 0 {
		fmt.Fprintf(&b, "\n*Note: %d expired entries pending cleanup. Use clipboard_list to review.*\n", expired)
	}
	return b.String(), nil
}

// FormatTimeAgo renders a wall-clock timestamp relative to now as e.g. "2m ago".
func FormatTimeAgo(timestamp, now float64) string {
	delta := now - timestamp
	switch {
	case delta < 60:
		return "just now"
	case delta < 3600:
		return fmt.Sprintf("%dm ago", int(delta/60))
	case delta < 86400:
		return fmt.Sprintf("%dh ago", int(delta/3600))
	default:
		return fmt.Sprintf("%dd ago", int(delta/86400))
	}
}

// FormatEntryDetail renders a single entry as a multi-line preview block for
// clipboard_list output, per original_source's format_entry_detail.
func FormatEntryDetail(e *Entry, now float64, verbose bool) string {
	var b strings.Builder

	header := fmt.Sprintf("[%s] %s (%d lines, %s)", e.Scope, e.Key, e.LineCount, humanize.IBytes(uint64(e.ByteCount)))
	if e.ShortDescription != "" {
		header += fmt.Sprintf(" - %q", e.ShortDescription)
	}
	b.WriteString(header)

	var meta []string
	if e.SourcePath != "" {
		source := "Source: " + e.SourcePath
		if e.SourceLines != "" {
			source += ":" + e.SourceLines
		}
		meta = append(meta, source)
	}
	modified := "Modified: " + FormatTimeAgo(e.ModifiedAt, now)
	if e.ModifiedByAgent != "" {
		modified += " by " + e.ModifiedByAgent
	}
	meta = append(meta, modified)
	b.WriteString("\n        " + strings.Join(meta, " | "))

	if len(e.Tags) > 0 {
		b.WriteString("\n        Tags: " + strings.Join(e.Tags, ", "))
	}

	if e.HasExpiry {
		if e.IsExpired(now) {
			b.WriteString("\n        [EXPIRED]")
		} else {
			remaining := e.ExpiresAt - now
			if remaining < 3600 {
				fmt.Fprintf(&b, "\n        Expires in: %dm", int(remaining/60))
			} else {
				fmt.Fprintf(&b, "\n        Expires in: %dh", int(remaining/3600))
			}
		}
	}

	if verbose {
		contentLines := strings.Split(e.Content, "\n")
		var preview []string
		if len(contentLines) <= 6 {
			preview = contentLines
		} else {
			preview = append(append([]string{}, contentLines[:3]...), "...")
			preview = append(preview, contentLines[len(contentLines)-3:]...)
		}
		b.WriteString("\n        ---")
		for _, pl := range preview {
			if len(pl) > 80 {
				pl = pl[:77] + "..."
			}
			b.WriteString("\n        " + pl)
		}
	}

	return b.String()
}
