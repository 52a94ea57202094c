// Package report renders a colors document as a markdown summary.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jfoltran/colorserve/internal/colors"
)

// Markdown builds a table of every entry in the document. Hex values are
// counted separately so malformed palettes stand out.
func Markdown(source string, entries []colors.Entry) string {
	var b strings.Builder

	hex := 0
	for _, e := range entries {
		if e.Hex {
			hex++
		}
	}

	b.WriteString("# Colors\n\n")
	fmt.Fprintf(&b, "Source: `%s`\n\n", source)
	fmt.Fprintf(&b, "%d entries, %d hex colors.\n\n", len(entries), hex)

	if len(entries) == 0 {
		b.WriteString("_The document has no values._\n")
		return b.String()
	}

	b.WriteString("| Path | Value | Kind |\n")
	b.WriteString("|------|-------|------|\n")
	for _, e := range entries {
		kind := "value"
		if e.Hex {
			kind = "hex"
		}
		path := e.Path
		if path == "" {
			path = "(root)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", codeCell(path), codeCell(e.Value), kind)
	}
	return b.String()
}

// codeCell renders s as an inline code span that is safe inside a table row.
// The fence is one backtick longer than the longest run in s.
func codeCell(s string) string {
	s = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ").Replace(s)

	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest == 0 {
		return "`" + s + "`"
	}
	fence := strings.Repeat("`", longest+1)
	return fence + " " + s + " " + fence
}

// Render formats markdown for the terminal using a glamour standard style
// ("dark", "light", "notty", "auto").
func Render(md, style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// StyleFor maps a color-mode preference to a glamour style name.
func StyleFor(preference string) string {
	switch preference {
	case "dark", "light":
		return preference
	default:
		return "auto"
	}
}
