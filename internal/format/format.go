// Package format holds the pure content transforms applied to a post body
// at render time. Formatted output is never persisted.
package format

import "strings"

// XMLBlocks makes raw XML samples embedded between blockStart and blockEnd
// markers displayable in HTML. It repeatedly takes the first index of each
// marker independently, escapes '<' and '>' in the payload between them,
// trims leading/trailing line breaks and splices the escaped payload back in
// place of the whole marked span. Processing stops as soon as either marker
// is missing, or when the first end marker sits before the first start
// marker; the rest of the content is returned unmodified from that point.
func XMLBlocks(content, blockStart, blockEnd string) string {
	for {
		indexStart := strings.Index(content, blockStart)
		indexEnd := strings.Index(content, blockEnd)

		if indexStart < 0 || indexEnd < 0 || indexEnd < indexStart+len(blockStart) {
			return content
		}

		rawData := content[indexStart+len(blockStart) : indexEnd]

		formatted := strings.ReplaceAll(rawData, "<", "&lt;")
		formatted = strings.ReplaceAll(formatted, ">", "&gt;")
		formatted = strings.Trim(formatted, "\r\n")

		content = content[:indexStart] + formatted + content[indexEnd+len(blockEnd):]
	}
}

// NewlineToHTML replaces every line break with the HTML line-break tag.
// Windows-style breaks are folded into "\n" first so the transform does not
// depend on where the content was authored.
func NewlineToHTML(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\n", "<br/>")
}
