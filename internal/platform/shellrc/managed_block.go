package shellrc

import "strings"

// Markers delimiting the alias block bcvi maintains inside shell
// startup files, local and remote alike.
const (
	BlockStart = "# >>> bcvi aliases >>>"
	BlockEnd   = "# <<< bcvi aliases <<<"
)

// RenderAliasBlock replaces or appends the bcvi alias block in a shell
// startup file body.
func RenderAliasBlock(body string, lines []string) string {
	return ReplaceManagedBlock(body, BlockStart, BlockEnd, strings.Join(lines, "\n"))
}

// ReplaceManagedBlock rewrites the marker-delimited section of a shell
// startup file, appending a fresh block when no markers are present yet.
// Text outside the markers is preserved byte for byte.
func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	block := startMarker + "\n" + generated + "\n" + endMarker

	if start >= 0 && end > start {
		end += len(endMarker)
		return body[:start] + block + body[end:]
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}
