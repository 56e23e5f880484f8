package reporting

import (
	"regexp"
	"strings"
)

// Matches file paths, optionally with a trailing `:line:col`, e.g. `/path/to/file.txt:1:2`.
// Lone file names without a directory component do not match.
var filePathPattern = regexp.MustCompile(`(?:/*[\w\-.]+/)+(?:[\w.]+)(?::\d+:\d+)*`)

// EscapeFailureMessage escapes a failure message for embedding in an HTML table cell: quotes,
// angle brackets and ampersands are entity-escaped, carriage returns are dropped, and newlines
// become `<br>`.
func EscapeFailureMessage(failureMessage string) string {
	escaped := new(strings.Builder)
	escaped.Grow(len(failureMessage))

	for _, c := range failureMessage {
		switch c {
		case '"':
			escaped.WriteString("&quot;")
		case '\'':
			escaped.WriteString("&apos;")
		case '<':
			escaped.WriteString("&lt;")
		case '>':
			escaped.WriteString("&gt;")
		case '&':
			escaped.WriteString("&amp;")
		case '\r':
		case '\n':
			escaped.WriteString("<br>")
		default:
			escaped.WriteRune(c)
		}
	}

	return escaped.String()
}

// ShortenFilePaths collapses every file path in a failure message that has four or more segments
// down to its last three, prefixed with `...`. Shorter paths and the surrounding text are left
// untouched.
func ShortenFilePaths(failureMessage string) string {
	return filePathPattern.ReplaceAllStringFunc(failureMessage, func(filePath string) string {
		slashes := make([]int, 0)
		for i, c := range filePath {
			if c == '/' {
				slashes = append(slashes, i)
			}
		}

		if len(slashes) < 3 {
			return filePath
		}

		thirdLastSlash := slashes[len(slashes)-3]
		return "..." + filePath[thirdLastSlash:]
	})
}
