package parsing

import "fmt"

// Warning is a recoverable anomaly that was encountered while parsing a test results file. The location
// is a byte offset into the file, pointing at the end of the construct that caused the warning.
type Warning struct {
	Message  string
	Location int64
}

// FormatWarnings renders warnings as human-readable strings, converting byte offsets into line:column
// positions. Warnings are appended in document order during parsing, so their locations are
// monotonically increasing & a single forward pass over the input suffices.
func FormatWarnings(input []byte, warnings []Warning, filename string) []string {
	formatted := make([]string, 0, len(warnings))

	var offset int64
	line := 1
	col := 0

	for _, warning := range warnings {
		location := warning.Location
		if location > int64(len(input)) {
			location = int64(len(input))
		}

		for ; offset < location; offset++ {
			if input[offset] == '\n' {
				line++
				col = 0
			} else {
				col++
			}
		}

		formatted = append(formatted, fmt.Sprintf("%s ending at %d:%d in %s", warning.Message, line, col, filename))
	}

	return formatted
}

// positionInfo returns the 1-based line & column for a byte offset into the input.
func positionInfo(input []byte, offset int64) (int, int) {
	if offset > int64(len(input)) {
		offset = int64(len(input))
	}

	line := 1
	lastNewline := int64(0)

	for i := int64(0); i < offset; i++ {
		if input[i] == '\n' {
			line++
			lastNewline = i + 1
		}
	}

	return line, int(offset-lastNewline) + 1
}
