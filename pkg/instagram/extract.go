package instagram

import (
	"bufio"
	"strings"

	igerrors "shutter/pkg/errors"
)

// ExtractSharedData returns the embedded data blob from a profile page.
//
// The first line containing SharedDataMarker is taken, and the text from
// its first '{' to its last '}' is returned. Braces are not balanced, so
// any trailing brace-delimited content on the same line ends up in the
// result.
func ExtractSharedData(body string) (string, error) {
	line, found := findMarkerLine(body)
	if !found {
		return "", igerrors.NewProfileDataNotFound()
	}

	start := strings.IndexByte(line, '{')
	end := strings.LastIndexByte(line, '}')
	if start < 0 || end < start {
		return "", igerrors.NewProfileDataDecodeFailed()
	}

	return line[start : end+1], nil
}

func findMarkerLine(body string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	// Shared data lines routinely exceed bufio's default 64KiB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), len(body)+1)

	for scanner.Scan() {
		if line := scanner.Text(); strings.Contains(line, SharedDataMarker) {
			return line, true
		}
	}
	return "", false
}
