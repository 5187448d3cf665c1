package review

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoComments is returned when an export is requested for a session that
// has nothing to export.
var ErrNoComments = errors.New("no comments to export")

// GenerateMarkdown renders the session's comments as a flat numbered
// markdown report addressed to whoever authored the changes. Old-side line
// comments are marked with a ~ before the line number since that line no
// longer exists in the new version.
func GenerateMarkdown(s *Session) (string, error) {
	if !s.HasComments() {
		return "", ErrNoComments
	}

	var b strings.Builder

	b.WriteString("I reviewed your code and have the following comments. Please address them.\n\n")
	b.WriteString("Comment types: ISSUE (problems to fix), SUGGESTION (improvements), NOTE (observations), PRAISE (positive feedback)\n\n")

	if s.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n\n", s.Summary)
	}

	i := 0
	s.Walk(func(path string, line int, side Side, c Comment) {
		i++

		var location string
		switch {
		case line == 0:
			location = fmt.Sprintf("`%s`", path)
		case side == SideOld:
			location = fmt.Sprintf("`%s:~%d`", path, line)
		default:
			location = fmt.Sprintf("`%s:%d`", path, line)
		}

		fmt.Fprintf(&b, "%d. **[%s]** %s - %s\n", i, c.Type.Label(), location, c.Content)
	})

	return b.String(), nil
}
