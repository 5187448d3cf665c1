package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMarkdownEmptySession(t *testing.T) {
	_, err := GenerateMarkdown(NewSession("head"))
	assert.ErrorIs(t, err, ErrNoComments)

	// Reviewed flags alone are not exportable content.
	s := NewSession("head")
	s.EnsureFile("a.go").Reviewed = true
	_, err = GenerateMarkdown(s)
	assert.ErrorIs(t, err, ErrNoComments)
}

func TestGenerateMarkdownNumbersAndLocations(t *testing.T) {
	s := NewSession("head")

	fr := s.EnsureFile("pkg/server.go")
	fr.AddFileComment(NewComment("tighten this package up", CommentIssue, SideNone))
	fr.AddLineComment(12, NewComment("off by one", CommentIssue, SideNew))
	fr.AddLineComment(30, NewComment("this was fine before", CommentNote, SideOld))

	out, err := GenerateMarkdown(s)
	require.NoError(t, err)

	// File comment has no line suffix; old-side lines get the ~ marker.
	assert.Contains(t, out, "1. **[ISSUE]** `pkg/server.go` - tighten this package up")
	assert.Contains(t, out, "2. **[ISSUE]** `pkg/server.go:12` - off by one")
	assert.Contains(t, out, "3. **[NOTE]** `pkg/server.go:~30` - this was fine before")

	// Preamble explains the comment types once.
	assert.True(t, strings.HasPrefix(out, "I reviewed your code"))
	assert.Contains(t, out, "ISSUE (problems to fix)")
	assert.NotContains(t, out, "Summary:")
}

func TestGenerateMarkdownSummary(t *testing.T) {
	s := NewSession("head")
	s.Summary = "mostly solid, two blockers"
	s.EnsureFile("a.go").AddLineComment(1, NewComment("blocker", CommentIssue, SideNew))

	out, err := GenerateMarkdown(s)
	require.NoError(t, err)
	assert.Contains(t, out, "Summary: mostly solid, two blockers")
}

func TestGenerateMarkdownFilesSorted(t *testing.T) {
	s := NewSession("head")
	s.EnsureFile("z.go").AddLineComment(1, NewComment("last", CommentNote, SideNew))
	s.EnsureFile("a.go").AddLineComment(1, NewComment("first", CommentNote, SideNew))

	out, err := GenerateMarkdown(s)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "`a.go:1`"), strings.Index(out, "`z.go:1`"))
}
