package diff

import (
	"regexp"
	"strconv"
	"strings"
)

// hunkHeaderPattern matches "@@ -oldStart[,oldCount] +newStart[,newCount] @@".
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Parse converts unified diff text (git diff output) into Files. An empty
// input yields an empty slice. Unrecognized metadata lines are skipped so
// the parser tolerates extended headers it does not know about.
func Parse(text string) ([]File, error) {
	var (
		files   []File
		current *File
		hunk    *Hunk
		oldNo   int
		newNo   int
	)

	flushHunk := func() {
		if current != nil && hunk != nil {
			current.Hunks = append(current.Hunks, *hunk)
		}
		hunk = nil
	}
	flushFile := func() {
		flushHunk()
		if current != nil {
			files = append(files, *current)
		}
		current = nil
	}

	lines := strings.Split(text, "\n")
	// Split leaves a trailing empty element when the text ends in a newline;
	// it is not a content line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushFile()
			current = &File{Path: parseGitHeaderPath(line)}

		case current == nil:
			// Preamble before the first file header.
			continue

		case strings.HasPrefix(line, "new file mode"):
			current.Status = StatusAdded
		case strings.HasPrefix(line, "deleted file mode"):
			current.Status = StatusDeleted
		case strings.HasPrefix(line, "rename from "):
			current.Status = StatusRenamed
			current.OldPath = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			current.Path = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "copy from "):
			current.Status = StatusCopied
			current.OldPath = strings.TrimPrefix(line, "copy from ")
		case strings.HasPrefix(line, "copy to "):
			current.Path = strings.TrimPrefix(line, "copy to ")

		case strings.HasPrefix(line, "Binary files ") && strings.HasSuffix(line, " differ"),
			strings.HasPrefix(line, "GIT binary patch"):
			current.IsBinary = true

		case strings.HasPrefix(line, "@@ "):
			m := hunkHeaderPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			flushHunk()
			oldNo, _ = strconv.Atoi(m[1])
			newNo, _ = strconv.Atoi(m[3])
			hunk = &Hunk{Header: line}

		case hunk != nil && strings.HasPrefix(line, "+"):
			hunk.Lines = append(hunk.Lines, Line{
				Origin:  OriginAddition,
				NewLine: newNo,
				Text:    line[1:],
			})
			newNo++
		case hunk != nil && strings.HasPrefix(line, "-"):
			hunk.Lines = append(hunk.Lines, Line{
				Origin:  OriginDeletion,
				OldLine: oldNo,
				Text:    line[1:],
			})
			oldNo++
		case hunk != nil && strings.HasPrefix(line, " "), hunk != nil && line == "":
			// A bare empty line is a blank context line whose leading
			// space was stripped somewhere in transit; dropping it would
			// desync every following line number in the hunk.
			content := ""
			if line != "" {
				content = line[1:]
			}
			hunk.Lines = append(hunk.Lines, Line{
				Origin:  OriginContext,
				OldLine: oldNo,
				NewLine: newNo,
				Text:    content,
			})
			oldNo++
			newNo++
		case hunk != nil && strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" - not a content line.
			continue
		}
	}
	flushFile()

	return files, nil
}

// parseGitHeaderPath extracts the b-side path from a "diff --git a/x b/y"
// header. Quoted paths (spaces, unicode escapes) keep their quoting stripped
// but are otherwise passed through; rename headers override this later.
func parseGitHeaderPath(line string) string {
	rest := strings.TrimPrefix(line, "diff --git ")

	// Common case: "a/path b/path". Find the " b/" separator from the right
	// so paths containing " a/" don't confuse the split.
	if idx := strings.LastIndex(rest, " b/"); idx != -1 {
		return strings.Trim(rest[idx+3:], `"`)
	}

	// Fallback: take the second whitespace-separated field.
	fields := strings.Fields(rest)
	if len(fields) == 2 {
		return strings.Trim(strings.TrimPrefix(fields[1], "b/"), `"`)
	}
	return rest
}
