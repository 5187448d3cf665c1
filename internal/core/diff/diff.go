// Package diff defines the parsed representation of a git diff: an ordered
// list of changed files, each holding hunks of numbered lines. The parser in
// this package turns unified diff text into that representation; it never
// talks to git itself.
package diff

// Origin classifies a single diff line.
type Origin int

const (
	OriginContext Origin = iota
	OriginAddition
	OriginDeletion
)

// Prefix returns the single-character marker used in unified diff output.
func (o Origin) Prefix() string {
	switch o {
	case OriginAddition:
		return "+"
	case OriginDeletion:
		return "-"
	default:
		return " "
	}
}

// Status describes what happened to a file in the diff.
type Status int

const (
	StatusModified Status = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusCopied
	StatusUntracked
)

// Char returns the single-letter status marker shown in file lists.
func (s Status) Char() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusCopied:
		return "C"
	case StatusUntracked:
		return "?"
	default:
		return "M"
	}
}

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	case StatusUntracked:
		return "untracked"
	default:
		return "modified"
	}
}

// Line is a single line within a hunk. Context lines carry both line
// numbers, additions only NewLine, deletions only OldLine. A zero value
// means the number is absent.
type Line struct {
	Origin  Origin
	OldLine int
	NewLine int
	Text    string
}

// Hunk is a contiguous block of changed and context lines.
type Hunk struct {
	Header string // the raw "@@ -a,b +c,d @@ ..." line
	Lines  []Line
}

// File is one changed file in a diff snapshot.
type File struct {
	Path     string // current display path; identity key after rename resolution
	OldPath  string // pre-rename path, empty unless renamed or copied
	Status   Status
	IsBinary bool
	Hunks    []Hunk
}

// DisplayPath returns the path files are addressed by. Renamed files are
// addressed by their new path.
func (f File) DisplayPath() string {
	return f.Path
}

// LineCount returns the total number of diff lines across all hunks.
func (f File) LineCount() int {
	n := 0
	for _, h := range f.Hunks {
		n += len(h.Lines)
	}
	return n
}
