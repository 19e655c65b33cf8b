package ghcli

import (
	"net/url"
	"strconv"
	"strings"
)

// Builder accumulates command tokens. Optional values that are blank never
// produce a token, so a flag is never followed by an empty value.
//
// Caller-supplied operands go after a "--" terminator at the end of the
// vector, so a value such as "-label:bug" is never read as a flag.
type Builder struct {
	tokens   []string
	operands []string
}

// New starts a builder with the given leading tokens (usually the subcommand).
func New(tokens ...string) *Builder {
	return &Builder{tokens: append([]string(nil), tokens...)}
}

// Add appends tokens unconditionally.
func (b *Builder) Add(tokens ...string) *Builder {
	b.tokens = append(b.tokens, tokens...)
	return b
}

// Arg queues value as an operand when it is not blank. Operands are emitted
// after every flag, behind "--".
func (b *Builder) Arg(value string) *Builder {
	if !blank(value) {
		b.operands = append(b.operands, value)
	}
	return b
}

// Flag appends "name value" when value is not blank.
func (b *Builder) Flag(name, value string) *Builder {
	if !blank(value) {
		b.tokens = append(b.tokens, name, value)
	}
	return b
}

// IntFlag appends "name n" unconditionally.
func (b *Builder) IntFlag(name string, n int) *Builder {
	b.tokens = append(b.tokens, name, strconv.Itoa(n))
	return b
}

// Switch appends the bare flag when on is true.
func (b *Builder) Switch(name string, on bool) *Builder {
	if on {
		b.tokens = append(b.tokens, name)
	}
	return b
}

// Repo appends "--repo owner/repo".
func (b *Builder) Repo(owner, repo string) *Builder {
	return b.Add("--repo", Repo(owner, repo))
}

// Tokens returns the accumulated argument vector.
func (b *Builder) Tokens() []string {
	if len(b.operands) == 0 {
		return b.tokens
	}
	out := make([]string, 0, len(b.tokens)+len(b.operands)+1)
	out = append(out, b.tokens...)
	out = append(out, "--")
	return append(out, b.operands...)
}

// Repo joins owner and repository name into the combined identifier.
func Repo(owner, repo string) string {
	return owner + "/" + repo
}

// PathEscape escapes each "/"-separated segment of p for use in an API path.
// Separators are kept, so "docs/#1.md" becomes "docs/%231.md".
func PathEscape(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// Endpoint appends the encoded query to path when it has any values.
func Endpoint(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// Limit maps a requested result count to the value passed to the CLI:
// non-positive means def, anything below floor is raised to floor.
func Limit(v, def, floor int) int {
	if v <= 0 {
		return def
	}
	if v < floor {
		return floor
	}
	return v
}

// Enum matches v case-insensitively against allowed and returns the canonical
// entry; blank or unrecognized values yield def.
func Enum(v string, allowed []string, def string) string {
	v = strings.TrimSpace(v)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	return def
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
