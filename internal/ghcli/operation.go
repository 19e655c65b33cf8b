// Package ghcli maps named operations and their parameters onto gh command lines.
package ghcli

import (
	"sort"
	"strconv"
	"strings"

	"github.com/opencode-ai/gh-mcp/internal/config"
	"github.com/opencode-ai/gh-mcp/internal/validate"
)

// ParamType is the JSON type a parameter accepts.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
)

// Param describes one operation parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool

	// Identifier values are checked against the shell metacharacter deny-list.
	// Free text such as titles and bodies is not.
	Identifier bool

	// Positive integers must be greater than zero when supplied.
	Positive bool

	// Enum lists the recognized values. Unrecognized values fall back to the
	// operation's default rather than failing.
	Enum []string

	// Check replaces the generic required/identifier validation for strings.
	Check func(value string) error
}

// Step builds the argument vector of one invocation. prev is the trimmed
// stdout of the previous step, or "" for the first.
type Step func(a Args, s config.Settings, prev string) []string

// Operation is a named, closed-set description of a gh invocation sequence.
type Operation struct {
	Name        string
	Description string
	Params      []Param
	Steps       []Step

	// ReadOnly operations do not modify anything on the platform.
	ReadOnly bool
}

// Build renders every step with the same prev value. Multi-step execution
// lives in the catalog; this is for single-step operations and dry runs.
func (op *Operation) Build(a Args, s config.Settings, prev string) [][]string {
	out := make([][]string, 0, len(op.Steps))
	for _, step := range op.Steps {
		out = append(out, step(a, s, prev))
	}
	return out
}

// Validate checks a against the parameter descriptors. Unknown keys are ignored.
func (op *Operation) Validate(a Args) error {
	for _, p := range op.Params {
		if err := p.validate(a); err != nil {
			return err
		}
	}
	return nil
}

func (p Param) validate(a Args) error {
	raw, present := a[p.Name]
	if raw == nil {
		present = false
	}

	switch p.Type {
	case TypeString:
		if present {
			if _, ok := raw.(string); !ok {
				return validate.Invalid(p.Name, "Parameter '%s' must be a string", p.Name)
			}
		}
		value := a.String(p.Name)
		if p.Check != nil {
			return p.Check(value)
		}
		if p.Required && blank(value) {
			return validate.Missing(p.Name)
		}
		if p.Identifier {
			return validate.SafeString(value, p.Name)
		}

	case TypeInteger:
		if !present {
			if p.Required {
				return validate.Missing(p.Name)
			}
			return nil
		}
		n, ok := toInt(raw)
		if !ok {
			return validate.Invalid(p.Name, "Parameter '%s' must be an integer", p.Name)
		}
		if p.Positive {
			return validate.Positive(n, p.Name)
		}

	case TypeBoolean:
		if !present {
			if p.Required {
				return validate.Missing(p.Name)
			}
			return nil
		}
		if _, ok := toBool(raw); !ok {
			return validate.Invalid(p.Name, "Parameter '%s' must be a boolean", p.Name)
		}
	}
	return nil
}

var registry = map[string]*Operation{}

func register(ops ...*Operation) {
	for _, op := range ops {
		if _, dup := registry[op.Name]; dup {
			panic("ghcli: duplicate operation " + op.Name)
		}
		registry[op.Name] = op
	}
}

// Lookup returns the operation with the given name.
func Lookup(name string) (*Operation, bool) {
	op, ok := registry[strings.TrimSpace(name)]
	return op, ok
}

// All returns every operation sorted by name.
func All() []*Operation {
	ops := make([]*Operation, 0, len(registry))
	for _, op := range registry {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// Names returns every operation name, sorted.
func Names() []string {
	ops := All()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

// Common parameters.

var (
	ownerParam = Param{
		Name:        "owner",
		Type:        TypeString,
		Description: "Repository owner (user or organization)",
		Required:    true,
		Identifier:  true,
		Check:       validate.Owner,
	}
	repoParam = Param{
		Name:        "repo",
		Type:        TypeString,
		Description: "Repository name",
		Required:    true,
		Identifier:  true,
		Check:       validate.Repo,
	}
)

func number(name, description string) Param {
	return Param{Name: name, Type: TypeInteger, Description: description, Required: true, Positive: true}
}

func ident(name, description string, required bool) Param {
	return Param{Name: name, Type: TypeString, Description: description, Required: required, Identifier: true}
}

func text(name, description string, required bool) Param {
	return Param{Name: name, Type: TypeString, Description: description, Required: required}
}

func boolean(name, description string) Param {
	return Param{Name: name, Type: TypeBoolean, Description: description}
}

func limit(description string) Param {
	return Param{Name: "limit", Type: TypeInteger, Description: description}
}

func enum(name, description string, values ...string) Param {
	return Param{Name: name, Type: TypeString, Description: description, Identifier: true, Enum: values}
}

// single wraps a one-invocation builder as a step list.
func single(build func(a Args, s config.Settings) []string) []Step {
	return []Step{func(a Args, s config.Settings, _ string) []string { return build(a, s) }}
}

// itoa renders a validated positive integer parameter.
func itoa(a Args, key string) string {
	return strconv.Itoa(a.Int(key))
}
