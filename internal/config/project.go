// pattern: Functional Core

package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

// Project is the per-directory configuration: sub-project declarations,
// export aggregations and commands.
type Project struct {
	// Projects maps a sub-project name to one or more relative locations.
	Projects map[string][]string
	// Exports maps an export name to one or more relative target paths.
	Exports  map[string][]string
	Commands map[string]CommandSpec
}

// IsEmpty reports whether the config contributes nothing.
func (p Project) IsEmpty() bool {
	return len(p.Projects) == 0 && len(p.Exports) == 0 && len(p.Commands) == 0
}

// ValidationError reports a malformed per-directory config. It is never
// fatal: the directory degrades to an empty config.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config at %s: %s", e.Path, e.Reason)
}

// document is the top level of a config file. Unknown keys are ignored.
type document struct {
	Projects map[string]any `mapstructure:"projects"`
	Exports  map[string]any `mapstructure:"exports"`
	Commands map[string]any `mapstructure:"commands"`
}

type parallelDoc struct {
	Parallel    []string `mapstructure:"parallel"`
	Before      string   `mapstructure:"before"`
	After       string   `mapstructure:"after"`
	CloseOnDone bool     `mapstructure:"closeOnDone"`
	Sync        bool     `mapstructure:"sync"`
	Panes       bool     `mapstructure:"panes"`
	Sequence    bool     `mapstructure:"sequence"`
}

type chunkedDoc struct {
	Chunks   []string `mapstructure:"chunks"`
	NoSpaces bool     `mapstructure:"noSpaces"`
}

type templatedDoc struct {
	Command *string     `mapstructure:"command"`
	Path    string      `mapstructure:"path"`
	Vars    []varDoc    `mapstructure:"vars"`
	Args    []argDoc    `mapstructure:"args"`
	Options []optionDoc `mapstructure:"options"`
}

type varDoc struct {
	Name  *string `mapstructure:"name"`
	Value *string `mapstructure:"value"`
}

type argDoc struct {
	Name     string    `mapstructure:"name"`
	Type     ValueType `mapstructure:"type"`
	Required bool      `mapstructure:"required"`
}

type optionDoc struct {
	Name       string    `mapstructure:"name"`
	Alias      string    `mapstructure:"alias"`
	ActualName string    `mapstructure:"actualName"`
	Type       ValueType `mapstructure:"type"`
	Required   bool      `mapstructure:"required"`
}

// Decode validates a generically decoded config document (JSON or YAML) and
// converts it into a Project. Unknown top-level keys are ignored; unknown
// keys inside a command are errors.
func Decode(source string, raw any) (Project, error) {
	fail := func(format string, args ...any) (Project, error) {
		return Project{}, &ValidationError{Path: source, Reason: fmt.Sprintf(format, args...)}
	}

	if raw == nil {
		return Project{}, nil
	}
	if _, ok := asObject(raw); !ok {
		return fail("config must be an object")
	}

	var doc document
	if err := decode(raw, &doc, false); err != nil {
		return fail("%v", err)
	}

	var p Project
	var err error
	if doc.Projects != nil {
		if p.Projects, err = decodeLocations(doc.Projects); err != nil {
			return fail("projects: %v", err)
		}
	}
	if doc.Exports != nil {
		if p.Exports, err = decodeLocations(doc.Exports); err != nil {
			return fail("exports: %v", err)
		}
	}
	if doc.Commands != nil {
		p.Commands = make(map[string]CommandSpec, len(doc.Commands))
		for _, name := range slices.Sorted(maps.Keys(doc.Commands)) {
			spec, err := decodeCommand(doc.Commands[name])
			if err != nil {
				return fail("command %q: %v", name, err)
			}
			p.Commands[name] = spec
		}
	}
	return p, nil
}

// decode maps input onto out without type coercion. strict rejects keys out
// does not declare.
func decode(input, out any, strict bool) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: strict,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return d.Decode(input)
}

// decodeLocations accepts values that are a string or a list of strings.
func decodeLocations(obj map[string]any) (map[string][]string, error) {
	out := make(map[string][]string, len(obj))
	for name, loc := range obj {
		if s, ok := loc.(string); ok {
			out[name] = []string{s}
			continue
		}
		var list []string
		if err := decode(loc, &list, true); err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		out[name] = list
	}
	return out, nil
}

// decodeCommand dispatches on the shape of v: a string, a list of strings or
// an object keyed by parallel, chunks or command.
func decodeCommand(v any) (CommandSpec, error) {
	switch c := v.(type) {
	case string:
		return Literal(c), nil
	case []any:
		var list []string
		if err := decode(c, &list, true); err != nil {
			return nil, err
		}
		return Sequence(list), nil
	}

	obj, ok := asObject(v)
	if !ok {
		return nil, fmt.Errorf("must be a string, a list of strings or an object")
	}

	switch {
	case has(obj, "parallel"):
		var d parallelDoc
		if err := decode(obj, &d, true); err != nil {
			return nil, err
		}
		if d.Parallel == nil {
			return nil, fmt.Errorf("parallel must be a list of strings")
		}
		return Parallel{
			Items:       d.Parallel,
			Before:      d.Before,
			After:       d.After,
			CloseOnDone: d.CloseOnDone,
			Sync:        d.Sync,
			Panes:       d.Panes,
			Sequence:    d.Sequence,
		}, nil
	case has(obj, "chunks"):
		var d chunkedDoc
		if err := decode(obj, &d, true); err != nil {
			return nil, err
		}
		if d.Chunks == nil {
			return nil, fmt.Errorf("chunks must be a list of strings")
		}
		return Chunked{Chunks: d.Chunks, NoSpaces: d.NoSpaces}, nil
	case has(obj, "command"):
		var d templatedDoc
		if err := decode(obj, &d, true); err != nil {
			return nil, err
		}
		return d.templated()
	}
	return nil, fmt.Errorf("object needs one of parallel, chunks or command")
}

func (d templatedDoc) templated() (CommandSpec, error) {
	if d.Command == nil {
		return nil, fmt.Errorf("command must be a string")
	}
	t := Templated{Command: *d.Command, Path: d.Path}

	for i, v := range d.Vars {
		if v.Name == nil || v.Value == nil {
			return nil, fmt.Errorf("vars[%d] needs string name and value", i)
		}
		t.Vars = append(t.Vars, Var{Name: *v.Name, Value: *v.Value})
	}
	for i, a := range d.Args {
		if err := checkNameAndType(a.Name, a.Type); err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		t.Args = append(t.Args, Arg{Name: a.Name, Type: a.Type, Required: a.Required})
	}
	for i, o := range d.Options {
		if err := checkNameAndType(o.Name, o.Type); err != nil {
			return nil, fmt.Errorf("options[%d]: %w", i, err)
		}
		t.Options = append(t.Options, Option{Name: o.Name, Alias: o.Alias, Type: o.Type, Required: o.Required})
	}
	return t, nil
}

func checkNameAndType(name string, typ ValueType) error {
	if name == "" {
		return fmt.Errorf("name must be a non-empty string")
	}
	switch typ {
	case TypeString, TypeNumber, TypeBoolean, TypeArray:
		return nil
	case "":
		return fmt.Errorf("type is required")
	}
	return fmt.Errorf("unknown type %q", typ)
}

// asObject normalizes the object shapes produced by encoding/json and yaml.v3.
func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case map[any]any:
		out := make(map[string]any, len(o))
		for k, val := range o {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func has(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}
