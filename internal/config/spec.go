// pattern: Functional Core

package config

import "strings"

// CommandSpec is the closed set of command shapes a project can declare:
// Literal, Sequence, Parallel, Chunked or Templated.
type CommandSpec interface {
	isCommandSpec()
}

// Literal is a single shell command.
type Literal string

// Sequence is a list of commands piped into each other.
type Sequence []string

// Parallel runs its items concurrently, either backgrounded in one shell or
// in terminal multiplexer panes.
type Parallel struct {
	Items       []string
	Before      string
	After       string
	CloseOnDone bool
	Sync        bool
	Panes       bool
	Sequence    bool
}

// Chunked is a command split into chunks for readability in config files.
type Chunked struct {
	Chunks   []string
	NoSpaces bool
}

// Templated is a command template with placeholders bound from fixed vars,
// positional args and options.
type Templated struct {
	Command string
	Path    string
	Vars    []Var
	Args    []Arg
	Options []Option
}

func (Literal) isCommandSpec()   {}
func (Sequence) isCommandSpec()  {}
func (Parallel) isCommandSpec()  {}
func (Chunked) isCommandSpec()   {}
func (Templated) isCommandSpec() {}

// Join concatenates the chunks, separated by a space unless NoSpaces is set.
func (c Chunked) Join() string {
	if c.NoSpaces {
		return strings.Join(c.Chunks, "")
	}
	return strings.Join(c.Chunks, " ")
}

// ValueType is the declared type of a template arg or option.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeArray   ValueType = "array"
)

// Var is a fixed template variable.
type Var struct {
	Name  string
	Value string
}

// Arg is a positional template argument. TypeArray marks a variadic arg.
type Arg struct {
	Name     string
	Type     ValueType
	Required bool
}

// Option is a named template option with an optional one-letter alias.
// TypeArray marks an option that may be repeated.
type Option struct {
	Name     string
	Alias    string
	Type     ValueType
	Required bool
}
