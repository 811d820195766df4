package model

import (
	"fmt"
	"strings"
)

// ArgKind discriminates the variants of an invocation argument value.
// The host CLI hands arguments over loosely typed (absent, boolean or
// string), so every consumer must switch on the kind explicitly.
type ArgKind int

const (
	// ArgAbsent means the argument was not supplied at all.
	ArgAbsent ArgKind = iota

	// ArgFlag means the argument was supplied as a bare boolean flag,
	// e.g. `tag` on the command line.
	ArgFlag

	// ArgText means the argument carries a string value, e.g. `tag=v1.0.0`.
	ArgText
)

// String returns the string representation of ArgKind.
func (k ArgKind) String() string {
	switch k {
	case ArgAbsent:
		return "absent"
	case ArgFlag:
		return "flag"
	case ArgText:
		return "text"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// Arg is a tagged argument value. Exactly one of the variants is meaningful,
// as selected by Kind. The zero value is an absent argument.
type Arg struct {
	Kind ArgKind
	Flag bool
	Text string
}

// Absent returns an absent argument value.
func Absent() Arg { return Arg{} }

// Flag returns a boolean argument value.
func Flag(b bool) Arg { return Arg{Kind: ArgFlag, Flag: b} }

// Text returns a string argument value.
func Text(s string) Arg { return Arg{Kind: ArgText, Text: s} }

// IsPresent reports whether the argument was supplied with a usable value.
// A boolean false and an empty string count as not present, matching how
// the host CLI treats falsy arguments.
func (a Arg) IsPresent() bool {
	switch a.Kind {
	case ArgFlag:
		return a.Flag
	case ArgText:
		return a.Text != ""
	default:
		return false
	}
}

// IsTrueFlag reports whether the argument is the literal boolean true.
// A string "true" is NOT a true flag.
func (a Arg) IsTrueFlag() bool {
	return a.Kind == ArgFlag && a.Flag
}

// String renders the argument the way it would appear on the command line.
func (a Arg) String() string {
	switch a.Kind {
	case ArgFlag:
		return fmt.Sprintf("%t", a.Flag)
	case ArgText:
		return a.Text
	default:
		return ""
	}
}

// InvocationContext is the ordered set of named arguments supplied by the
// host CLI for a single command run. It is read-only for command handlers.
type InvocationContext struct {
	keys   []string
	values map[string]Arg
}

// NewInvocationContext creates an empty InvocationContext.
func NewInvocationContext() *InvocationContext {
	return &InvocationContext{values: make(map[string]Arg)}
}

// Set stores an argument value. Setting an existing key overwrites its value
// but keeps the key at its original position.
func (c *InvocationContext) Set(name string, value Arg) {
	if c.values == nil {
		c.values = make(map[string]Arg)
	}
	if _, exists := c.values[name]; !exists {
		c.keys = append(c.keys, name)
	}
	c.values[name] = value
}

// Get returns the argument for name, or an absent Arg when it is not set.
// A nil context behaves as an empty one.
func (c *InvocationContext) Get(name string) Arg {
	if c == nil {
		return Absent()
	}
	return c.values[name]
}

// Keys returns the argument names in insertion order.
func (c *InvocationContext) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of arguments in the context.
func (c *InvocationContext) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// ParseArgs converts command-line words into an InvocationContext.
//
// Each word is either `key=value` (a Text argument; everything after the
// first "=" is the value) or a bare `key` (a Flag(true) argument).
// Surrounding whitespace is trimmed; empty words and words with an empty key
// are rejected.
func ParseArgs(words []string) (*InvocationContext, error) {
	ctx := NewInvocationContext()
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}

		key, value, hasValue := strings.Cut(word, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid argument %q: missing name before '='", word)
		}

		if hasValue {
			ctx.Set(key, Text(value))
		} else {
			ctx.Set(key, Flag(true))
		}
	}
	return ctx, nil
}
