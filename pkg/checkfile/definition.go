// Package checkfile evaluates assertion checks declared in YAML
// or JSON files. Every check of a file runs in one soft session,
// so a single run reports all failing checks at once.
package checkfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"digital.vasic.softassert/pkg/assertion"
)

// Definition describes a single check.
type Definition struct {
	// Kind is the check to run (e.g., "equal",
	// "text_contains", "list_contains_all").
	Kind string `yaml:"kind" json:"kind"`

	// Args are the positional values under test.
	Args []any `yaml:"args,omitempty" json:"args,omitempty"`

	// Message replaces the default failure message.
	Message *string `yaml:"msg,omitempty" json:"msg,omitempty"`

	// SuccessMessage replaces the default success message.
	SuccessMessage *string `yaml:"s_msg,omitempty" json:"s_msg,omitempty"`
}

// Options converts the custom messages into check options.
func (d Definition) Options() []assertion.Option {
	var opts []assertion.Option
	if d.Message != nil {
		opts = append(opts, assertion.Msg(*d.Message))
	}
	if d.SuccessMessage != nil {
		opts = append(opts, assertion.SuccessMsg(*d.SuccessMessage))
	}
	return opts
}

// UnmarshalYAML decodes a check, keeping unquoted timestamps
// such as 2023-01-31 inside args as the text that was written.
func (d *Definition) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		Kind           string    `yaml:"kind"`
		Args           yaml.Node `yaml:"args"`
		Message        *string   `yaml:"msg"`
		SuccessMessage *string   `yaml:"s_msg"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}

	args, err := decodeArgs(&raw.Args)
	if err != nil {
		return err
	}
	*d = Definition{
		Kind:           raw.Kind,
		Args:           args,
		Message:        raw.Message,
		SuccessMessage: raw.SuccessMessage,
	}
	return nil
}

// decodeArgs decodes a YAML sequence into positional values.
// A missing or null node yields no args.
func decodeArgs(n *yaml.Node) ([]any, error) {
	if n.Kind == 0 || n.ShortTag() == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: args must be a list", n.Line)
	}
	timestampsAsText(n)

	var args []any
	if err := n.Decode(&args); err != nil {
		return nil, err
	}
	return args, nil
}

// timestampsAsText retags every timestamp scalar under n as a
// string, so it decodes to its source text instead of a
// time.Time.
func timestampsAsText(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
	}
	for _, c := range n.Content {
		timestampsAsText(c)
	}
}

// File is a named group of checks evaluated together.
type File struct {
	Name   string       `yaml:"name" json:"name"`
	Checks []Definition `yaml:"checks" json:"checks"`

	// Source is the path the file was loaded from, if any.
	Source string `yaml:"-" json:"-"`
}
