package checkfile

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseCheckString parses a compact check of the form
// "kind:arg1,arg2". Arguments are decoded as a YAML flow
// sequence so numbers, booleans and nested lists keep their
// types while dates stay text. If that fails they are split on
// commas as plain text.
//
// Examples:
//
//	"equal:1,2"                    -> equal(1, 2)
//	"list_has_item:[1,2,4],4"      -> list_has_item([1, 2, 4], 4)
//	"date_format:2023-01-31,%Y-%m-%d" -> date_format("2023-01-31", "%Y-%m-%d")
//	"fail"                         -> fail()
func ParseCheckString(s string) Definition {
	kind, rest, found := strings.Cut(s, ":")
	def := Definition{Kind: strings.TrimSpace(kind)}
	if !found || rest == "" {
		return def
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("["+rest+"]"), &doc); err == nil && len(doc.Content) == 1 {
		if args, err := decodeArgs(doc.Content[0]); err == nil {
			def.Args = args
			return def
		}
	}

	for _, part := range strings.Split(rest, ",") {
		def.Args = append(def.Args, part)
	}
	return def
}
