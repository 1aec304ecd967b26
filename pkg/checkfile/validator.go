package checkfile

import (
	"errors"
	"fmt"
)

// ValidationError describes one problem found in a check file.
type ValidationError struct {
	Source  string
	Index   int // -1 if not applicable
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	prefix := ""
	if e.Source != "" {
		prefix = e.Source + ": "
	}
	if e.Index >= 0 {
		return fmt.Sprintf(
			"%schecks[%d].%s: %s", prefix, e.Index, e.Field, e.Message,
		)
	}
	return fmt.Sprintf("%s%s: %s", prefix, e.Field, e.Message)
}

// Validate checks every definition of f against the engine's
// bindings and returns all problems found.
func (e *Engine) Validate(f File) []ValidationError {
	var problems []ValidationError

	if len(f.Checks) == 0 {
		problems = append(problems, ValidationError{
			Source: f.Source, Index: -1,
			Field: "checks", Message: "at least one check is required",
		})
	}

	for i, def := range f.Checks {
		if err := e.validateDefinition(def); err != nil {
			var ve ValidationError
			if errors.As(err, &ve) {
				ve.Source = f.Source
				ve.Index = i
				problems = append(problems, ve)
			}
		}
	}

	return problems
}

func (e *Engine) validateDefinition(def Definition) error {
	if def.Kind == "" {
		return ValidationError{
			Index: -1, Field: "kind", Message: "check kind is required",
		}
	}

	b, ok := e.binding(def.Kind)
	if !ok {
		return ValidationError{
			Index: -1, Field: "kind",
			Message: fmt.Sprintf("unknown check kind %q", def.Kind),
		}
	}

	if err := b.validate(def.Args); err != nil {
		return ValidationError{
			Index: -1, Field: "args",
			Message: fmt.Sprintf("%s %s", def.Kind, err),
		}
	}
	return nil
}

func joinProblems(problems []ValidationError) error {
	errs := make([]error, len(problems))
	for i, p := range problems {
		errs[i] = p
	}
	return errors.Join(errs...)
}
