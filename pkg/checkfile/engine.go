package checkfile

import (
	"fmt"
	"sort"
	"sync"

	"digital.vasic.softassert/pkg/assertion"
	"digital.vasic.softassert/pkg/logging"
)

// Engine maps check kinds to Checker methods and evaluates
// definitions and whole files. It is safe for concurrent use;
// every Run owns its own soft session.
type Engine struct {
	mu       sync.RWMutex
	bindings map[string]Binding
	checker  *assertion.Checker
	logger   logging.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for file-level progress. It
// does not receive check messages; those go to the checker's
// sink.
func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine with a binding for every built-in
// check. A nil checker discards success messages.
func NewEngine(checker *assertion.Checker, opts ...EngineOption) *Engine {
	if checker == nil {
		checker = assertion.New(nil)
	}
	e := &Engine{
		bindings: builtinBindings(),
		checker:  checker,
		logger:   logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a binding for a custom check kind. Returns an
// error if the kind is already registered.
func (e *Engine) Register(kind string, b Binding) error {
	if kind == "" || b.Call == nil {
		return fmt.Errorf("binding for %q needs a kind and a Call", kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.bindings[kind]; exists {
		return fmt.Errorf("check kind already registered: %s", kind)
	}
	e.bindings[kind] = b
	return nil
}

// HasBinding reports whether kind can be evaluated.
func (e *Engine) HasBinding(kind string) bool {
	_, ok := e.binding(kind)
	return ok
}

// Kinds returns every registered kind, sorted.
func (e *Engine) Kinds() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	kinds := make([]string, 0, len(e.bindings))
	for k := range e.bindings {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func (e *Engine) binding(kind string) (Binding, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bindings[kind]
	return b, ok
}

// Evaluate runs a single definition as a hard check. An invalid
// definition yields a ValidationError; a failing check yields
// an *assertion.AssertionError.
func (e *Engine) Evaluate(def Definition) error {
	if err := e.validateDefinition(def); err != nil {
		return err
	}
	b, _ := e.binding(def.Kind)
	return b.Call(e.checker, def.Args, def.Options()...)
}

// Run evaluates every check of f in one soft session and
// returns the session's aggregated failure, if any. Nothing is
// evaluated when f does not validate.
func (e *Engine) Run(f File) error {
	if problems := e.Validate(f); len(problems) > 0 {
		return fmt.Errorf("invalid check file: %w", joinProblems(problems))
	}

	log := e.logger.WithFields(
		logging.FileField(f.Name),
		logging.IntField("checks", len(f.Checks)),
	)
	log.Debug("Evaluating check file")

	sa := e.checker.Soft()
	for _, def := range f.Checks {
		b, _ := e.binding(def.Kind)
		args, opts := def.Args, def.Options()
		sa.Check(func(c *assertion.Checker) error {
			return b.Call(c, args, opts...)
		})
	}

	err := sa.AssertAll()
	if err != nil {
		log.Error("Check file failed", logging.IntField("failures", sa.Len()))
		return err
	}
	log.Info("Check file passed")
	return nil
}

// RunHard evaluates the checks of f in order and stops at the
// first failure.
func (e *Engine) RunHard(f File) error {
	if problems := e.Validate(f); len(problems) > 0 {
		return fmt.Errorf("invalid check file: %w", joinProblems(problems))
	}

	for i, def := range f.Checks {
		if err := e.Evaluate(def); err != nil {
			e.logger.Error(
				"Check file stopped at first failure",
				logging.FileField(f.Name),
				logging.IntField("index", i),
			)
			return err
		}
	}
	return nil
}
