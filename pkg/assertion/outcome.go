package assertion

// Kind names a check.
type Kind string

// Built-in check kinds. KindAssertAll is reported when a soft
// session is finalized.
const (
	KindEqual           Kind = "equal"
	KindTrue            Kind = "true"
	KindFalse           Kind = "false"
	KindFail            Kind = "fail"
	KindTextNotEmpty    Kind = "text_not_empty"
	KindTextStartsWith  Kind = "text_starts_with"
	KindTextEndsWith    Kind = "text_ends_with"
	KindTextContains    Kind = "text_contains"
	KindListEmpty       Kind = "list_empty"
	KindListNotEmpty    Kind = "list_not_empty"
	KindListHasItem     Kind = "list_has_item"
	KindListExcludes    Kind = "list_excludes"
	KindListContainsAll Kind = "list_contains_all"
	KindDateFormat      Kind = "date_format"
	KindAssertAll       Kind = "assert_all"
)

// Outcome is the transient result of one check.
type Outcome struct {
	Kind    Kind
	Passed  bool
	Message string
	// Deferred is set when the check ran inside a soft session.
	Deferred bool
}

// Observer is notified of every check outcome.
type Observer interface {
	ObserveCheck(outcome Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(outcome Outcome)

// ObserveCheck calls f(outcome).
func (f ObserverFunc) ObserveCheck(outcome Outcome) {
	f(outcome)
}
