// Package assertion provides hard and soft assertion checks.
//
// A Checker evaluates one condition per call. On success it
// emits a success message at INFO through its logging.Sink and
// returns nil; on failure it returns an *AssertionError carrying
// the failure message. Both messages have deterministic
// defaults and can be overridden with Msg and SuccessMsg.
//
// A SoftAssert wraps a Checker and captures failures instead of
// returning them. AssertAll reports every captured failure as a
// single *AssertionError:
//
//	c := assertion.New(logging.NewSink(logger))
//	sa := c.Soft()
//	sa.Equal(1, 2)
//	sa.True(false)
//	err := sa.AssertAll()
//	// err.Error() == "\n1 is not equal to 2.\nThe expression passed as 'expr' is not True."
//
// Values in messages are rendered as dynamic languages print
// them: lists as [1, 2, 3], strings inside lists quoted, nil as
// None and booleans as True/False. Equality and membership are
// deep (reflect.DeepEqual semantics) and type-sensitive, so
// int(1) and int64(1) are not equal.
package assertion
