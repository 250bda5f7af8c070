package internal

import "github.com/pkg/errors"

// Threading errors up and down every level of the recursive search would add a
// ton of noise to the splitter and the solver. Contract violations (a bridge
// vertex that isn't on its island, a pivot on the access edge, a malformed
// domain) are bugs, not properties of the input, so we panic with a FillError
// and the public API recovers to convert it to an error.

// The panic value for contract violations. It is a concrete type so that
// runtime errors, which are also errors, don't get mistaken for one.
type FillError struct {
	error
}

func (e FillError) Unwrap() error {
	return e.error
}

// Sentinel for a search that was cancelled through its context or tripped the
// depth guard.
var ErrAborted = errors.New("search aborted")

// Panic with a FillError.
func fatalf(format string, args ...interface{}) {
	panic(FillError{errors.Errorf(format, args...)})
}

// Panic with a wrapped FillError, keeping the cause for errors.Is.
func abort(cause error, format string, args ...interface{}) {
	panic(FillError{errors.Wrapf(cause, format, args...)})
}

func HandleFillPanicRecover(r interface{}) error {
	if r != nil {
		if fillError, ok := r.(FillError); ok {
			return fillError.error
		}
		panic(r)
	}
	return nil
}
