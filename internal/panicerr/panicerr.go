// Package panicerr converts a panic inside the interpreter into a plain
// error return, tagged with the word the machine was executing when it
// fired.  Forth errors proper are ordinary error values; a panic here means
// a host primitive (or the machine itself) has a programming bug, and the
// session should survive it with a report rather than crash the embedding
// process.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f, turning any panic into a non-nil error.  site, if given,
// is consulted at recovery time to name the execution site (for the Forth
// machine: the dictionary word being run).
func Recover(name string, site func() string, f func() error) (err error) {
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		pe := panicError{name: name, e: e, stack: debug.Stack()}
		if site != nil {
			pe.site = site()
		}
		err = pe
	}()
	return f()
}

type panicError struct {
	name  string
	site  string
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

func (pe panicError) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "%v paniced", pe.name)
	if pe.site != "" {
		fmt.Fprintf(f, " executing %v", pe.site)
	}
	fmt.Fprintf(f, ": %v", pe.e)
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsPanic returns true if err came from a recovered panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// Site returns the execution site recorded with a recovered panic, if any.
func Site(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return pe.site
	}
	return ""
}
