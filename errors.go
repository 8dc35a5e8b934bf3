package main

import (
	"errors"
	"fmt"
)

// Control-transfer sentinels. Neither is ever printed by the interpreter:
// errExitFrame is consumed by the nearest enclosing thread dispatch loop (or
// by the REPL / loader at toplevel), and errHalt unwinds all the way out of
// Run.
var (
	errExitFrame = errors.New("exit frame")
	errHalt      = errors.New("halt")
)

var (
	errStackUnderflow = errors.New("Stack underflow")
	errBadCodeField   = errors.New("Bad code field")
	errDivideByZero   = errors.New("Division by zero")
	errNoCreated      = errors.New("DOES>: no CREATE executed at run time")
)

// unknownWordError reports a dictionary miss while interpreting.
type unknownWordError string

func (name unknownWordError) Error() string { return fmt.Sprintf("Unknown word: %v", string(name)) }

// unknownCompileError reports a dictionary miss while compiling.
type unknownCompileError string

func (name unknownCompileError) Error() string {
	return fmt.Sprintf("Unknown during compile: %v", string(name))
}

// compileOnlyError reports an immediate compiling word executed at toplevel.
type compileOnlyError string

func (word compileOnlyError) Error() string {
	return fmt.Sprintf("%v only valid during compilation", string(word))
}

// controlError reports a mismatched control structure; the string is the full
// user-facing message ("ELSE without IF", "LOOP without DO", ...).
type controlError string

func (mess controlError) Error() string { return string(mess) }

// nameError reports a defining word that found no name token; the string is
// the full message ("Missing name after ':'", "CREATE needs a name", ...).
type nameError string

func (mess nameError) Error() string { return string(mess) }

// nameLengthError reports a word name too long for the 6-bit length field.
type nameLengthError string

func (name nameLengthError) Error() string {
	return fmt.Sprintf("Name too long: %v", string(name))
}

// rangeError reports a PICK or ROLL index outside the stack.
type rangeError string

func (op rangeError) Error() string { return fmt.Sprintf("%v range", string(op)) }

// badOpError reports an invalid cell inside an executing thread.
type badOpError struct{ c cell }

func (err badOpError) Error() string { return fmt.Sprintf("Bad op %v", err.c) }

// unpatchedError reports a branch whose target was never back-patched.
type unpatchedError string

func (tag unpatchedError) Error() string {
	return fmt.Sprintf("Unpatched %v encountered", string(tag))
}

// loadMissingError reports a LOAD of a file that does not exist.
type loadMissingError string

func (file loadMissingError) Error() string { return fmt.Sprintf("Missing %v", string(file)) }

// heapLimitError reports heap growth beyond the configured limit.
type heapLimitError int

func (addr heapLimitError) Error() string {
	return fmt.Sprintf("Heap limit exceeded at %v", int(addr))
}
