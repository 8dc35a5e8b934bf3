package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/davidkyte/goforth/internal/flushio"
)

// The VM holds the whole Forth machine.  Its memory is a single linear heap
// of cells; the dictionary is a linked list of word headers threaded through
// that heap, newest first.  The compiler emits opcodes into an off-heap
// buffer which is copied into the heap when a definition is sealed, so the
// machine executes from the same address space it compiles into.
type VM struct {
	logging

	in      io.Reader
	out     flushio.WriteFlusher
	closers []io.Closer

	heap      []cell
	heapLimit int
	here      int // next free heap cell
	latest    int // newest word header, 0 when the dictionary is empty

	stack  []cell // data stack
	rstack []cell // return stack

	base int // numeric radix for parsing; printing is always decimal

	// Compiler state.  There is exactly one open definition at a time; a
	// nested ':' fails cleanly.
	compiling   bool
	buf         []op        // opcodes of the definition under construction
	cfaddr      int         // its code field address
	ctrl        []ctrlFrame // open control structures
	pendingDoes []doesMark  // DOES> sites awaiting sealing

	// The most recently CREATEd header, observed at run time by the DOES>
	// install opcode.
	createdHeader int

	// The header most recently dispatched by execute, named in crash
	// reports when a host primitive panics.
	lastExec int

	scan      *scanner // active input line, nil between lines
	lineHooks []LineHook

	prompt   string
	bootFile string
}

// A prim is a machine primitive.  Control transfer out of a primitive is by
// sentinel error: errExitFrame returns from the nearest enclosing thread,
// errHalt unwinds the whole session.
type prim func(vm *VM) error

// A thread names a contiguous heap slice of opcodes.  An unsealed definition
// carries the placeholder thread {-1, -1} in its code field until ';'.
type thread struct{ start, count int }

type cellKind uint8

const (
	cellNull cellKind = iota
	cellInt
	cellPrim
	cellThread
	cellOp
	cellDoes
)

// A cell is one heap or stack slot: an integer, a primitive, a thread
// descriptor, a compiled opcode, the DOES>-installed code field, or null.
type cell struct {
	kind cellKind
	num  int    // cellInt value; cellDoes parameter field address
	fn   prim   // cellPrim
	th   thread // cellThread; cellDoes body slice
	op   op     // cellOp
	name string // cellPrim diagnostic name
}

func intCell(n int) cell         { return cell{kind: cellInt, num: n} }
func threadCell(th thread) cell  { return cell{kind: cellThread, th: th} }
func opCell(o op) cell           { return cell{kind: cellOp, op: o} }
func primCell(name string, fn prim) cell {
	return cell{kind: cellPrim, fn: fn, name: name}
}

func (c cell) String() string {
	switch c.kind {
	case cellNull:
		return "null"
	case cellInt:
		return strconv.Itoa(c.num)
	case cellPrim:
		if c.name != "" {
			return fmt.Sprintf("prim(%v)", c.name)
		}
		return "prim"
	case cellThread:
		return fmt.Sprintf("thread(%v, %v)", c.th.start, c.th.count)
	case cellOp:
		return c.op.String()
	case cellDoes:
		return fmt.Sprintf("does(pfa:%v, %v, %v)", c.num, c.th.start, c.th.count)
	}
	return fmt.Sprintf("cell(?%v)", uint8(c.kind))
}

func (vm *VM) push(c cell)   { vm.stack = append(vm.stack, c) }
func (vm *VM) pushInt(n int) { vm.stack = append(vm.stack, intCell(n)) }

func (vm *VM) pop() (cell, error) {
	i := len(vm.stack) - 1
	if i < 0 {
		return cell{}, errStackUnderflow
	}
	c := vm.stack[i]
	vm.stack = vm.stack[:i]
	return c, nil
}

func (vm *VM) popInt() (int, error) {
	c, err := vm.pop()
	if err != nil {
		return 0, err
	}
	if c.kind != cellInt {
		return 0, badOpError{c}
	}
	return c.num, nil
}

func (vm *VM) peek(i int) (cell, error) {
	j := len(vm.stack) - 1 - i
	if j < 0 {
		return cell{}, errStackUnderflow
	}
	return vm.stack[j], nil
}

func (vm *VM) rpush(c cell) { vm.rstack = append(vm.rstack, c) }

func (vm *VM) rpop() (cell, error) {
	i := len(vm.rstack) - 1
	if i < 0 {
		return cell{}, errStackUnderflow
	}
	c := vm.rstack[i]
	vm.rstack = vm.rstack[:i]
	return c, nil
}

func (vm *VM) rpeek(i int) (cell, error) {
	j := len(vm.rstack) - 1 - i
	if j < 0 {
		return cell{}, errStackUnderflow
	}
	return vm.rstack[j], nil
}

// rindex reads the return-stack cell i below top as a loop counter value.
func (vm *VM) rindex(i int) (int, error) {
	c, err := vm.rpeek(i)
	if err != nil {
		return 0, err
	}
	if c.kind != cellInt {
		return 0, badOpError{c}
	}
	return c.num, nil
}

func (vm *VM) print(s string) error {
	_, err := io.WriteString(vm.out, s)
	return err
}

func (vm *VM) Close() (err error) {
	for i := len(vm.closers) - 1; i >= 0; i-- {
		if cerr := vm.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type logging struct {
	logfn func(mess string, args ...interface{})
}

// logf emits one trace line when tracing is enabled.  The mark tells the
// trace streams apart: "." for dictionary and compiler events, "@" for
// inner-interpreter steps.
func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
