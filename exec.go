package main

import (
	"errors"
	"fmt"
)

type opKind uint8

const (
	opLit opKind = iota
	opCall
	opBranch
	opZBranch
	opPrim
	opPrint
	opInstall
)

// An op is one threaded-code instruction.  Branch targets are indices within
// the owning thread; -1 marks a target not yet back-patched, legal only while
// the matching control frame is still open.
type op struct {
	kind opKind
	arg  int    // opLit value; opCall header; opBranch/opZBranch target; opInstall body start
	n    int    // opInstall body count
	fn   prim   // opPrim
	text string // opPrint payload
	name string // opPrim diagnostic name
}

func litOp(n int) op             { return op{kind: opLit, arg: n} }
func callOp(header int) op       { return op{kind: opCall, arg: header} }
func branchOp(target int) op     { return op{kind: opBranch, arg: target} }
func zbranchOp(target int) op    { return op{kind: opZBranch, arg: target} }
func printOp(text string) op     { return op{kind: opPrint, text: text} }
func primOp(name string, fn prim) op {
	return op{kind: opPrim, fn: fn, name: name}
}

func (o op) String() string {
	switch o.kind {
	case opLit:
		return fmt.Sprintf("lit(%v)", o.arg)
	case opCall:
		return fmt.Sprintf("call(%v)", o.arg)
	case opBranch:
		return fmt.Sprintf("branch(%v)", o.arg)
	case opZBranch:
		return fmt.Sprintf("0branch(%v)", o.arg)
	case opPrim:
		if o.name != "" {
			return fmt.Sprintf("prim(%v)", o.name)
		}
		return "prim"
	case opPrint:
		return fmt.Sprintf("print(%q)", o.text)
	case opInstall:
		return fmt.Sprintf("install(%v, %v)", o.arg, o.n)
	}
	return fmt.Sprintf("op(?%v)", uint8(o.kind))
}

// execute runs the word at the given header address: a primitive code field
// is invoked directly, a thread descriptor starts a dispatch loop, and a
// DOES>-installed field pushes the word's parameter field address before
// running the recorded body.
func (vm *VM) execute(header int) error {
	vm.lastExec = header
	_, _, cf := vm.wordFields(header)
	code := vm.load(cf)
	switch code.kind {
	case cellPrim:
		return code.fn(vm)
	case cellThread:
		if code.th.start < 0 {
			return errBadCodeField
		}
		return vm.execThread(code.th)
	case cellDoes:
		vm.pushInt(code.num)
		return vm.execThread(code.th)
	}
	return errBadCodeField
}

// execThread is the inner interpreter: sequential opcode dispatch over a heap
// slice.  An errExitFrame raised by a primitive or a called word unwinds
// exactly this frame.
func (vm *VM) execThread(th thread) error {
	ip := 0
	for ip < th.count {
		c := vm.load(th.start + ip)
		ip++
		if c.kind != cellOp {
			return badOpError{c}
		}
		o := c.op
		if vm.logfn != nil {
			vm.logf("@", "%v.%v %v r:%v s:%v", th.start, ip-1, o, vm.rstack, vm.stack)
		}
		switch o.kind {
		case opPrim:
			if err := o.fn(vm); err != nil {
				if errors.Is(err, errExitFrame) {
					return nil
				}
				return err
			}
		case opLit:
			vm.pushInt(o.arg)
		case opCall:
			if err := vm.execute(o.arg); err != nil {
				if errors.Is(err, errExitFrame) {
					return nil
				}
				return err
			}
		case opBranch:
			if o.arg < 0 {
				return unpatchedError("BRANCH")
			}
			ip = o.arg
		case opZBranch:
			if o.arg < 0 {
				return unpatchedError("0BRANCH")
			}
			flag, err := vm.pop()
			if err != nil {
				return err
			}
			if flag.kind == cellInt && flag.num == 0 {
				ip = o.arg
			}
		case opPrint:
			if err := vm.print(o.text + " "); err != nil {
				return err
			}
		case opInstall:
			if err := vm.installDoes(o.arg, o.n); err != nil {
				return err
			}
		default:
			return badOpError{c}
		}
	}
	return nil
}

// installDoes runs at the defining word's run time: it takes the most
// recently CREATEd header and overwrites its code field so that executing
// that word pushes its parameter field address and then runs the DOES> body.
func (vm *VM) installDoes(bodyStart, bodyCount int) error {
	header := vm.createdHeader
	if header == 0 {
		return errNoCreated
	}
	_, _, cf := vm.wordFields(header)
	return vm.stor(cf, cell{
		kind: cellDoes,
		num:  cf + 1,
		th:   thread{bodyStart, bodyCount},
	})
}
