package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Interpret runs one line of input through the outer interpreter.  The
// active scanner is saved and restored around the call so that a primitive
// which re-enters Interpret nests safely.
//
// errExitFrame and errHalt propagate to the caller; all other errors leave
// the line partially interpreted and are expected to be handed to panicReset
// by the REPL or loader.
func (vm *VM) Interpret(line string) error {
	for _, hook := range vm.lineHooks {
		consumed, err := hook(vm, line)
		if err != nil || consumed {
			return err
		}
	}

	prev := vm.scan
	vm.scan = newScanner(line)
	defer func() { vm.scan = prev }()

	for {
		tok, ok := vm.scan.next()
		if !ok {
			return nil
		}
		if err := vm.interpretToken(tok); err != nil {
			return err
		}
	}
}

// nextToken pulls the next token from the current input line; defining words
// use it to consume the name that follows them.
func (vm *VM) nextToken() (string, bool) {
	if vm.scan == nil {
		return "", false
	}
	tok, ok := vm.scan.next()
	if !ok || tok.quote {
		return "", false
	}
	return tok.word, true
}

// nextLineRemainder hands back the unparsed suffix of the current line
// verbatim, for host quoting words.
func (vm *VM) nextLineRemainder() (string, bool) {
	if vm.scan == nil {
		return "", false
	}
	return vm.scan.remainder(), true
}

func (vm *VM) parseNumber(tok string) (int, bool) {
	n, err := strconv.ParseInt(tok, vm.base, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func (vm *VM) emit(o op) {
	vm.buf = append(vm.buf, o)
}

func (vm *VM) patch(idx int, o op) {
	vm.buf[idx] = o
}

func (vm *VM) interpretToken(tok token) error {
	if tok.quote {
		if vm.compiling {
			vm.emit(printOp(tok.text))
			return nil
		}
		return vm.print(tok.text + " ")
	}

	tU := strings.ToUpper(tok.word)

	if tU == ":" {
		return vm.beginDefinition()
	}
	if vm.compiling && tU == ";" {
		return vm.seal()
	}

	if vm.compiling {
		if n, ok := vm.parseNumber(tok.word); ok {
			vm.emit(litOp(n))
			return nil
		}
		w := vm.find(tU)
		if w == 0 {
			return unknownCompileError(tok.word)
		}
		if vm.immediateWord(w) {
			return vm.execute(w)
		}
		vm.emit(callOp(w))
		return nil
	}

	if n, ok := vm.parseNumber(tok.word); ok {
		vm.pushInt(n)
		return nil
	}
	w := vm.find(tU)
	if w == 0 {
		return unknownWordError(tok.word)
	}
	return vm.execute(w)
}

func (vm *VM) beginDefinition() error {
	if vm.compiling {
		return controlError("Nested : definition")
	}
	name, ok := vm.nextToken()
	if !ok {
		return nameError("Missing name after ':'")
	}
	cf, err := vm.allocateHeader(strings.ToUpper(name), false)
	if err != nil {
		return err
	}
	if err := vm.stor(cf, threadCell(thread{-1, -1})); err != nil {
		return err
	}
	vm.compiling = true
	vm.cfaddr = cf
	vm.buf = nil
	vm.ctrl = nil
	vm.pendingDoes = nil
	return nil
}

// seal finishes the open definition: DOES> skip branches are patched to the
// end of the buffer, any branch still unpatched fails the definition, the
// buffer is copied into the heap, and the code field becomes a thread over
// that heap range.
func (vm *VM) seal() error {
	count := len(vm.buf)
	for _, mark := range vm.pendingDoes {
		vm.patch(mark.branchPos, branchOp(count))
	}
	if len(vm.ctrl) != 0 {
		return controlError("Unclosed control structure at ;")
	}
	for _, o := range vm.buf {
		if (o.kind == opBranch || o.kind == opZBranch) && (o.arg < 0 || o.arg > count) {
			return controlError("Unclosed control structure at ;")
		}
	}

	start := vm.here
	for _, mark := range vm.pendingDoes {
		vm.patch(mark.installPos, op{
			kind: opInstall,
			arg:  start + mark.bodyIndex,
			n:    count - mark.bodyIndex,
		})
	}
	for _, o := range vm.buf {
		if err := vm.comma(opCell(o)); err != nil {
			return err
		}
	}
	if err := vm.stor(vm.cfaddr, threadCell(thread{start, count})); err != nil {
		return err
	}
	vm.logf(".", "sealed %q @%v thread(%v, %v)", vm.wordName(vm.latest), vm.latest, start, count)

	vm.compiling = false
	vm.buf = nil
	vm.cfaddr = 0
	vm.ctrl = nil
	vm.pendingDoes = nil
	return nil
}

// panicReset prints the error and resets all volatile state.  A half-built
// definition is unlinked from the dictionary; its reserved cells remain
// allocated but unreachable by name.  The input scanner is left alone: the
// erroring line was already abandoned when Interpret unwound, and a caller
// mid-line (LOAD's invoking line) gets to finish its own tokens.
func (vm *VM) panicReset(err error) {
	if err != nil {
		fmt.Fprintf(vm.out, "ERR: %v\n", err)
	}
	if vm.compiling && vm.latest != 0 {
		vm.latest = vm.load(vm.latest).num
	}
	vm.stack = nil
	vm.rstack = nil
	vm.compiling = false
	vm.buf = nil
	vm.cfaddr = 0
	vm.ctrl = nil
	vm.pendingDoes = nil
	vm.createdHeader = 0
	vm.lastExec = 0
}

// panicSite names the word the machine was dispatching, for crash reports.
func (vm *VM) panicSite() string {
	if vm.lastExec == 0 {
		return ""
	}
	return vm.wordName(vm.lastExec)
}
