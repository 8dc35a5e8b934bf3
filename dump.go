package main

import (
	"fmt"
	"io"
)

// vmDumper renders the machine state for the -dump flag and for failing
// tests: both stacks, then the dictionary newest-first with each thread
// disassembled.
type vmDumper struct {
	vm  *VM
	out io.Writer
}

func (dump vmDumper) dump() {
	vm := dump.vm
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  here: %v latest: %v base: %v\n", vm.here, vm.latest, vm.base)
	fmt.Fprintf(dump.out, "  stack: %v\n", vm.stack)
	fmt.Fprintf(dump.out, "  rstack: %v\n", vm.rstack)

	fmt.Fprintf(dump.out, "# Dictionary\n")
	for p := vm.latest; p != 0; p = vm.load(p).num {
		dump.dumpWord(p)
	}
}

func (dump vmDumper) dumpWord(header int) {
	vm := dump.vm
	flagsLen, _, cf := vm.wordFields(header)
	name := vm.wordName(header)
	immediate := ""
	if flagsLen&immediateFlag != 0 {
		immediate = " immediate"
	}
	code := vm.load(cf)
	fmt.Fprintf(dump.out, "  @%v %q%v %v\n", header, name, immediate, code)
	if code.kind != cellThread {
		return
	}
	for i := 0; i < code.th.count; i++ {
		fmt.Fprintf(dump.out, "    %v: %v\n", i, vm.load(code.th.start+i))
	}
}
