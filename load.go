package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// wordLoad implements `n LOAD`: interpret the file "<n>.txt" line by line.
// EXIT at file toplevel ends the file cleanly.  Any other error is reported
// as "ERR in <file>:<lineno>: <message>", the machine is reset, and the rest
// of the file is skipped.
func wordLoad(vm *VM) error {
	n, err := vm.popInt()
	if err != nil {
		return err
	}
	return vm.loadFile(fmt.Sprintf("%v.txt", n))
}

func (vm *VM) loadFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return loadMissingError(name)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for lineno := 1; sc.Scan(); lineno++ {
		err := vm.Interpret(sc.Text())
		switch {
		case err == nil:
		case errors.Is(err, errExitFrame):
			return nil
		case errors.Is(err, errHalt):
			return err
		default:
			fmt.Fprintf(vm.out, "ERR in %v:%v: %v\n", name, lineno, err)
			vm.panicReset(nil)
			return nil
		}
	}
	return sc.Err()
}

// autoBoot loads the boot file when it exists, swallowing any error.
func (vm *VM) autoBoot() {
	if vm.bootFile == "" {
		return
	}
	if _, err := os.Stat(vm.bootFile); err != nil {
		return
	}
	if err := vm.loadFile(vm.bootFile); err != nil {
		vm.panicReset(nil)
	}
}
