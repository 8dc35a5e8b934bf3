package main

import (
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/davidkyte/goforth/internal/flushio"
	"github.com/davidkyte/goforth/internal/panicerr"
)

// Run drives the read-interpret loop over the VM's input until it is
// exhausted, BYE is read, or the context is canceled.  The loop runs under
// a recovery wrapper so a panicking host primitive surfaces as an error
// naming the word that was executing, instead of crashing the embedding
// process.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("VM", vm.panicSite, func() error {
		return vm.repl(ctx)
	})
	if ferr := vm.out.Flush(); err == nil {
		err = ferr
	}
	return err
}

func (vm *VM) repl(ctx context.Context) error {
	vm.autoBoot()

	// Reads drain pending output first, so the prompt and any printed
	// results land before the machine blocks for a line.
	sc := bufio.NewScanner(flushio.FlushBefore(vm.in, vm.out))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if vm.prompt != "" {
			if err := vm.print(vm.prompt); err != nil {
				return err
			}
		}
		if !sc.Scan() {
			return sc.Err()
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.ToUpper(line) == "BYE" {
			return nil
		}

		err := vm.Interpret(line)
		switch {
		case err == nil:
		case errors.Is(err, errExitFrame):
			// EXIT at toplevel just ends the line.
		case errors.Is(err, errHalt):
			return nil
		default:
			vm.panicReset(err)
		}
	}
}
