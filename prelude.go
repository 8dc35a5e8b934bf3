package main

import "strings"

// preludeSource is the high-level bootstrap, compiled through the outer
// interpreter at construction time.  Everything here is ordinary Forth built
// on the machine primitives; CONSTANT and VARIABLE in particular exercise
// the CREATE / DOES> two-stage installation.
const preludeSource = `
: 1+ 1 + ;
: 1- 1 - ;
: 2* DUP + ;
: 2/ 2 / ;
: NEGATE 0 SWAP - ;
: 2DUP OVER OVER ;
: 2DROP DROP DROP ;
: ROT >R SWAP R> SWAP ;
: -ROT SWAP >R SWAP R> ;
: NIP SWAP DROP ;
: TUCK SWAP OVER ;
: SPACE 32 EMIT ;
: .CR . CR ;
: ? @ . ;
: TRUE -1 ;
: FALSE 0 ;
: NOT 0 = ;
: ABS DUP 0 < IF NEGATE THEN ;
: MIN 2DUP > IF SWAP THEN DROP ;
: MAX 2DUP < IF SWAP THEN DROP ;
: CONSTANT ( n "name" -- ) CREATE , DOES> @ ;
: VARIABLE ( "name" -- ) CREATE 0 , DOES> ;
`

func (vm *VM) installPrelude() {
	for _, line := range strings.Split(preludeSource, "\n") {
		if err := vm.Interpret(line); err != nil {
			panic(err)
		}
	}

	// Legacy definers kept from the first cut of the system: they build the
	// defined word directly instead of going through CREATE / DOES>.
	vm.mustAddPrim("CONSTANT2", wordConstant2, false)
	vm.mustAddPrim("VARIABLE2", wordVariable2, false)
}

func wordConstant2(vm *VM) error {
	name, ok := vm.nextToken()
	if !ok {
		return nameError("CONSTANT2 needs name")
	}
	val, err := vm.pop()
	if err != nil {
		return err
	}
	cf, err := vm.allocateHeader(name, false)
	if err != nil {
		return err
	}
	return vm.stor(cf, primCell(name, func(vm *VM) error {
		vm.push(val)
		return nil
	}))
}

func wordVariable2(vm *VM) error {
	name, ok := vm.nextToken()
	if !ok {
		return nameError("VARIABLE2 needs name")
	}
	addr := vm.here
	if err := vm.comma(intCell(0)); err != nil {
		return err
	}
	cf, err := vm.allocateHeader(name, false)
	if err != nil {
		return err
	}
	return vm.stor(cf, primCell(name, func(vm *VM) error {
		vm.pushInt(addr)
		return nil
	}))
}
