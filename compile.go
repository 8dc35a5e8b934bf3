package main

type ctrlKind uint8

const (
	ctrlIf ctrlKind = iota
	ctrlElse
	ctrlBegin
	ctrlWhile
	ctrlDo
	ctrlLeaves
)

// A ctrlFrame is one open control structure on the compile-time control
// stack: the buffer index to patch or branch to, plus for WHILE the matching
// BEGIN target and, for the leave-list frame pushed right after DO's frame,
// the accumulated LEAVE branch sites.
type ctrlFrame struct {
	kind   ctrlKind
	pos    int
	dest   int
	leaves []int
}

// A doesMark records one DOES> site in the open definition: the install stub
// slot, the skip branch to patch at ';', and the body's buffer index.
type doesMark struct {
	installPos int
	branchPos  int
	bodyIndex  int
}

func (vm *VM) needCompile(word string) error {
	if !vm.compiling {
		return compileOnlyError(word)
	}
	return nil
}

func (vm *VM) ctrlTop() (ctrlFrame, bool) {
	if i := len(vm.ctrl) - 1; i >= 0 {
		return vm.ctrl[i], true
	}
	return ctrlFrame{}, false
}

func (vm *VM) ctrlPop() ctrlFrame {
	i := len(vm.ctrl) - 1
	f := vm.ctrl[i]
	vm.ctrl = vm.ctrl[:i]
	return f
}

func (vm *VM) compileIf() error {
	if err := vm.needCompile("IF"); err != nil {
		return err
	}
	vm.emit(zbranchOp(-1))
	vm.ctrl = append(vm.ctrl, ctrlFrame{kind: ctrlIf, pos: len(vm.buf) - 1})
	return nil
}

func (vm *VM) compileElse() error {
	if err := vm.needCompile("ELSE"); err != nil {
		return err
	}
	top, ok := vm.ctrlTop()
	if !ok || top.kind != ctrlIf {
		return controlError("ELSE without IF")
	}
	f := vm.ctrlPop()
	vm.emit(branchOp(-1))
	branchPos := len(vm.buf) - 1
	vm.patch(f.pos, zbranchOp(len(vm.buf)))
	vm.ctrl = append(vm.ctrl, ctrlFrame{kind: ctrlElse, pos: branchPos})
	return nil
}

func (vm *VM) compileThen() error {
	if err := vm.needCompile("THEN"); err != nil {
		return err
	}
	top, ok := vm.ctrlTop()
	if !ok || (top.kind != ctrlIf && top.kind != ctrlElse) {
		return controlError("THEN without IF/ELSE")
	}
	f := vm.ctrlPop()
	target := len(vm.buf)
	if vm.buf[f.pos].kind == opZBranch {
		vm.patch(f.pos, zbranchOp(target))
	} else {
		vm.patch(f.pos, branchOp(target))
	}
	return nil
}

func (vm *VM) compileBegin() error {
	if err := vm.needCompile("BEGIN"); err != nil {
		return err
	}
	vm.ctrl = append(vm.ctrl, ctrlFrame{kind: ctrlBegin, pos: len(vm.buf)})
	return nil
}

func (vm *VM) compileAgain() error {
	if err := vm.needCompile("AGAIN"); err != nil {
		return err
	}
	top, ok := vm.ctrlTop()
	if !ok || top.kind != ctrlBegin {
		return controlError("AGAIN without BEGIN")
	}
	f := vm.ctrlPop()
	vm.emit(branchOp(f.pos))
	return nil
}

func (vm *VM) compileUntil() error {
	if err := vm.needCompile("UNTIL"); err != nil {
		return err
	}
	top, ok := vm.ctrlTop()
	if !ok || top.kind != ctrlBegin {
		return controlError("UNTIL without BEGIN")
	}
	f := vm.ctrlPop()
	vm.emit(zbranchOp(f.pos))
	return nil
}

// compileWhile remembers the nearest BEGIN without popping it; the matching
// BEGIN frame is removed by REPEAT.
func (vm *VM) compileWhile() error {
	if err := vm.needCompile("WHILE"); err != nil {
		return err
	}
	dest := -1
	for i := len(vm.ctrl) - 1; i >= 0; i-- {
		if vm.ctrl[i].kind == ctrlBegin {
			dest = vm.ctrl[i].pos
			break
		}
	}
	if dest < 0 {
		return controlError("WHILE without BEGIN")
	}
	vm.emit(zbranchOp(-1))
	vm.ctrl = append(vm.ctrl, ctrlFrame{kind: ctrlWhile, pos: len(vm.buf) - 1, dest: dest})
	return nil
}

func (vm *VM) compileRepeat() error {
	if err := vm.needCompile("REPEAT"); err != nil {
		return err
	}
	top, ok := vm.ctrlTop()
	if !ok || top.kind != ctrlWhile {
		return controlError("REPEAT without WHILE")
	}
	f := vm.ctrlPop()
	vm.emit(branchOp(f.dest))
	vm.patch(f.pos, zbranchOp(len(vm.buf)))
	for i := len(vm.ctrl) - 1; i >= 0; i-- {
		if vm.ctrl[i].kind == ctrlBegin && vm.ctrl[i].pos == f.dest {
			vm.ctrl = append(vm.ctrl[:i], vm.ctrl[i+1:]...)
			break
		}
	}
	return nil
}

//// Counted loops

// loopEnter moves ( limit start -- ) onto the return stack as limit, index.
func loopEnter(vm *VM) error {
	start, err := vm.popInt()
	if err != nil {
		return err
	}
	limit, err := vm.popInt()
	if err != nil {
		return err
	}
	vm.rpush(intCell(limit))
	vm.rpush(intCell(start))
	return nil
}

// loopStep advances the index by step.  While index < limit the flag pushed
// is 0; at termination both return-stack cells are dropped and the flag is
// -1.
func (vm *VM) loopStep(step int) error {
	idx, err := vm.rindex(0)
	if err != nil {
		return err
	}
	limit, err := vm.rindex(1)
	if err != nil {
		return err
	}
	idx += step
	if idx < limit {
		vm.rstack[len(vm.rstack)-1] = intCell(idx)
		vm.pushInt(0)
		return nil
	}
	vm.rstack = vm.rstack[:len(vm.rstack)-2]
	vm.pushInt(-1)
	return nil
}

func loopStepConst(vm *VM) error { return vm.loopStep(1) }

func loopStepVar(vm *VM) error {
	step, err := vm.popInt()
	if err != nil {
		return err
	}
	return vm.loopStep(step)
}

func leavePop(vm *VM) error {
	if len(vm.rstack) < 2 {
		return controlError("LEAVE without DO")
	}
	vm.rstack = vm.rstack[:len(vm.rstack)-2]
	return nil
}

func (vm *VM) compileDo() error {
	if err := vm.needCompile("DO"); err != nil {
		return err
	}
	vm.emit(primOp("loop_enter", loopEnter))
	vm.ctrl = append(vm.ctrl, ctrlFrame{kind: ctrlDo, pos: len(vm.buf)})
	vm.ctrl = append(vm.ctrl, ctrlFrame{kind: ctrlLeaves})
	return nil
}

// compileLoopTail emits the shared LOOP / +LOOP ending: step, then a tail
// equivalent to DUP NOT 0BRANCH(end) DROP BRANCH(start) end: DROP, with
// every pending LEAVE branch patched past the final DROP.
func (vm *VM) compileLoopTail(word string, step op) error {
	if err := vm.needCompile(word); err != nil {
		return err
	}
	top, ok := vm.ctrlTop()
	if !ok || top.kind != ctrlLeaves {
		return controlError(word + ": internal leave list missing")
	}
	leaves := vm.ctrlPop().leaves
	top, ok = vm.ctrlTop()
	if !ok || top.kind != ctrlDo {
		return controlError(word + " without DO")
	}
	loopStart := vm.ctrlPop().pos

	dup := vm.find("DUP")
	not := vm.find("NOT")
	drop := vm.find("DROP")
	if dup == 0 || not == 0 || drop == 0 {
		return errBadCodeField
	}

	vm.emit(step)
	vm.emit(callOp(dup))
	vm.emit(callOp(not))
	ifPos := len(vm.buf)
	vm.emit(zbranchOp(-1))
	vm.emit(callOp(drop))
	vm.emit(branchOp(loopStart))
	vm.patch(ifPos, zbranchOp(len(vm.buf)))
	vm.emit(callOp(drop))

	end := len(vm.buf)
	for _, pos := range leaves {
		vm.patch(pos, branchOp(end))
	}
	return nil
}

func (vm *VM) compileLoop() error {
	return vm.compileLoopTail("LOOP", primOp("loop_step", loopStepConst))
}

func (vm *VM) compilePlusLoop() error {
	return vm.compileLoopTail("+LOOP", primOp("loop_step_var", loopStepVar))
}

func (vm *VM) compileLeave() error {
	if err := vm.needCompile("LEAVE"); err != nil {
		return err
	}
	for i := len(vm.ctrl) - 1; i >= 0; i-- {
		if vm.ctrl[i].kind == ctrlLeaves {
			vm.emit(primOp("leave_pop", leavePop))
			vm.emit(branchOp(-1))
			vm.ctrl[i].leaves = append(vm.ctrl[i].leaves, len(vm.buf)-1)
			return nil
		}
	}
	return controlError("LEAVE outside DO...LOOP")
}

//// Defining words

// wordCreate allocates a header whose default behavior is pushing its
// parameter field address, and records it for a DOES> installation by the
// word now running.
func wordCreate(vm *VM) error {
	name, ok := vm.nextToken()
	if !ok {
		return nameError("CREATE needs a name")
	}
	cf, err := vm.allocateHeader(name, false)
	if err != nil {
		return err
	}
	if err := vm.stor(cf, cell{kind: cellDoes, num: cf + 1}); err != nil {
		return err
	}
	vm.createdHeader = vm.latest
	return nil
}

// compileDoes splits the definition: an install stub and a skip branch go in
// now, the words that follow compile as the DOES> body.  Both the branch and
// the stub payload are resolved at ';'.
func (vm *VM) compileDoes() error {
	if err := vm.needCompile("DOES>"); err != nil {
		return err
	}
	installPos := len(vm.buf)
	vm.emit(op{kind: opInstall, arg: -1, n: -1})
	vm.emit(branchOp(-1))
	branchPos := len(vm.buf) - 1
	vm.pendingDoes = append(vm.pendingDoes, doesMark{
		installPos: installPos,
		branchPos:  branchPos,
		bodyIndex:  len(vm.buf),
	})
	return nil
}
