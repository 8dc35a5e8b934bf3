package main

import (
	"bytes"
	"io"

	"github.com/davidkyte/goforth/internal/flushio"
)

// New builds a Forth machine with the kernel and prelude installed.
func New(opts ...VMOption) *VM {
	vm := &VM{
		here: 1,
		base: 10,
	}
	defaultOptions.apply(vm)
	vm.installKernel()
	vm.installPrelude()
	VMOptions(opts...).apply(vm)
	return vm
}

// A LineHook sees each input line before the outer interpreter; returning
// consumed=true claims the line.  Host extensions use hooks to capture
// block-structured input the tokenizer has no business parsing.
type LineHook func(vm *VM, line string) (consumed bool, err error)

// AddPrimitive registers a host word.  The primitive may use the Push / Pop
// accessors, pull tokens from the current input line, and, while compiling,
// append to the open definition through CompileOp.
func (vm *VM) AddPrimitive(name string, fn func(vm *VM) error, immediate bool) error {
	return vm.addPrim(name, fn, immediate)
}

// AddLineHook appends a line hook; hooks run in registration order.
func (vm *VM) AddLineHook(hook LineHook) {
	vm.lineHooks = append(vm.lineHooks, hook)
}

// Push puts an integer on the data stack.
func (vm *VM) Push(n int) { vm.pushInt(n) }

// Pop removes the top data-stack cell as an integer.
func (vm *VM) Pop() (int, error) { return vm.popInt() }

// NextToken pulls the next token from the current input line.
func (vm *VM) NextToken() (string, bool) { return vm.nextToken() }

// NextLineRemainder consumes and returns the unparsed suffix of the current
// input line verbatim.
func (vm *VM) NextLineRemainder() (string, bool) { return vm.nextLineRemainder() }

// CompileOp appends an opcode to the open definition; it is legal only while
// compiling.
func (vm *VM) CompileOp(o op) error {
	if !vm.compiling {
		return compileOnlyError("CompileOp")
	}
	vm.emit(o)
	return nil
}

type VMOption interface{ apply(vm *VM) }

var defaultOptions = VMOptions(
	withInput(bytes.NewReader(nil)),
	withOutput(io.Discard),
	withPrompt("ok> "),
	bootFileOption("0.txt"),
)

func WithInput(r io.Reader) VMOption      { return withInput(r) }
func WithOutput(w io.Writer) VMOption     { return withOutput(w) }
func WithHeapLimit(limit int) VMOption    { return heapLimitOption(limit) }
func WithPrompt(prompt string) VMOption   { return withPrompt(prompt) }
func WithBootFile(name string) VMOption   { return bootFileOption(name) }
func WithLineHook(hook LineHook) VMOption { return lineHookOption(hook) }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(vm *VM) {}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type heapLimitOption int
type promptOption string
type bootFileOption string
type lineHookOption LineHook
type withLogfn func(mess string, args ...interface{})

func withInput(r io.Reader) inputOption     { return inputOption{r} }
func withOutput(w io.Writer) outputOption   { return outputOption{w} }
func withPrompt(prompt string) promptOption { return promptOption(prompt) }

func (i inputOption) apply(vm *VM) {
	vm.in = i.Reader
	if cl, ok := i.Reader.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

func (lim heapLimitOption) apply(vm *VM) { vm.heapLimit = int(lim) }
func (p promptOption) apply(vm *VM)      { vm.prompt = string(p) }
func (b bootFileOption) apply(vm *VM)    { vm.bootFile = string(b) }
func (hook lineHookOption) apply(vm *VM) {
	vm.lineHooks = append(vm.lineHooks, LineHook(hook))
}
func (logfn withLogfn) apply(vm *VM) { vm.logfn = logfn }
