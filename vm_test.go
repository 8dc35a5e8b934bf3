package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forthTestCases []forthTestCase

func (fts forthTestCases) run(t *testing.T) {
	for _, ft := range fts {
		t.Run(ft.name, ft.run)
	}
}

func forthTest(name string) (ft forthTestCase) {
	ft.name = name
	return ft
}

// forthTestCase interprets lines the way the REPL does: EXIT ends a line,
// BYE ends the session, any other error goes through panicReset so the test
// can observe the printed "ERR:" line and the reset machine.
type forthTestCase struct {
	name   string
	opts   []VMOption
	lines  []string
	expect []func(t *testing.T, vm *VM)
}

func (ft forthTestCase) withOptions(opts ...VMOption) forthTestCase {
	ft.opts = append(ft.opts, opts...)
	return ft
}

func (ft forthTestCase) do(lines ...string) forthTestCase {
	ft.lines = append(ft.lines, lines...)
	return ft
}

func (ft forthTestCase) expectOutput(output string) forthTestCase {
	var out strings.Builder
	ft.opts = append(ft.opts, WithOutput(&out))
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return ft
}

func (ft forthTestCase) expectOutputContaining(parts ...string) forthTestCase {
	var out strings.Builder
	ft.opts = append(ft.opts, WithOutput(&out))
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		for _, part := range parts {
			assert.Contains(t, out.String(), part, "expected output part")
		}
	})
	return ft
}

func (ft forthTestCase) expectStack(values ...int) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, values, stackInts(t, vm.stack), "expected stack values")
	})
	return ft
}

func (ft forthTestCase) expectRStackDepth(n int) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		assert.Len(t, vm.rstack, n, "expected return stack depth")
	})
	return ft
}

func (ft forthTestCase) expectReset() forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		assert.False(t, vm.compiling, "expected compiling reset")
		assert.Empty(t, vm.stack, "expected empty data stack")
		assert.Empty(t, vm.rstack, "expected empty return stack")
		assertValidChain(t, vm)
	})
	return ft
}

func (ft forthTestCase) expectWith(fn func(t *testing.T, vm *VM)) forthTestCase {
	ft.expect = append(ft.expect, fn)
	return ft
}

func (ft forthTestCase) run(t *testing.T) {
	vm := New(VMOptions(ft.opts...), WithBootFile(""))
	defer func() {
		if t.Failed() {
			var out strings.Builder
			vmDumper{vm: vm, out: &out}.dump()
			t.Logf("%s", out.String())
		}
	}()

lines:
	for _, line := range ft.lines {
		err := vm.Interpret(line)
		switch {
		case err == nil:
		case errors.Is(err, errExitFrame):
		case errors.Is(err, errHalt):
			break lines
		default:
			vm.panicReset(err)
		}
	}

	for _, expect := range ft.expect {
		expect(t, vm)
	}
}

func stackInts(t *testing.T, cells []cell) []int {
	ints := []int{}
	for _, c := range cells {
		require.Equal(t, cellInt, c.kind, "expected an integer cell, got %v", c)
		ints = append(ints, c.num)
	}
	return ints
}

// assertValidChain checks that latest leads through link cells to 0.
func assertValidChain(t *testing.T, vm *VM) {
	seen := map[int]bool{}
	for p := vm.latest; p != 0; p = vm.load(p).num {
		require.False(t, seen[p], "dictionary chain loops at %v", p)
		require.Equal(t, cellInt, vm.load(p).kind, "link cell at %v", p)
		seen[p] = true
	}
}

// assertBranchTargets walks a finalized word's thread and checks every
// branch target lies within [0, count].
func assertBranchTargets(t *testing.T, vm *VM, name string) {
	header := vm.find(name)
	require.NotZero(t, header, "word %q not found", name)
	_, _, cf := vm.wordFields(header)
	code := vm.load(cf)
	require.Equal(t, cellThread, code.kind, "word %q code field", name)
	for i := 0; i < code.th.count; i++ {
		c := vm.load(code.th.start + i)
		require.Equal(t, cellOp, c.kind, "cell %v of %q", i, name)
		if c.op.kind == opBranch || c.op.kind == opZBranch {
			assert.GreaterOrEqual(t, c.op.arg, 0, "branch target %v of %q", i, name)
			assert.LessOrEqual(t, c.op.arg, code.th.count, "branch target %v of %q", i, name)
		}
	}
}
