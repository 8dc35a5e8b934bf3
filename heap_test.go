package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderLayout(t *testing.T) {
	vm := New()
	start := vm.here

	cf, err := vm.allocateHeader("AB", false)
	require.NoError(t, err)

	assert.Equal(t, start+4, cf, "code field after link, flags|len, and name")
	assert.Equal(t, start, vm.latest, "latest points at the new header")
	assert.Equal(t, start+5, vm.here, "here advanced past the code field")

	assert.Equal(t, intCell(0x02), vm.load(start+1), "flags|len")
	assert.Equal(t, intCell('A'), vm.load(start+2))
	assert.Equal(t, intCell('B'), vm.load(start+3))
	assert.Equal(t, cellNull, vm.load(cf).kind, "code field starts null")

	flagsLen, nameLen, gotCF := vm.wordFields(start)
	assert.Equal(t, 0x02, flagsLen)
	assert.Equal(t, 2, nameLen)
	assert.Equal(t, cf, gotCF)
	assert.Equal(t, "AB", vm.wordName(start))
}

func TestImmediateFlag(t *testing.T) {
	vm := New()

	_, err := vm.allocateHeader("IMM", true)
	require.NoError(t, err)
	imm := vm.latest

	_, err = vm.allocateHeader("PLAIN", false)
	require.NoError(t, err)
	plain := vm.latest

	assert.True(t, vm.immediateWord(imm))
	assert.False(t, vm.immediateWord(plain))

	flagsLen, nameLen, _ := vm.wordFields(imm)
	assert.Equal(t, immediateFlag|3, flagsLen)
	assert.Equal(t, 3, nameLen)
}

func TestFind(t *testing.T) {
	vm := New()

	assert.Zero(t, vm.find("NOSUCH"), "miss returns 0")

	assert.NotZero(t, vm.find("DUP"), "kernel word")
	assert.Equal(t, vm.find("DUP"), vm.find("DUP"), "lookup is stable")

	// Names are stored as given but compared uppercased.
	_, err := vm.allocateHeader("MixedCase", false)
	require.NoError(t, err)
	header := vm.latest
	assert.Equal(t, header, vm.find("MIXEDCASE"))
	assert.Equal(t, "MixedCase", vm.wordName(header))

	// Duplicates resolve newest-first.
	first := vm.find("NOT")
	_, err = vm.allocateHeader("NOT", false)
	require.NoError(t, err)
	assert.Equal(t, vm.latest, vm.find("NOT"))
	assert.NotEqual(t, first, vm.find("NOT"))
}

func TestNameLengthLimit(t *testing.T) {
	vm := New()

	longest := strings.Repeat("X", 63)
	_, err := vm.allocateHeader(longest, false)
	assert.NoError(t, err)
	assert.Equal(t, vm.latest, vm.find(longest))

	_, err = vm.allocateHeader(strings.Repeat("X", 64), false)
	assert.Error(t, err)
}

func TestHeapGrowth(t *testing.T) {
	vm := New()

	require.NoError(t, vm.stor(10000, intCell(7)))
	assert.Equal(t, intCell(7), vm.load(10000))

	assert.Equal(t, cell{}, vm.load(999999), "unwritten cells read null")
	assert.Equal(t, cell{}, vm.load(-1), "negative addresses read null")
}

func TestHeapLimit(t *testing.T) {
	vm := New(WithHeapLimit(2048))

	require.NoError(t, vm.stor(100, intCell(1)))
	err := vm.stor(5000, intCell(1))
	assert.Error(t, err)
}
