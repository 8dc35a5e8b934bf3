package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, input string, opts ...VMOption) string {
	t.Helper()
	var out strings.Builder
	vm := New(
		VMOptions(opts...),
		WithInput(strings.NewReader(input)),
		WithOutput(&out),
		WithBootFile(""),
	)
	require.NoError(t, vm.Run(context.Background()))
	return out.String()
}

func TestREPL(t *testing.T) {
	t.Run("prompts and interprets", func(t *testing.T) {
		got := runSession(t, "3 4 + .\nBYE\n")
		assert.Equal(t, "ok> 7 ok> ", got)
	})

	t.Run("empty lines re-prompt", func(t *testing.T) {
		got := runSession(t, "\n   \n1 .\n")
		assert.Equal(t, "ok> ok> ok> 1 ok> ", got)
	})

	t.Run("bye is case-insensitive", func(t *testing.T) {
		got := runSession(t, "bye\n2 .\n")
		assert.Equal(t, "ok> ", got)
	})

	t.Run("bye mid-line halts", func(t *testing.T) {
		got := runSession(t, "1 . BYE 2 .\n3 .\n")
		assert.Equal(t, "ok> 1 ", got)
	})

	t.Run("errors print and recover", func(t *testing.T) {
		got := runSession(t, "nosuch\n5 .\n", WithPrompt(""))
		assert.Equal(t, "ERR: Unknown word: nosuch\n5 ", got)
	})

	t.Run("error mid-compile recovers for the next definition", func(t *testing.T) {
		got := runSession(t, ": BAD nosuch ;\n: GOOD 9 . ;\nGOOD\n", WithPrompt(""))
		assert.Equal(t, "ERR: Unknown during compile: nosuch\n9 ", got)
	})

	t.Run("exit at toplevel keeps the session alive", func(t *testing.T) {
		got := runSession(t, "1 . EXIT 2 .\n3 .\n", WithPrompt(""))
		assert.Equal(t, "1 3 ", got)
	})

	t.Run("eof ends the session", func(t *testing.T) {
		got := runSession(t, "1 2 + .\n", WithPrompt(""))
		assert.Equal(t, "3 ", got)
	})

	t.Run("state persists across lines", func(t *testing.T) {
		got := runSession(t, ": SQ DUP * ;\n6 SQ .\n", WithPrompt(""))
		assert.Equal(t, "36 ", got)
	})

	t.Run("definitions span lines", func(t *testing.T) {
		got := runSession(t, ": ADD2\n1 +\n1 + ;\n1 ADD2 .\n", WithPrompt(""))
		assert.Equal(t, "3 ", got)
	})

	t.Run("canceled context stops the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		vm := New(
			WithInput(strings.NewReader("1 .\n")),
			WithOutput(&strings.Builder{}),
			WithBootFile(""),
		)
		assert.Error(t, vm.Run(ctx))
	})
}
