package main

import (
	"context"
	"flag"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/davidkyte/goforth/internal/config"
	"github.com/davidkyte/goforth/internal/logio"
)

func main() {
	var (
		configPath string
		heapLimit  int
		timeout    time.Duration
		trace      bool
		dump       bool
	)
	flag.StringVar(&configPath, "config", "goforth.toml", "config file path")
	flag.IntVar(&heapLimit, "heap-limit", 0, "enable heap limit (cells)")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "print a dictionary dump after the session")
	flag.Parse()

	log := &logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		log.ErrorIf(err)
		return
	}
	if heapLimit == 0 {
		heapLimit = cfg.Heap.Limit
	}
	if cfg.Trace.Enable {
		trace = true
	}

	// Piped input reads cleaner without a prompt.
	prompt := cfg.REPL.Prompt
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		prompt = ""
	}

	opts := VMOptions(
		WithInput(os.Stdin),
		WithOutput(os.Stdout),
		WithHeapLimit(heapLimit),
		WithPrompt(prompt),
		WithBootFile(cfg.REPL.Boot),
	)
	if trace {
		opts = VMOptions(opts, WithLogf(log.Leveledf("TRACE")))
	}

	vm := New(opts)

	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer lw.Close()
		defer vmDumper{vm: vm, out: lw}.dump()
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.ErrorIf(vm.Run(ctx))
}
