// Command fullcircle is the toolchain's CLI: run, build and dump a
// FullCircle source file. Grounded on cmd/funxy/main.go's plain
// fmt/os.Exit error-reporting style and its panic-recovery wrapper
// around main — no structured logging framework, matching the teacher.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/fullcircle-lang/fullcircle"
	"github.com/fullcircle-lang/fullcircle/internal/pipeline"
	"github.com/fullcircle-lang/fullcircle/internal/vm"
)

const usage = `Usage:
  fullcircle run <file.fc>            lex, parse, compile and execute
  fullcircle build <file.fc> -o <out> compile and serialize bytecode
  fullcircle dump <file.fc>           print a disassembly listing
`

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	path := os.Args[2]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	ctx := pipeline.NewContext(string(source))
	ctx.FilePath = path

	var runErr error
	switch cmd {
	case "run":
		runErr = runFile(ctx)
	case "build":
		runErr = buildFile(ctx, outputPath(os.Args[3:]))
	case "dump":
		runErr = dumpFile(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if runErr != nil {
		printError(ctx.FilePath, runErr)
		os.Exit(1)
	}
}

func outputPath(rest []string) string {
	for i, arg := range rest {
		if arg == "-o" && i+1 < len(rest) {
			return rest[i+1]
		}
	}
	return "a.fcb"
}

func runFile(ctx *pipeline.Context) error {
	chunk, err := fullcircle.BuildWithContext(ctx)
	if err != nil {
		return err
	}
	err = fullcircle.Run(chunk, fullcircle.DefaultStackSize, os.Stdout)
	if err == vm.ErrProgramTerminated {
		return nil
	}
	return err
}

func buildFile(ctx *pipeline.Context, out string) error {
	chunk, err := fullcircle.BuildWithContext(ctx)
	if err != nil {
		return err
	}
	data, err := chunk.Serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

func dumpFile(ctx *pipeline.Context) error {
	chunk, err := fullcircle.BuildWithContext(ctx)
	if err != nil {
		return err
	}
	return vm.Disassemble(chunk, os.Stdout)
}

// printError prints diagnostics in red when stderr is a terminal, the
// same TTY-detection idiom the teacher's module graph already carried
// (go-isatty was an indirect dependency; here it drives actual output).
func printError(filePath string, err error) {
	msg := fmt.Sprintf("%s: %s\n", filePath, err.Error())
	if isatty.IsTerminal(os.Stderr.Fd()) {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	io.WriteString(os.Stderr, msg)
}
