// Entry point for the lox interpreter.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/chzyer/readline"

	"github.com/wiseodd/lox/ast"
	"github.com/wiseodd/lox/interpreter"
	"github.com/wiseodd/lox/lox"
	"github.com/wiseodd/lox/parser"
	"github.com/wiseodd/lox/resolver"
)

var (
	cmd      = flag.String("c", "", "Program passed in as string")
	printAST = flag.Bool("p", false, "Print the AST only")

	cpuProfile = flag.String("cpuprofile", "", "Write a CPU profile to the specified file before exiting.")
	memProfile = flag.String("memprofile", "", "Write an allocation profile to the file before exiting.")
	traceFile  = flag.String("trace", "", "Write an execution trace to the specified file before exiting.")
)

const usage = "Usage: lox [script]"

// nolint:revive
func Usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "%s\n", usage)
	fmt.Fprintf(flag.CommandLine.Output(), "\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)

	flag.Usage = Usage
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("failed to create CPU profile: %s", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatalf("failed to close CPU profile: %s", err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("failed to start CPU profile: %s", err)
		}
		defer pprof.StopCPUProfile()
	}
	if *memProfile != "" {
		defer func() {
			f, err := os.Create(*memProfile)
			if err != nil {
				log.Fatalf("failed to create memory profile: %s", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatalf("failed to close memory profile: %s", err)
				}
			}()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatalf("failed to write memory profile: %s", err)
			}
		}()
	}
	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			log.Fatalf("failed to create trace output file: %s", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatalf("failed to close trace file: %s", err)
			}
		}()

		if err := trace.Start(f); err != nil {
			log.Fatalf("failed to start trace: %s", err)
		}
		defer trace.Stop()
	}

	if *cmd != "" {
		if err := run(strings.NewReader(*cmd), interpreter.New()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCode(err))
		}
		return
	}

	switch len(flag.Args()) {
	case 0:
		if err := runREPL(); err != nil {
			log.Fatal(err)
		}
	case 1:
		if err := runFile(flag.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCode(err))
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(64)
	}
}

// exitCode maps an error from run to the process exit code: 65 for syntax and static errors, 70 for runtime errors.
func exitCode(err error) int {
	var runtimeErr *lox.RuntimeError
	if errors.As(err, &runtimeErr) {
		return 70
	}
	var syntaxErr *lox.Error
	if errors.As(err, &syntaxErr) {
		return 65
	}
	return 1
}

func run(r io.Reader, interp *interpreter.Interpreter) error {
	program, err := parser.Parse(r)
	if *printAST {
		ast.Print(program)
		return err
	}
	if err != nil {
		return err
	}
	distances, err := resolver.Resolve(program)
	if err != nil {
		return err
	}
	return interp.Interpret(program, distances)
}

func runREPL() error {
	cfg := &readline.Config{
		Prompt: ">> ",
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		cfg.HistoryFile = path.Join(homeDir, ".lox_history")
	} else {
		fmt.Fprintf(os.Stderr, "Can't get current user's home directory (%s). Command history will not be saved.\n", err)
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("running Lox REPL: %s", err)
	}
	defer rl.Close()

	fmt.Fprintln(os.Stderr, "Welcome to Lox!")

	interp := interpreter.New(interpreter.REPLMode())
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("running Lox REPL: %s", err)
		}
		if err := run(strings.NewReader(line), interp); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	return nil
}

func runFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return run(f, interpreter.New())
}
