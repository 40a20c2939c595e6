// Command goxc compiles and runs a GoxLang source file.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/goxlang/goxc/internal/checker"
	"github.com/goxlang/goxc/internal/config"
	"github.com/goxlang/goxc/internal/ir"
	"github.com/goxlang/goxc/internal/lexer"
	"github.com/goxlang/goxc/internal/parser"
	"github.com/goxlang/goxc/internal/pipeline"
	"github.com/goxlang/goxc/internal/vm"
)

const appVersion = "goxc 1.0"

// options holds the parsed command line, in the shape of a hand-rolled
// flag loop rather than the stdlib flag package — one case per flag,
// source path as the trailing positional argument.
type options struct {
	src       string
	out       string
	memSize   int
	verbose   bool
	tokenDump bool
	irDump    bool
}

func parseArgs(argv []string) (options, error) {
	opt := options{memSize: config.DefaultMemorySize}
	if len(argv) == 0 {
		return opt, nil
	}
	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "-h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-vb":
			opt.verbose = true
		case "-ts":
			opt.tokenDump = true
		case "-ir":
			opt.irDump = true
		case "-o":
			if i+1 >= len(argv) {
				return opt, fmt.Errorf("got flag -o but no argument")
			}
			i++
			opt.out = argv[i]
		case "-mem":
			if i+1 >= len(argv) {
				return opt, fmt.Errorf("got flag -mem but no argument")
			}
			i++
			n, err := strconv.Atoi(argv[i])
			if err != nil || n <= 0 {
				return opt, fmt.Errorf("expected positive integer for -mem, got %q", argv[i])
			}
			opt.memSize = n
		default:
			if strings.HasPrefix(argv[i], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", argv[i])
			}
			opt.src = argv[i]
		}
	}
	return opt, nil
}

func printHelp() {
	fmt.Println("usage: goxc [flags] source.gox")
	fmt.Println("  -vb       verbose compiler statistics")
	fmt.Println("  -ts       dump the token stream and exit")
	fmt.Println("  -ir       dump the generated IR")
	fmt.Println("  -o file   write the -ir/-ts dump to file instead of stdout")
	fmt.Println("  -mem N    initial linear memory size in cells")
	fmt.Println("  -v, -version")
	fmt.Println("  -h, -help")
}

func main() {
	opt, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opt.src == "" {
		printHelp()
		os.Exit(1)
	}

	project, err := config.LoadProject("goxc.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if project.Verbose {
		opt.verbose = true
	}
	if project.MemorySize > 0 && opt.memSize == config.DefaultMemorySize {
		opt.memSize = project.MemorySize
	}
	if project.DumpIR {
		opt.irDump = true
	}

	logger := newLogger(opt.verbose)

	source, err := os.ReadFile(opt.src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	start := time.Now()

	if opt.tokenDump {
		toks, terr := lexer.Tokenize(string(source))
		if terr != nil {
			printDiagnostic(terr)
			os.Exit(1)
		}
		writeDump(opt.out, lexer.Dump(toks))
		return
	}

	ctx := &pipeline.PipelineContext{Source: string(source), FilePath: opt.src}
	pl := pipeline.New(
		lexer.Processor{},
		parser.Processor{},
		checker.Processor{},
		ir.Processor{},
	)
	ctx = pl.Run(ctx)

	if len(ctx.Errors) > 0 {
		for _, e := range ctx.Errors {
			printDiagnostic(e)
		}
		os.Exit(1)
	}

	logger.Debug("compiled", "file", opt.src, "elapsed", time.Since(start))

	if opt.irDump {
		writeDump(opt.out, ir.Dump(ctx.Module))
		return
	}

	machine := vm.New(ctx.Module, opt.memSize)
	runStart := time.Now()
	if err := machine.Run(); err != nil {
		printDiagnostic(err)
		os.Exit(1)
	}

	if opt.verbose {
		logger.Info("run complete",
			"trace_id", machine.TraceID,
			"elapsed", time.Since(runStart),
			"memory", humanize.Bytes(uint64(opt.memSize*8)),
		)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// printDiagnostic writes err to stderr in "Line N: <category>: <msg>"
// form, colored red only when stderr is a real terminal.
func printDiagnostic(err error) {
	msg := err.Error()
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

// writeDump writes dump to path, or to stdout if path is empty.
func writeDump(path, dump string) {
	if path == "" {
		fmt.Print(dump)
		return
	}
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
