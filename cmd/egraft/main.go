// Command egraft runs equality saturation over the arithmetic +
// differentiation language from the command line. Grounded on the
// teacher's cmd/graft/main.go: the same goptions.Verbs subcommand
// layout, getopts/usage/exit plumbing, --debug/--trace/--color flags,
// and ansi-colored stderr reporting.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/wayneeseguin/egraft/internal/config"
	"github.com/wayneeseguin/egraft/internal/elog"
	"github.com/wayneeseguin/egraft/pkg/egraft"
	"github.com/wayneeseguin/egraft/pkg/egraft/langs/arith"
	"github.com/wayneeseguin/egraft/pkg/egraft/parser"
)

// Version holds the current version of egraft.
var Version = "(development)"

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

func envFlag(varname string) bool {
	val := os.Getenv(varname)
	return val != "" && strings.ToLower(val) != "false" && val != "0"
}

type runOpts struct {
	Expr      string `goptions:"--expr, description='Starting s-expression to saturate'"`
	Goal      string `goptions:"--goal, description='Goal expression; with check, required'"`
	ConfigPath string `goptions:"--config, description='Path to a YAML runner configuration file'"`
	IterLimit int    `goptions:"--iter-limit, description='Override the configured iteration limit'"`
	Assoc     bool   `goptions:"--assoc-only, description='Use only the commutativity/associativity rules'"`
	Help      bool   `goptions:"--help, -h"`
}

func main() {
	var options struct {
		Debug   bool   `goptions:"-D, --debug, description='Enable debugging'"`
		Trace   bool   `goptions:"-T, --trace, description='Enable trace mode debugging (very verbose)'"`
		Version bool   `goptions:"-v, --version, description='Display version information'"`
		Color   string `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Action  goptions.Verbs
		Run     runOpts `goptions:"run"`
		Check   runOpts `goptions:"check"`
	}
	getopts(&options)

	if envFlag("DEBUG") || options.Debug {
		elog.DebugOn = true
	}
	if envFlag("TRACE") || options.Trace {
		elog.TraceOn = true
		elog.DebugOn = true
	}

	if options.Run.Help || options.Check.Help {
		usage()
		return
	}

	if options.Version {
		printfStdOut("%s - Version %s\n", os.Args[0], Version)
		exit(0)
		return
	}

	shouldEnableColor := false
	switch options.Color {
	case "on":
		shouldEnableColor = true
	case "off":
		shouldEnableColor = false
	case "auto", "":
		shouldEnableColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		elog.PrintfStdErr("Invalid --color option: %s. Must be 'on', 'off', or 'auto'.\n", options.Color)
		exit(1)
		return
	}
	ansi.Color(shouldEnableColor)

	switch options.Action {
	case "run":
		if err := runSaturation(options.Run, false); err != nil {
			elog.PrintfStdErr("%s\n", err.Error())
			exit(2)
			return
		}
	case "check":
		if err := runSaturation(options.Check, true); err != nil {
			elog.PrintfStdErr("%s\n", err.Error())
			exit(2)
			return
		}
	default:
		usage()
	}
}

func loadRunnerConfig(path string) (*config.Config, error) {
	mgr := config.NewManager()
	if path == "" {
		return mgr.Get(), nil
	}
	if err := mgr.Load(path); err != nil {
		return nil, err
	}
	return mgr.Get(), nil
}

// runSaturation parses --expr (and --goal, when present), saturates it
// under the arithmetic ruleset, and prints the lowest-cost equivalent
// expression. When checkGoal is true it additionally requires --goal and
// fails (exit 2) unless --expr and --goal end up in the same class —
// the CLI-level analog of original_source/tests/math.rs's test_fn! "goal
// not proved" panic.
func runSaturation(opts runOpts, checkGoal bool) error {
	if opts.Expr == "" {
		return fmt.Errorf("--expr is required")
	}
	if checkGoal && opts.Goal == "" {
		return fmt.Errorf("--goal is required for check")
	}

	cfg, err := loadRunnerConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.IterLimit > 0 {
		cfg.Runner.IterLimit = opts.IterLimit
	}

	lang := arith.Language{}
	g := egraft.New[arith.Meta](lang, arith.ConstFold{})

	startExpr, err := parser.ReadExpr(lang, opts.Expr)
	if err != nil {
		return err
	}
	start := g.AddExpr(startExpr)

	runner := egraft.NewRunner(g)
	runner.Config = cfg.ToRunConfig()

	var goal egraft.Id
	if opts.Goal != "" {
		goalExpr, err := parser.ReadExpr(lang, opts.Goal)
		if err != nil {
			return err
		}
		goal = g.AddExpr(goalExpr)
		runner = runner.WithExpr(goalExpr)
	}

	rules := arith.Rules()
	if opts.Assoc {
		rules = arith.AssocRules()
	}

	iterStart := time.Now()
	runner.Run(rules)
	elog.TRACE("saturation finished in %s, stop reason: %s", time.Since(iterStart), runner.StopReason)

	extractor := egraft.NewExtractor[arith.Meta](g, egraft.AstSizeCost{})
	best, err := extractor.Extract(start)
	if err != nil {
		return err
	}
	printfStdOut("%s\n", parser.Write(best))

	if checkGoal {
		if g.Find(start) != g.Find(goal) {
			return ansi.Errorf("@R{could not prove} @c{%s} @R{equal to} @c{%s}", opts.Expr, opts.Goal)
		}
	}
	return nil
}
