// Xwfill enumerates the fillings of generalized crossword grids
// (black-square or bar-delimited, optionally wrapped and twisted) from a
// word list, one solution at a time.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/safecast"
	"fortio.org/struct2env"
	"fortio.org/terminal"
	"xwfill.io/xwfill/board"
	"xwfill.io/xwfill/words"
	"xwfill.io/xwfill/xw"
)

func main() {
	os.Exit(Main())
}

// Config is the environment-variable configurable part of the setup
// (XWFILL_WORD_LIST etc.), overridden by flags.
type Config struct {
	WordList     string
	VetoFile     string
	SolutionFile string
}

var config = Config{
	WordList:     "words",
	VetoFile:     "vetoed_words",
	SolutionFile: "solutions",
}

func EnvHelp(w io.Writer) {
	res, _ := struct2env.StructToEnvVars(config)
	str := struct2env.ToShellWithPrefix("XWFILL_", res, true)
	fmt.Fprintln(w, "# Xwfill environment variables:")
	fmt.Fprint(w, str)
}

const defaultSeed = 12345

// Set by main_pprof.go: profileStart runs once the grid is prepared, so
// setup stays out of the profile; profileEnd gets the search result.
var (
	profileStart func() int
	profileEnd   func(xw.Result) int
)

func Main() int {
	errs := struct2env.SetFromEnv("XWFILL_", &config)
	if len(errs) > 0 {
		log.Errf("Error setting config from env: %v", errs)
	}
	gridFile := flag.String("grid_file", "", "grid `file` (black-square or bar format, auto-detected)")
	wordList := flag.String("word_list", config.WordList, "word list `file`, one word per line")
	vetoFile := flag.String("veto_file", config.VetoFile, "vetoed words `file` (missing is ok)")
	solutionFile := flag.String("solution_file", config.SolutionFile, "`file` solutions are appended to")
	wordScope := flag.String("word_scope", "", "load words for this `scope` from BigQuery instead of word_list")
	bqProject := flag.String("bq_project", "", "BigQuery `project` for -word_scope")
	bqTable := flag.String("bq_table", "FirestoreQuery.all_words", "BigQuery `table` for -word_scope")
	allowDups := flag.Bool("allow_dups", false, "allow the same word in multiple slots")
	backjump := flag.Bool("backjump", false, "backjump to the top affecting slot on dead ends")
	prune := flag.Bool("prune", false, "prune candidate lists on backtrack")
	reverse := flag.Bool("reverse", false, "also add each word's reversal")
	shuffle := flag.Bool("shuffle", false, "shuffle word lists nondeterministically (default fixed seed)")
	curses := flag.Bool("curses", true, "repaint the grid in place while searching")
	showGrid := flag.Bool("show_grid", false, "print slot/link structure and exit")
	perf := flag.Bool("perf", false, "emit a perf JSON at the first solution (or timeout) and exit")
	maxTime := flag.Float64("max_time", 0, "max CPU `seconds` before giving up (0 = unlimited)")
	stepPeriod := flag.Int("step_period", 10000, "steps between progress display and time checks")
	verbose := flag.Bool("verbose", false, "verbose search tracing (same as -loglevel verbose)")

	cli.EnvHelpFuncs = append(cli.EnvHelpFuncs, EnvHelp)
	cli.ArgsHelp = "-grid_file grid [-word_list words]..."
	cli.MaxArgs = 0
	cli.Main()
	if *verbose {
		log.SetLogLevel(log.Verbose)
	}
	if *gridFile == "" {
		return log.FErrf("no grid file (use -grid_file)")
	}

	seed := uint64(defaultSeed)
	if *shuffle {
		seed = safecast.MustConvert[uint64](time.Now().UnixNano())
	}
	w := words.New(seed)
	if err := w.ReadVeto(*vetoFile); err != nil {
		return log.FErrf("veto file: %v", err)
	}
	if *wordScope != "" {
		if err := w.ReadBigQuery(context.Background(), *bqProject, *bqTable, *wordScope); err != nil {
			return log.FErrf("word scope: %v", err)
		}
	} else if err := w.Read(*wordList, *reverse); err != nil {
		return log.FErrf("word list: %v", err)
	}
	w.LogCounts()
	w.Shuffle()

	ctx := xw.NewContext(w, xw.Options{AllowDups: *allowDups, Backjump: *backjump, Prune: *prune})
	g := xw.NewGrid(ctx)
	b, err := board.Load(*gridFile)
	if err != nil {
		return log.FErrf("grid file: %v", err)
	}
	if err := b.Build(g); err != nil {
		return log.FErrf("grid file %s: %v", *gridFile, err)
	}
	g.Prepare()
	log.Infof("%d slots (%d preset), %dx%d grid", len(g.Slots), g.NPreset, b.Rows, b.Cols)
	if *showGrid {
		g.LogState(true)
		return 0
	}

	if profileStart != nil {
		if ret := profileStart(); ret != 0 {
			return ret
		}
	}
	r := runner{
		grid:         g,
		board:        b,
		words:        w,
		wordList:     *wordList,
		vetoFile:     *vetoFile,
		solutionFile: *solutionFile,
		reverse:      *reverse,
		curses:       *curses,
		perf:         *perf,
	}
	return r.run(*maxTime, *stepPeriod)
}

// runner holds what the between-solutions command loop needs.
type runner struct {
	grid  *xw.Grid
	board *board.Board
	words *words.Words

	wordList     string
	vetoFile     string
	solutionFile string
	reverse      bool
	curses       bool
	perf         bool

	term   *terminal.Terminal
	solOut *os.File
}

type perfJSON struct {
	Success int     `json:"success"`
	NSteps  int64   `json:"nsteps"`
	CPUTime float64 `json:"cpu_time"`
}

func emitPerf(success int, res xw.Result) {
	out, _ := json.Marshal(perfJSON{Success: success, NSteps: res.Steps, CPUTime: res.CPUTime})
	fmt.Println(string(out))
}

func (r *runner) run(maxTime float64, stepPeriod int) int {
	ctrl := &xw.Controller{
		StepPeriod: stepPeriod,
		MaxTime:    maxTime,
	}
	if r.perf {
		// first solution (or timeout) only, no interaction
		res := r.grid.FindSolutions(ctrl)
		if res.Status == xw.Stopped {
			emitPerf(1, res)
		} else {
			emitPerf(0, res)
		}
		return endProfile(res)
	}
	if r.curses {
		ctrl.OnProgress = func(*xw.Grid) { r.board.RenderANSI(os.Stdout) }
	} else {
		ctrl.OnProgress = func(*xw.Grid) { r.board.Render(os.Stdout) }
	}
	t, err := terminal.Open(context.Background())
	if err != nil {
		return log.FErrf("terminal: %v", err)
	}
	defer t.Close()
	r.term = t
	start := xw.CPUTime()
	ctrl.OnSolution = func(g *xw.Grid) xw.Action {
		fmt.Println("\nSolution found:")
		r.board.Render(os.Stdout)
		fmt.Printf("CPU time: %f\nSteps: %d\n", xw.CPUTime()-start, g.Steps)
		return r.commands()
	}
	res := r.grid.FindSolutions(ctrl)
	if r.solOut != nil {
		r.solOut.Close()
	}
	log.Infof("%s after %d steps, %d solution(s), %.2fs CPU",
		res.Status, res.Steps, ctrl.Solutions, res.CPUTime)
	fmt.Println(res.Status.String())
	return endProfile(res)
}

func endProfile(res xw.Result) int {
	if profileEnd == nil {
		return 0
	}
	return profileEnd(res)
}

const commandHelp = `enter command:
<CR>: next solution
s: append solution to file
v word: add word to veto list and restart
r: restart with new random word order
q: quit`

// commands is the interactive prompt between solutions.
func (r *runner) commands() xw.Action {
	fmt.Println(commandHelp)
	r.term.SetPrompt("> ")
	for {
		line, err := r.term.ReadLine()
		if err != nil && !errors.Is(err, io.EOF) {
			log.Errf("read: %v", err)
			return xw.Stop
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "" && err == nil:
			return xw.Continue
		case line == "q" || (line == "" && errors.Is(err, io.EOF)):
			return xw.Stop
		case line == "r":
			return xw.Restart
		case line == "s":
			r.saveSolution()
		case strings.HasPrefix(line, "v "):
			if r.veto(strings.TrimSpace(line[2:])) {
				return xw.Restart
			}
		default:
			fmt.Printf("bad command %q\n", line)
		}
		if err != nil {
			return xw.Stop
		}
	}
}

func (r *runner) saveSolution() {
	if r.solOut == nil {
		f, err := os.OpenFile(r.solutionFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Errf("can't open %s: %v", r.solutionFile, err)
			return
		}
		r.solOut = f
	}
	r.board.Render(r.solOut)
	fmt.Fprintln(r.solOut)
	log.Infof("solution appended to %s", r.solutionFile)
}

// veto appends the word to the veto file and rereads the dictionary; the
// caller restarts the search (index lists reference the old lists).
func (r *runner) veto(word string) bool {
	f, err := os.OpenFile(r.vetoFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Errf("can't open %s: %v", r.vetoFile, err)
		return false
	}
	fmt.Fprintln(f, word)
	f.Close()
	if err := r.words.ReadVeto(r.vetoFile); err != nil {
		log.Errf("veto file: %v", err)
		return false
	}
	if err := r.words.Read(r.wordList, r.reverse); err != nil {
		log.Errf("word list: %v", err)
		return false
	}
	log.Infof("vetoed %q", word)
	return true
}
