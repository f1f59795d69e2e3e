package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/people/internal/config"
	"github.com/calvinalkan/people/internal/store"

	flag "github.com/spf13/pflag"
)

const shellPrompt = "people> "

// keepField in a shell edit leaves that field unchanged.
const keepField = "-"

var errUnknownShellCommand = errors.New("unknown command (type 'help')")

var shellCommands = []string{
	"help", "ls", "age", "height", "add", "edit", "rm", "show", "load", "save", "quit",
}

const shellHelp = `Commands:
  ls                             List everyone
  age <min> <max>                List people with min <= age <= max
  height <min> <max>             List people with min <= height <= max
  add <name> <age> <height>      Add a person
  edit <pos> <name> <age> <height>
                                 Replace the person at <pos> ("-" keeps a field)
  rm <pos>                       Delete the person at <pos>
  show <pos>                     Show the person at <pos>
  load [path]                    Replace everything with the contents of a file
  save [path]                    Write everyone to a file
  help                           Show this help
  quit                           Leave the shell

load and save default to the last file used, initially the data file.`

// prompter reads one line of input per call.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// ShellCmd returns the shell command. Input is read from stdin. When stdin
// is os.Stdin it goes through liner for line editing and history; liner
// itself falls back to plain reads when os.Stdin is not a terminal.
func ShellCmd(cfg *config.Config, stdin io.Reader) *Command {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.Bool("load", false, "Load the data file on start")

	return &Command{
		Flags: fs,
		Usage: "shell [flags]",
		Short: "Interactive session on an in-memory list",
		Long: `Start an interactive session. People are kept in memory until saved;
nothing is written unless you run save.`,
		Examples: []string{
			"people shell --load",
			"printf 'add Anna 30 170\\nsave\\n' | people shell",
		},
		Exec: func(ctx context.Context, io *IO, args []string) error {
			err := noArgs(args)
			if err != nil {
				return err
			}

			load, _ := fs.GetBool("load")

			p, closePrompter := newPrompter(stdin, cfg.HistoryFileAbs)
			defer closePrompter()

			sh := &shell{cfg: cfg, io: io, store: &store.Store{}, path: cfg.DataFileAbs}

			if load {
				err = sh.load(nil)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
			}

			return sh.run(ctx, p)
		},
	}
}

type shell struct {
	cfg   *config.Config
	io    *IO
	store *store.Store
	path  string

	dirty      bool
	quitWarned bool
}

func (sh *shell) run(ctx context.Context, p prompter) error {
	for {
		if ctx.Err() != nil {
			sh.discardUnsaved()

			return nil
		}

		line, err := p.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				sh.discardUnsaved()

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		p.AppendHistory(line)

		fields := strings.Fields(line)

		done, err := sh.dispatch(strings.ToLower(fields[0]), fields[1:])
		if err != nil {
			sh.io.ErrPrintln("error:", err)
		}

		if done {
			return nil
		}
	}
}

// dispatch runs one shell command and reports whether the session is over.
func (sh *shell) dispatch(cmd string, args []string) (bool, error) {
	switch cmd {
	case "quit", "exit", "q":
		return sh.quit(), nil
	case "help", "?":
		sh.io.Println(shellHelp)
	case "ls", "list":
		sh.printEntries(sh.store.Query(nil))
	case "age":
		return false, sh.filter(args, func(r *store.Range) *store.Query { return &store.Query{Age: r} })
	case "height":
		return false, sh.filter(args, func(r *store.Range) *store.Query { return &store.Query{Height: r} })
	case "add":
		return false, sh.add(args)
	case "edit":
		return false, sh.edit(args)
	case "rm", "del", "delete":
		return false, sh.rm(args)
	case "show":
		return false, sh.show(args)
	case "load", "open":
		return false, sh.load(args)
	case "save":
		return false, sh.save(args)
	default:
		return false, fmt.Errorf("%w: %s", errUnknownShellCommand, cmd)
	}

	return false, nil
}

func (sh *shell) quit() bool {
	if sh.dirty && !sh.quitWarned {
		sh.quitWarned = true
		sh.io.ErrPrintln("unsaved changes: run save, or quit again to discard them")

		return false
	}

	sh.discardUnsaved()

	return true
}

func (sh *shell) discardUnsaved() {
	if sh.dirty {
		sh.io.Warn("unsaved changes discarded", "run save before quitting to keep them")
	}
}

func (sh *shell) printEntries(entries []store.Entry) {
	if len(entries) == 0 {
		sh.io.Println("(nobody)")

		return
	}

	for _, line := range formatTable(entries) {
		sh.io.Println(line)
	}
}

func (sh *shell) filter(args []string, query func(*store.Range) *store.Query) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected <min> <max>", errWrongArgCount)
	}

	minV, err := parseInt("min", args[0])
	if err != nil {
		return err
	}

	maxV, err := parseInt("max", args[1])
	if err != nil {
		return err
	}

	sh.printEntries(sh.store.Query(query(&store.Range{Min: minV, Max: maxV})))

	return nil
}

func (sh *shell) add(args []string) error {
	r, err := parseRecord(args)
	if err != nil {
		return err
	}

	sh.store.Add(r)
	sh.markDirty()
	sh.io.Println(sh.store.Len() - 1)

	return nil
}

func (sh *shell) edit(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("%w: expected <pos> <name> <age> <height>", errWrongArgCount)
	}

	pos, err := parsePosition(args[:1])
	if err != nil {
		return err
	}

	current, err := sh.store.Get(pos)
	if err != nil {
		return err
	}

	fields := []string{current.Name, fmt.Sprint(current.Age), fmt.Sprint(current.Height)}
	for i, v := range args[1:] {
		if v != keepField {
			fields[i] = v
		}
	}

	updated, err := parseRecord(fields)
	if err != nil {
		return err
	}

	err = sh.store.Update(pos, updated)
	if err != nil {
		return err
	}

	sh.markDirty()
	sh.io.Println(updated.String())

	return nil
}

func (sh *shell) rm(args []string) error {
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}

	removed, err := sh.store.Get(pos)
	if err != nil {
		return err
	}

	err = sh.store.Delete(pos)
	if err != nil {
		return err
	}

	sh.markDirty()
	sh.io.Println("removed", removed.String())

	return nil
}

func (sh *shell) show(args []string) error {
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}

	r, err := sh.store.Get(pos)
	if err != nil {
		return err
	}

	printRecord(sh.io, pos, r)

	return nil
}

// load replaces the in-memory list with the file's contents. On any error
// the list is left as it was.
func (sh *shell) load(args []string) error {
	path, err := sh.pathArg(args)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer func() { _ = f.Close() }()

	err = sh.store.LoadFrom(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	sh.path = path
	sh.dirty = false
	sh.quitWarned = false
	sh.io.Printf("loaded %d from %s\n", sh.store.Len(), path)

	return nil
}

func (sh *shell) save(args []string) error {
	path, err := sh.pathArg(args)
	if err != nil {
		return err
	}

	err = store.SaveFile(path, sh.store)
	if err != nil {
		return err
	}

	sh.path = path
	sh.dirty = false
	sh.quitWarned = false
	sh.io.Printf("saved %d to %s\n", sh.store.Len(), path)

	return nil
}

func (sh *shell) pathArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return sh.path, nil
	case 1:
		if filepath.IsAbs(args[0]) {
			return args[0], nil
		}

		return filepath.Join(sh.cfg.EffectiveCwd, args[0]), nil
	default:
		return "", fmt.Errorf("%w: expected [path]", errWrongArgCount)
	}
}

func (sh *shell) markDirty() {
	sh.dirty = true
	sh.quitWarned = false
}

// newPrompter returns a liner-backed prompter when stdin is os.Stdin (or
// nil), whether or not it is a terminal, and a plain line reader for any
// other reader. The returned func releases it.
func newPrompter(stdin io.Reader, historyPath string) (prompter, func()) {
	if stdin == nil || stdin == os.Stdin {
		return newLinerPrompter(historyPath)
	}

	return &readerPrompter{scanner: bufio.NewScanner(stdin)}, func() {}
}

func newLinerPrompter(historyPath string) (prompter, func()) {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completeShellCommand)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return state, func() {
		if historyPath != "" {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = state.WriteHistory(f)
				_ = f.Close()
			}
		}

		_ = state.Close()
	}
}

func completeShellCommand(line string) []string {
	if strings.Contains(line, " ") {
		return nil
	}

	var out []string

	for _, c := range shellCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}

	return out
}

// readerPrompter reads lines from a non-terminal reader without echoing
// the prompt.
type readerPrompter struct {
	scanner *bufio.Scanner
}

func (p *readerPrompter) Prompt(string) (string, error) {
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	}

	err := p.scanner.Err()
	if err != nil {
		return "", err
	}

	return "", io.EOF
}

func (*readerPrompter) AppendHistory(string) {}
