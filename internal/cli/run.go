// Package cli implements the people command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/calvinalkan/people/internal/config"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point. Returns exit code.
//
// A value on sigCh cancels the context handed to the running command.
// sigCh may be nil.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	o := NewIO(out, errOut)

	globals := flag.NewFlagSet("people", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})
	globals.BoolP("help", "h", false, "Show help")
	globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	globals.StringP("config", "c", "", "Use specified config `file`")
	globals.StringP("file", "f", "", "Use `path` as the data file")

	cfg := &config.Config{}
	commands := allCommands(cfg, stdin)

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		o.ErrPrintln("error:", err)
		printUsage(NewIO(errOut, errOut), globals, commands)

		return 1
	}

	rest := globals.Args()

	if help, _ := globals.GetBool("help"); help || len(rest) == 0 {
		printUsage(o, globals, commands)

		return 0
	}

	workDir, _ := globals.GetString("cwd")
	configPath, _ := globals.GetString("config")
	dataFile, _ := globals.GetString("file")

	if globals.Changed("file") && dataFile == "" {
		o.ErrPrintln("error:", config.ErrDataFileEmpty)
		printUsage(NewIO(errOut, errOut), globals, commands)

		return 1
	}

	loaded, err := config.Load(config.LoadInput{
		WorkDirOverride:  workDir,
		ConfigPath:       configPath,
		DataFileOverride: dataFile,
		Env:              env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	*cfg = loaded

	name := rest[0]

	cmd, ok := findCommand(commands, name)
	if !ok {
		o.ErrPrintln("error:", errors.New("unknown command: "+name))
		printUsage(NewIO(errOut, errOut), globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return cmd.Run(ctx, o, rest[1:])
}

func allCommands(cfg *config.Config, stdin io.Reader) []*Command {
	return []*Command{
		AddCmd(cfg),
		EditCmd(cfg),
		RmCmd(cfg),
		ShowCmd(cfg),
		LsCmd(cfg),
		ShellCmd(cfg, stdin),
		PrintConfigCmd(cfg),
	}
}

func findCommand(commands []*Command, name string) (*Command, bool) {
	for _, c := range commands {
		if c.Name() == name {
			return c, true
		}
	}

	return nil, false
}

func printUsage(o *IO, globals *flag.FlagSet, commands []*Command) {
	o.Println("people - keep a list of people (name, age, height)")
	o.Println()
	o.Println("Usage: people [global flags] <command> [args]")
	o.Println()
	o.Println("Global flags:")

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})
	o.Printf("%s", buf.String())

	o.Println()
	o.Println("Commands:")

	for _, c := range commands {
		o.Println(c.HelpLine())
	}

	o.Println()
	o.Println("Run 'people <command> --help' for command flags.")
}
