package cli

import (
	"context"

	"github.com/calvinalkan/people/internal/config"
	"github.com/calvinalkan/people/internal/store"

	flag "github.com/spf13/pflag"
)

// AddCmd returns the add command.
func AddCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("add", flag.ContinueOnError),
		Usage: "add <name> <age> <height>",
		Short: "Add a person, prints its position",
		Long: `Append a person to the data file. Prints the new record's position.

Name must not contain whitespace. Age must be 0-120 and height 0-300.`,
		Examples: []string{"people add Anna 30 170"},
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execAdd(io, cfg, args)
		},
	}
}

func execAdd(io *IO, cfg *config.Config, args []string) error {
	r, err := parseRecord(args)
	if err != nil {
		return err
	}

	var pos int

	err = store.Update(cfg.DataFileAbs, func(s *store.Store) error {
		s.Add(r)
		pos = s.Len() - 1

		return nil
	})
	if err != nil {
		return err
	}

	io.Println(pos)

	return nil
}
