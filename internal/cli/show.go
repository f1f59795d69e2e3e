package cli

import (
	"context"

	"github.com/calvinalkan/people/internal/config"
	"github.com/calvinalkan/people/internal/record"
	"github.com/calvinalkan/people/internal/store"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <pos>",
		Short: "Show the person at <pos>",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execShow(io, cfg, args)
		},
	}
}

func execShow(io *IO, cfg *config.Config, args []string) error {
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}

	var r record.Record

	err = store.View(cfg.DataFileAbs, func(s *store.Store) error {
		var getErr error

		r, getErr = s.Get(pos)

		return getErr
	})
	if err != nil {
		return err
	}

	printRecord(io, pos, r)

	return nil
}

func printRecord(io *IO, pos int, r record.Record) {
	io.Printf("position: %d\n", pos)
	io.Printf("name:     %s\n", r.Name)
	io.Printf("age:      %d\n", r.Age)
	io.Printf("height:   %d\n", r.Height)
}
