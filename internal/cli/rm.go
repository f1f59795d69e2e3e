package cli

import (
	"context"

	"github.com/calvinalkan/people/internal/config"
	"github.com/calvinalkan/people/internal/record"
	"github.com/calvinalkan/people/internal/store"

	flag "github.com/spf13/pflag"
)

// RmCmd returns the rm command.
func RmCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <pos>",
		Short: "Delete the person at <pos>",
		Long:  "Delete the person at <pos>. Later positions move down by one.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execRm(io, cfg, args)
		},
	}
}

func execRm(io *IO, cfg *config.Config, args []string) error {
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}

	var removed record.Record

	err = store.Update(cfg.DataFileAbs, func(s *store.Store) error {
		var getErr error

		removed, getErr = s.Get(pos)
		if getErr != nil {
			return getErr
		}

		return s.Delete(pos)
	})
	if err != nil {
		return err
	}

	io.Println("removed", removed.String())

	return nil
}
