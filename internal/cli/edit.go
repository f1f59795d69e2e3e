package cli

import (
	"context"
	"errors"

	"github.com/calvinalkan/people/internal/config"
	"github.com/calvinalkan/people/internal/record"
	"github.com/calvinalkan/people/internal/store"

	flag "github.com/spf13/pflag"
)

var errNothingToEdit = errors.New("nothing to edit (use --name, --age or --height)")

// EditCmd returns the edit command.
func EditCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.String("name", "", "New name")
	fs.Int("age", 0, "New age (0-120)")
	fs.Int("height", 0, "New height (0-300)")

	return &Command{
		Flags: fs,
		Usage: "edit <pos> [flags]",
		Short: "Replace fields of the person at <pos>",
		Long: `Replace the person at <pos>. Fields not given keep their current value.
The result must satisfy the same rules as add.`,
		Examples: []string{
			"people edit 0 --age 31",
			"people edit 2 --name Bo --height 161",
		},
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execEdit(io, cfg, fs, args)
		},
	}
}

func execEdit(io *IO, cfg *config.Config, fs *flag.FlagSet, args []string) error {
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}

	if !fs.Changed("name") && !fs.Changed("age") && !fs.Changed("height") {
		return errNothingToEdit
	}

	var updated record.Record

	err = store.Update(cfg.DataFileAbs, func(s *store.Store) error {
		current, getErr := s.Get(pos)
		if getErr != nil {
			return getErr
		}

		updated, getErr = applyEdits(current, fs)
		if getErr != nil {
			return getErr
		}

		return s.Update(pos, updated)
	})
	if err != nil {
		return err
	}

	io.Println(updated.String())

	return nil
}

func applyEdits(current record.Record, fs *flag.FlagSet) (record.Record, error) {
	name, age, height := current.Name, current.Age, current.Height

	if fs.Changed("name") {
		name, _ = fs.GetString("name")
	}

	if fs.Changed("age") {
		age, _ = fs.GetInt("age")
	}

	if fs.Changed("height") {
		height, _ = fs.GetInt("height")
	}

	return record.New(name, age, height)
}
