package cli

import (
	"context"
	"errors"

	"github.com/calvinalkan/people/internal/config"
	"github.com/calvinalkan/people/internal/store"

	flag "github.com/spf13/pflag"
)

// LsCmd returns the ls command.
func LsCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.Int("min-age", 0, "Only people at least this old")
	fs.Int("max-age", 0, "Only people at most this old")
	fs.Int("min-height", 0, "Only people at least this tall")
	fs.Int("max-height", 0, "Only people at most this tall")
	fs.Int("limit", 0, "Maximum people to show (0 = all)")
	fs.Int("offset", 0, "Skip first N matches")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List people",
		Long: `List people in stored order with their positions.

Range flags are inclusive. A bound that is not given is open. A minimum
greater than its maximum matches nobody.`,
		Examples: []string{
			"people ls --min-age 20 --max-age 40",
			"people ls --min-height 180 --limit 10",
		},
		Exec: func(_ context.Context, io *IO, args []string) error {
			err := noArgs(args)
			if err != nil {
				return err
			}

			return execLs(io, cfg, fs)
		},
	}
}

func execLs(io *IO, cfg *config.Config, fs *flag.FlagSet) error {
	limit, _ := fs.GetInt("limit")
	if limit < 0 {
		return errors.New("--limit must be non-negative")
	}

	offset, _ := fs.GetInt("offset")
	if offset < 0 {
		return errors.New("--offset must be non-negative")
	}

	q := store.Query{
		Age:    rangeFlags(fs, "min-age", "max-age"),
		Height: rangeFlags(fs, "min-height", "max-height"),
		Limit:  limit,
		Offset: offset,
	}

	var entries []store.Entry

	err := store.View(cfg.DataFileAbs, func(s *store.Store) error {
		entries = s.Query(&q)

		return nil
	})
	if err != nil {
		return err
	}

	for _, line := range formatTable(entries) {
		io.Println(line)
	}

	return nil
}

// rangeFlags returns the range set by a min/max flag pair, or nil when
// neither flag was given.
func rangeFlags(fs *flag.FlagSet, minName, maxName string) *store.Range {
	if !fs.Changed(minName) && !fs.Changed(maxName) {
		return nil
	}

	r := store.Unbounded()

	if fs.Changed(minName) {
		r.Min, _ = fs.GetInt(minName)
	}

	if fs.Changed(maxName) {
		r.Max, _ = fs.GetInt(maxName)
	}

	return &r
}
