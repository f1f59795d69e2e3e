package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/calvinalkan/people/internal/record"
)

var (
	errPositionRequired = errors.New("position is required")
	errInvalidPosition  = errors.New("invalid position")
	errInvalidNumber    = errors.New("not an integer")
	errWrongArgCount    = errors.New("wrong number of arguments")
)

func noArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected %q", errWrongArgCount, args[0])
	}

	return nil
}

func parsePosition(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errPositionRequired
	}

	if len(args) > 1 {
		return 0, fmt.Errorf("%w: expected <pos>, got %d arguments", errWrongArgCount, len(args))
	}

	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidPosition, args[0])
	}

	return pos, nil
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s %w: %q", field, errInvalidNumber, value)
	}

	return n, nil
}

// parseRecord builds a record from <name> <age> <height> arguments,
// enforcing the edit bounds.
func parseRecord(args []string) (record.Record, error) {
	if len(args) != 3 {
		return record.Record{}, fmt.Errorf("%w: expected <name> <age> <height>, got %d", errWrongArgCount, len(args))
	}

	age, err := parseInt("age", args[1])
	if err != nil {
		return record.Record{}, err
	}

	height, err := parseInt("height", args[2])
	if err != nil {
		return record.Record{}, err
	}

	return record.New(args[0], age, height)
}
