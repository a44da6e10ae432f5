// Package handler implements the storefront CLI commands on top of the
// services. Each command parses its own flags, calls one or more services and
// writes its result as JSON. User-facing messages are shown by the services'
// notifier, not here.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Func runs a command with its arguments.
type Func func(ctx context.Context, args []string) error

// UsageError is returned when a command is called with bad arguments.
type UsageError struct {
	Command string
	Msg     string
}

func (e *UsageError) Error() string {
	return e.Command + ": " + e.Msg
}

// IsUsage reports whether err is a UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

func usagef(command, format string, args ...any) error {
	return &UsageError{Command: command, Msg: fmt.Sprintf(format, args...)}
}

// newFlags returns a flag set that reports errors instead of exiting.
func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlags parses args with flags allowed before, between or after the
// positional arguments, so "advance 5 -dry-run" and "advance -dry-run 5" mean
// the same. Negative numbers are positional. Everything after "--" is
// positional.
func parseFlags(fs *flag.FlagSet, args []string) error {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !isFlag(arg) {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		if takesValue(fs, arg) {
			if i+1 == len(args) {
				return usagef(fs.Name(), "flag needs an argument: %s", arg)
			}
			i++
			flags = append(flags, args[i])
		}
	}

	flags = append(flags, "--")
	if err := fs.Parse(append(flags, positional...)); err != nil {
		return usagef(fs.Name(), "%v", err)
	}
	return nil
}

func isFlag(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err != nil
}

// takesValue reports whether the flag in arg consumes the next argument.
func takesValue(fs *flag.FlagSet, arg string) bool {
	name := strings.TrimLeft(arg, "-")
	if strings.Contains(name, "=") {
		return false
	}
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return false
	}
	return true
}

// writeJSON writes data as indented JSON.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// argID parses the i-th positional argument as a positive id.
func argID(fs *flag.FlagSet, i int, what string) (int64, error) {
	raw := strings.TrimSpace(fs.Arg(i))
	if raw == "" {
		return 0, usagef(fs.Name(), "%s is required", what)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef(fs.Name(), "invalid %s %q", what, raw)
	}
	return id, nil
}
