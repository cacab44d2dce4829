package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/danieljhkim/stripdb/internal/dumper"
)

// ErrUnknownShorthand is returned for single-dash options stripdb does not
// define. They cannot be forwarded because their value form is ambiguous.
var ErrUnknownShorthand = errors.New("unknown shorthand flag")

// splitArgs separates the command line into flags stripdb understands,
// positional arguments and options forwarded to the dump tool.
//
// Long options not defined on fs are forwarded as they are. Everything after
// a bare "--" is forwarded as well, and must use --name or --name=value.
// Forwarded options selecting tables or rows are refused with
// dumper.ErrReservedFlag.
func splitArgs(fs *pflag.FlagSet, args []string) (known, positional []string, extra []dumper.Flag, err error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			for _, rest := range args[i+1:] {
				flag, err := forwardFlag(rest)
				if err != nil {
					return nil, nil, nil, err
				}
				extra = append(extra, flag)
			}
			return known, positional, extra, nil

		case strings.HasPrefix(arg, "--"):
			name, _, hasValue := strings.Cut(arg[2:], "=")
			if f := fs.Lookup(name); f != nil {
				known = append(known, arg)
				// Flags that need a value take the next argument.
				if !hasValue && f.NoOptDefVal == "" && i+1 < len(args) {
					known = append(known, args[i+1])
					i++
				}
				continue
			}
			if name == "" {
				return nil, nil, nil, fmt.Errorf("invalid option %q", arg)
			}
			flag, err := forwardFlag(arg)
			if err != nil {
				return nil, nil, nil, err
			}
			extra = append(extra, flag)

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if fs.ShorthandLookup(arg[1:2]) == nil {
				return nil, nil, nil, fmt.Errorf("%w: %s", ErrUnknownShorthand, arg)
			}
			known = append(known, arg)

		default:
			positional = append(positional, arg)
		}
	}
	return known, positional, extra, nil
}

// parseExtraArgs converts configured dump tool arguments into flags.
func parseExtraArgs(args []string) ([]dumper.Flag, error) {
	flags := make([]dumper.Flag, 0, len(args))
	for _, arg := range args {
		flag, err := forwardFlag(arg)
		if err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

// forwardFlag parses an option destined for the dump tool. Options that
// choose tables or filter rows are reserved, since forwarding them could
// put redacted rows back into the structure-only export.
func forwardFlag(arg string) (dumper.Flag, error) {
	flag, ok := dumper.ParseFlag(arg)
	if !ok {
		return dumper.Flag{}, fmt.Errorf("cannot forward %q to the export tool: use --name or --name=value", arg)
	}
	if err := dumper.CheckFlag(flag); err != nil {
		return dumper.Flag{}, err
	}
	return flag, nil
}
