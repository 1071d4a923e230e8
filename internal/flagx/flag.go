// Package flagx lets independent loaders pick their own flags out of
// os.Args without tripping over each other's unknown-flag errors.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags,
// keeping flag values that follow as a separate argument.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognised. A
// following token that starts with '-' is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// StringFlag returns the value of the last occurrence of any of the given
// flag aliases in args, or "" when none is present. Aliases are given
// without the leading dash.
func StringFlag(args []string, aliases ...string) string {
	var value string

	names := make([]string, 0, len(aliases))
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, a := range aliases {
		names = append(names, "-"+a)
		fs.StringVar(&value, a, "", "")
	}
	_ = fs.Parse(FilterArgs(args, names))

	return value
}

// ConfigFileFlag extracts the JSON config path given with -c or -config.
func ConfigFileFlag() string {
	return StringFlag(os.Args[1:], "c", "config")
}

// EnvFileFlag extracts the dotenv file path given with -e or -env-file.
func EnvFileFlag() string {
	return StringFlag(os.Args[1:], "e", "env-file")
}
