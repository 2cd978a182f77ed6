package main

import "strings"

// legacyFlags are the long flags historically spelled with a single dash.
var legacyFlags = map[string]bool{
	"pref":      true,
	"file":      true,
	"path":      true,
	"space_src": true,
	"space_dst": true,
}

// normalizeLegacyFlags rewrites "-pref x" and "-pref=x" into their
// double-dash forms so pflag does not read them as shorthand clusters.
// Arguments after "--" are left alone.
func normalizeLegacyFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			name, _, _ := strings.Cut(arg[1:], "=")
			if legacyFlags[name] {
				arg = "-" + arg
			}
		}
		out = append(out, arg)
	}
	return out
}
