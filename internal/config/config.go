package config

import (
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"

	"terrain-differ/internal/raster"
)

// ErrHelp is returned by Resolve when usage should be printed instead of
// running a comparison. It covers both an explicit help token and missing
// positional arguments.
var ErrHelp = errors.New("help requested")

const Usage = `Usage: heightdiff <input1> <input2> [key=value ...]

Compares the red channel of two equal-size heightmap images and writes a
PNG highlighting raised and lowered terrain, plus a text summary.

Options (keys are case-insensitive, unknown keys are ignored):
  o=NAME, output=NAME        base name for output files; a trailing
                             extension is stripped (default: derived from
                             the change counts)
  hi=R,G,B, high=R,G,B       color for raised terrain (default 0,255,0)
  lo=R,G,B, low=R,G,B        color for lowered terrain (default 255,0,0)
  stats=BOOL, statistics=BOOL
                             write the summary to {NAME}.txt; "false" and
                             "no" disable it, anything else enables it
                             (default true)
  help, -h, --help           print this message
`

// RunConfig is the resolved configuration for one comparison. It is not
// modified after Resolve returns it.
type RunConfig struct {
	InputA     string
	InputB     string
	OutputBase string // empty means derive from the diff counts
	Raised     raster.RGB
	Lowered    raster.RGB
	SaveStats  bool
}

var (
	DefaultRaised  = raster.RGB{G: 255}
	DefaultLowered = raster.RGB{R: 255}
)

// optionAliases maps each canonical option to the token keys that select
// it. Lookup lowercases the incoming key once, so matching is
// case-insensitive.
var optionAliases = map[string][]string{
	"output":  {"o", "output"},
	"raised":  {"hi", "high"},
	"lowered": {"lo", "low"},
	"stats":   {"stats", "statistics"},
}

// Resolve builds a RunConfig from raw command-line tokens. The first two
// tokens are the input paths; the rest are key=value options. Tokens that
// are not key=value shaped or use an unknown key are silently ignored,
// matching the tool's historical permissive behavior.
func Resolve(tokens []string) (*RunConfig, error) {
	if len(tokens) < 2 {
		return nil, ErrHelp
	}

	// A help token anywhere wins over option parsing, including inside
	// what would otherwise be the positional slots.
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case "help", "-h", "--help":
			return nil, ErrHelp
		}
	}

	cfg := &RunConfig{
		InputA:    tokens[0],
		InputB:    tokens[1],
		Raised:    DefaultRaised,
		Lowered:   DefaultLowered,
		SaveStats: true,
	}

	for _, token := range tokens[2:] {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}

		switch canonicalOption(key) {
		case "output":
			cfg.OutputBase = strings.TrimSuffix(value, filepath.Ext(value))
		case "raised":
			c, err := ParseColor(value)
			if err != nil {
				return nil, xerrors.Errorf("invalid raised color: %w", err)
			}
			cfg.Raised = c
		case "lowered":
			c, err := ParseColor(value)
			if err != nil {
				return nil, xerrors.Errorf("invalid lowered color: %w", err)
			}
			cfg.Lowered = c
		case "stats":
			cfg.SaveStats = parseBool(value)
		}
	}

	return cfg, nil
}

func canonicalOption(key string) string {
	key = strings.ToLower(key)
	for canonical, keys := range optionAliases {
		for _, k := range keys {
			if k == key {
				return canonical
			}
		}
	}
	return ""
}

// parseBool treats only the literals "false" and "no" as false; every
// other value, including empty and garbage, is true.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "false", "no":
		return false
	}
	return true
}
