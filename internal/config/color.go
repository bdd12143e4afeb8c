package config

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"terrain-differ/internal/raster"
)

// ParseColor parses "R,G,B" or "(R,G,B)" where each component is a decimal
// integer in 0..255. The match is strict: no whitespace, no missing or extra
// components, no clamping of out-of-range values.
func ParseColor(s string) (raster.RGB, error) {
	body := s
	if strings.HasPrefix(s, "(") || strings.HasSuffix(s, ")") {
		if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
			return raster.RGB{}, xerrors.Errorf("malformed RGB triple: %s", s)
		}
		body = s[1 : len(s)-1]
	}

	parts := strings.Split(body, ",")
	if len(parts) != 3 {
		return raster.RGB{}, xerrors.Errorf("malformed RGB triple: %s", s)
	}

	var components [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return raster.RGB{}, xerrors.Errorf("malformed RGB triple: %s", s)
		}
		components[i] = uint8(v)
	}

	return raster.RGB{R: components[0], G: components[1], B: components[2]}, nil
}
