package retry

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// On decides whether a failed fetch of a heightmap source is worth
// retrying. Only transport-level failures pass through here; the tool's
// own validation errors never do.
type On struct {
	_5xx           bool
	connectFailure bool
	statusCodes    []int
}

func NewDefaultRetryOn() *On {
	return &On{
		_5xx:           true,
		connectFailure: true,
		statusCodes:    []int{},
	}
}

// NewRetryOnFromString parses a comma-separated policy list: "5xx",
// "connect-failure", or a literal status code.
func NewRetryOnFromString(s string) (*On, error) {
	o := &On{}
	for _, s := range strings.Split(s, ",") {
		switch s {
		case "5xx":
			o._5xx = true
		case "connect-failure":
			o.connectFailure = true
		default:
			statusCode, err := strconv.Atoi(s)
			if err != nil {
				return nil, xerrors.Errorf("invalid retryOn: %s", s)
			}
			o.statusCodes = append(o.statusCodes, statusCode)
		}
	}
	return o, nil
}

func (o *On) CheckResponse(response *http.Response) bool {
	if o._5xx && response.StatusCode >= 500 && response.StatusCode < 600 {
		return true
	}

	for _, i := range o.statusCodes {
		if i == response.StatusCode {
			return true
		}
	}

	return false
}

func (o *On) CheckError(err error) bool {
	type temporary interface{ Temporary() bool }
	var terr temporary
	if (errors.As(err, &terr) && terr.Temporary()) || errors.Is(err, io.EOF) {
		// Disconnects, resets and read timeouts surface as temporary
		// errors or EOF rather than as responses.
		if o.connectFailure || o._5xx {
			return true
		}
	}
	return false
}
