package session

import (
	"errors"
	"fmt"

	"github.com/initializ/untis/jsonrpc"
)

var (
	// ErrLogin matches every *LoginError.
	ErrLogin = errors.New("untis login failed")

	// ErrNotLoggedIn is returned by calls on a session after Logout.
	ErrNotLoggedIn = errors.New("untis session is not logged in")

	// ErrInvalidRange is returned when an end date lies before its start date.
	ErrInvalidRange = errors.New("end date must not be before start date")

	// ErrNoSchoolYear is returned by CurrentSchoolYear outside of any
	// school year.
	ErrNoSchoolYear = errors.New("no current school year")

	// ErrNoTimegrid is returned when the school defines no timegrid, which
	// timetables are resolved against.
	ErrNoTimegrid = errors.New("school has no timegrid")
)

// LoginError is returned when the server rejects an authenticate call.
type LoginError struct {
	Username string
	Err      error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("untis login failed for %q: %v", e.Username, e.Err)
}

func (e *LoginError) Unwrap() error { return e.Err }

func (e *LoginError) Is(target error) bool { return target == ErrLogin }

// Code returns the server error code, or 0 when the failure carried none.
func (e *LoginError) Code() int {
	var rpcErr *jsonrpc.Error
	if errors.As(e.Err, &rpcErr) {
		return rpcErr.Code
	}
	return 0
}

// BadCredentials reports whether the server rejected username or password.
func (e *LoginError) BadCredentials() bool {
	return e.Code() == jsonrpc.ErrCodeBadCredentials
}
