package auth

import "fmt"

type ErrUnauthorized struct {
	error
}

func NewErrUnauthorized(format string, args ...any) *ErrUnauthorized {
	return &ErrUnauthorized{fmt.Errorf(format, args...)}
}

type ErrForbidden struct {
	error
}

func NewErrForbidden(email string) *ErrForbidden {
	return &ErrForbidden{fmt.Errorf("forbidden access to bids of %q", email)}
}
