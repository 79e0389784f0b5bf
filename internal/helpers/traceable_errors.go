package helpers

import (
	"errors"
	"strings"

	"github.com/ztrue/tracerr"
)

// Error carries one or more stack-annotated errors. The zero value is "no error".
type Error struct {
	errs []tracerr.Error
}

var NilError = Error{nil}

var _ error = Error{}

func IsNil(err error) bool {
	switch e := err.(type) {
	case nil:
		return true
	case Error:
		return len(e.errs) == 0
	case *Error:
		return e == nil || len(e.errs) == 0
	}
	return false
}

func (e Error) IsNil() bool {
	return len(e.errs) == 0
}

func (e Error) HasError() bool {
	return len(e.errs) > 0
}

func (e Error) Error() string {
	return strings.Join(MapSlice(e.errs, func(err tracerr.Error) string {
		return err.Error()
	}), "\n")
}

// String includes the stack trace of every joined error.
func (e Error) String() string {
	result := ""
	for _, err := range e.errs {
		result += "-------------------------------------------------------------------------------\n"
		result += tracerr.Sprint(err) + "\n"
	}
	return result
}

func (e Error) Unwrap() []error {
	return MapSlice(e.errs, func(err tracerr.Error) error {
		return err
	})
}

func (e Error) First() error {
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[0]
}

func (e Error) NumErrors() int {
	return len(e.errs)
}

func Wrap(err error) Error {
	if IsNil(err) {
		return NilError
	}
	var traceable Error
	if errors.As(err, &traceable) {
		return traceable
	}
	return Error{[]tracerr.Error{tracerr.Wrap(err)}}
}

func WrapReturn[T any](x T, err error) (T, Error) {
	return x, Wrap(err)
}

func Errorf(format string, args ...any) Error {
	return Error{[]tracerr.Error{tracerr.Errorf(format, args...)}}
}

func Join(others ...Error) Error {
	result := Error{}
	for _, o := range others {
		result.errs = append(result.errs, o.errs...)
	}
	if len(result.errs) == 0 {
		return NilError
	}
	return result
}
