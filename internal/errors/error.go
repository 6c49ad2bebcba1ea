package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// An internal Error details
type Error struct {
	// Numeric (HTTP-alike) error code
	Code int32
	// Symbolic status code, e.g. NOT_FOUND
	Status string
	// Human-readable message text
	Message string
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	if err == nil {
		return ""
	}

	var (
		indent string
		format strings.Builder
	)
	defer format.Reset()

	if err.Code > 0 {
		fmt.Fprintf(&format, "(#%d)", err.Code)
		indent = " "
	}

	if err.Status != "" {
		format.WriteString(indent)
		format.WriteString(err.Status)
		indent = " ; "
	}

	if err.Message != "" {
		format.WriteString(indent)
		format.WriteString(err.Message)
	}

	return format.String()
}

func FromError(src error) (err *Error, ok bool) {
	if src == nil {
		return nil, true
	}
	switch src := src.(type) {
	case *Error:
		{
			return src, true
		}
	}
	return Internal(Message("%s", src.Error())), false
}

type Option func(err *Error)

// Error.Code Option
func Code(code int32) Option {
	return func(err *Error) {
		if code > 0 {
			err.Code = code
		}
	}
}

// Error.Status Option
func Status(code string) Option {
	return func(err *Error) {
		if code != "" {
			err.Status = code
		}
	}
}

func Message(form string, args ...any) Option {
	return func(err *Error) {
		text := form
		if len(args) > 0 {
			if form == "" {
				text = fmt.Sprint(args...)
			} else {
				text = fmt.Sprintf(form, args...)
			}
		}
		err.Message = text
	}
}

func New(opts ...Option) (err *Error) {
	err = &Error{}
	err.init(opts)
	return // err
}

func (err *Error) init(opts []Option) {
	for _, setup := range opts {
		setup(err)
	}
}

func Errorf(message string, args ...any) *Error {
	return New(Message(message, args...))
}

// (#400) BAD_REQUEST
//
//	 New(
//		Status("BAD_REQUEST"),
//		Code(http.StatusBadRequest),
//		opts...,
//	)
func BadRequest(opts ...Option) *Error {
	err := New(
		Status("BAD_REQUEST"),
		Code(http.StatusBadRequest),
	)
	err.init(opts)
	return err
}

// (#404) NOT_FOUND
//
//	 New(
//		Status("NOT_FOUND"),
//		Code(http.StatusNotFound),
//		opts...,
//	)
func NotFound(opts ...Option) *Error {
	err := New(
		Status("NOT_FOUND"),
		Code(http.StatusNotFound),
	)
	err.init(opts)
	return err
}

// (#501) NOT_IMPLEMENTED
//
// Unknown request kind reaching an entry point.
func NotImplemented(opts ...Option) *Error {
	err := New(
		Status("NOT_IMPLEMENTED"),
		Code(http.StatusNotImplemented),
	)
	err.init(opts)
	return err
}

// (#503) UNAVAILABLE
//
// The storage collaborator failed to serve a read path.
func Unavailable(opts ...Option) *Error {
	err := New(
		Status("UNAVAILABLE"),
		Code(http.StatusServiceUnavailable),
	)
	err.init(opts)
	return err
}

// (#500) INTERNAL
func Internal(opts ...Option) *Error {
	err := New(
		Status("INTERNAL"),
		Code(http.StatusInternalServerError),
	)
	err.init(opts)
	return err
}
