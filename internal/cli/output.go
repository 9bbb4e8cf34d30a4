package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shogo82148/osqrt"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The input was rejected by the kernel
	ExitCommandError = 2 // Command error (bad arguments, unreadable config, database errors)
)

// ExitError carries the exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// kernelError maps kernel input errors to ExitFailure and everything else
// to ExitCommandError.
func kernelError(message string, err error) error {
	var inputErr *osqrt.InputError
	if errors.As(err, &inputErr) {
		return WrapExitError(ExitFailure, message, err)
	}
	return WrapExitError(ExitCommandError, message, err)
}

// errorCode returns the stable code reported in JSON error responses.
func errorCode(err error) string {
	switch {
	case errors.Is(err, osqrt.ErrZeroInput):
		return "zero_input"
	case errors.Is(err, osqrt.ErrNegativeInput):
		return "negative_input"
	case errors.Is(err, osqrt.ErrOrderOutOfBounds):
		return "order_out_of_bounds"
	case errors.Is(err, osqrt.ErrWidthOverflow):
		return "width_overflow"
	case errors.Is(err, osqrt.ErrOpaqueBranch):
		return "opaque_branch"
	}
	return "error"
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope of every command.
type Response struct {
	Status string         `json:"status"`
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError describes a failed command.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data fmt.Stringer) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "ok",
			Data:   data,
		})
	}
	_, err := fmt.Fprintln(f.Writer, data.String())
	return err
}

// Error outputs err in the configured format.
func (f *OutputFormatter) Error(err error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error: &ResponseError{
				Code:    errorCode(err),
				Message: err.Error(),
			},
		})
	}
	_, werr := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", errorCode(err), err.Error())
	return werr
}
