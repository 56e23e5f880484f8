// Package errors is our internal errors package. It should be used in place of the standard "errors" package,
// "golang.org/x/xerrors", or "fmt.Errorf".
// This package ensures that all errors have a correct category & collect stack-traces.
package errors

import "golang.org/x/xerrors"

// ConfigurationError represent a configuration error. When used, it should ideally also point towards the configuration
// value that caused this error to occur.
type ConfigurationError struct {
	E error
}

// NewConfigurationError returns a new ConfigurationError
func NewConfigurationError(msg string, a ...any) ConfigurationError {
	return ConfigurationError{E: xerrors.Errorf(msg, a...)}
}

// AsConfigurationError checks whether the error is a configuration error
func AsConfigurationError(err error) (ConfigurationError, bool) {
	var e ConfigurationError
	ok := As(err, &e)
	return e, ok
}

// Error returns the error message of this error
func (e ConfigurationError) Error() string {
	return e.E.Error()
}

// Description returns a detailed description of the error category
func (e ConfigurationError) Description() string {
	return "The CLI is not configured correctly."
}

// Resolution returns a resolution hint for end-users
func (e ConfigurationError) Resolution() string {
	return "Please double-check the supplied flags, environment variables & configuration file."
}

// Type returns the human-readable name of this error category
func (e ConfigurationError) Type() string {
	return "Configuration Error"
}

// InputError is an error caused by user input. Parsers return input errors both for test results that are malformed
// and for results that are well-formed, but belong to a different parser.
type InputError struct {
	E error
}

// NewInputError returns a new InputError
func NewInputError(msg string, a ...any) InputError {
	return InputError{E: xerrors.Errorf(msg, a...)}
}

// AsInputError checks whether the error is an input error
func AsInputError(err error) (InputError, bool) {
	var e InputError
	ok := As(err, &e)
	return e, ok
}

// Error returns the error message of this error
func (e InputError) Error() string {
	return e.E.Error()
}

// Description returns a detailed description of the error category
func (e InputError) Description() string {
	return "One of the supplied inputs could not be processed."
}

// Resolution returns a resolution hint for end-users
func (e InputError) Resolution() string {
	return "Please verify that the test results files are intact & in one of the supported formats."
}

// Type returns the human-readable name of this error category
func (e InputError) Type() string {
	return "Input Error"
}

// InternalError is an internal error. This error type should only be used if an end-user cannot act upon it and would
// need to reach out to us for support.
type InternalError struct {
	E error
}

// NewInternalError returns a new InternalError
func NewInternalError(msg string, a ...any) InternalError {
	return InternalError{E: xerrors.Errorf(msg, a...)}
}

// AsInternalError checks whether the error is an internal error
func AsInternalError(err error) (InternalError, bool) {
	var e InternalError
	ok := As(err, &e)
	return e, ok
}

// Error returns the error message of this error
func (e InternalError) Error() string {
	return e.E.Error()
}

// Description returns a detailed description of the error category
func (e InternalError) Description() string {
	return "The CLI encountered an unexpected condition that it does not know how to recover from."
}

// Resolution returns a resolution hint for end-users
func (e InternalError) Resolution() string {
	return "This is most likely a bug in the CLI itself."
}

// Type returns the human-readable name of this error category
func (e InternalError) Type() string {
	return "Internal Error"
}

// SystemError is returned when the CLI encountered a system error. This is most likely either an error during file read
// or a network error.
type SystemError struct {
	E error
}

// NewSystemError returns a new SystemError
func NewSystemError(msg string, a ...any) SystemError {
	return SystemError{E: xerrors.Errorf(msg, a...)}
}

// AsSystemError checks whether the error is a system error
func AsSystemError(err error) (SystemError, bool) {
	var e SystemError
	ok := As(err, &e)
	return e, ok
}

// Error returns the error message of this error
func (e SystemError) Error() string {
	return e.E.Error()
}

// Description returns a detailed description of the error category
func (e SystemError) Description() string {
	return "The CLI encountered a system error. This is usually an error around reading or writing files."
}

// Resolution returns a resolution hint for end-users
func (e SystemError) Resolution() string {
	return "Please check that the named files exist & that their permissions allow access, then try again."
}

// Type returns the human-readable name of this error category
func (e SystemError) Type() string {
	return "System Error"
}
