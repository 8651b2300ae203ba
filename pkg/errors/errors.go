// Package errors defines the typed error taxonomy shared by the services
// and handler layers.
//
// Errors are created through New* constructors and inspected through Is*
// predicates so callers never have to match on driver-specific messages.
package errors

import (
	"errors"
	"fmt"
)

// ConnectivityError reports that a storage target could not be reached or
// authenticated against. The Reason field carries a human-readable,
// driver-independent explanation.
type ConnectivityError struct {
	Reason string
	Err    error
}

func NewConnectivityError(reason string, err error) *ConnectivityError {
	return &ConnectivityError{Reason: reason, Err: err}
}

func (e *ConnectivityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connectivity: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("connectivity: %s", e.Reason)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

func IsConnectivityError(err error) bool {
	var e *ConnectivityError
	return errors.As(err, &e)
}

// IncompleteTargetError reports that a reachable target is still missing
// required collections after the auto-create attempt.
type IncompleteTargetError struct {
	Missing []string
}

func NewIncompleteTargetError(missing []string) *IncompleteTargetError {
	return &IncompleteTargetError{Missing: missing}
}

func (e *IncompleteTargetError) Error() string {
	return fmt.Sprintf("target is missing required collections: %v", e.Missing)
}

func IsIncompleteTargetError(err error) bool {
	var e *IncompleteTargetError
	return errors.As(err, &e)
}

// WriteError reports a failure to persist local configuration state. It is
// fatal to the requested operation but never to the process.
type WriteError struct {
	Path string
	Err  error
}

func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func IsWriteError(err error) bool {
	var e *WriteError
	return errors.As(err, &e)
}

// NotConfiguredError reports that no engine configuration has been persisted
// yet, or that the persisted state could not be parsed. The installation
// flow recovers from this by re-running install.
type NotConfiguredError struct{}

func NewNotConfiguredError() *NotConfiguredError { return &NotConfiguredError{} }

func (e *NotConfiguredError) Error() string { return "no engine configuration present" }

func IsNotConfiguredError(err error) bool {
	var e *NotConfiguredError
	return errors.As(err, &e)
}

// NotFoundError reports that a referenced resource, such as a backup
// artifact, does not exist.
type NotFoundError struct {
	Resource string
	Name     string
}

func NewNotFoundError(resource, name string) *NotFoundError {
	return &NotFoundError{Resource: resource, Name: name}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// BackupToolError reports a non-zero exit from the external dump utility.
// Stderr carries the tool's captured error output.
type BackupToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func NewBackupToolError(tool, stderr string, err error) *BackupToolError {
	return &BackupToolError{Tool: tool, Stderr: stderr, Err: err}
}

func (e *BackupToolError) Error() string {
	return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *BackupToolError) Unwrap() error { return e.Err }

func IsBackupToolError(err error) bool {
	var e *BackupToolError
	return errors.As(err, &e)
}

// RestoreToolError reports a non-zero exit from the external restore utility.
type RestoreToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func NewRestoreToolError(tool, stderr string, err error) *RestoreToolError {
	return &RestoreToolError{Tool: tool, Stderr: stderr, Err: err}
}

func (e *RestoreToolError) Error() string {
	return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *RestoreToolError) Unwrap() error { return e.Err }

func IsRestoreToolError(err error) bool {
	var e *RestoreToolError
	return errors.As(err, &e)
}

// OperationInProgressError reports that a conflicting long-running operation
// is already running, such as a restore started while a backup is in flight.
type OperationInProgressError struct {
	Operation string
}

func NewOperationInProgressError(operation string) *OperationInProgressError {
	return &OperationInProgressError{Operation: operation}
}

func (e *OperationInProgressError) Error() string {
	return fmt.Sprintf("%s is already in progress", e.Operation)
}

func IsOperationInProgressError(err error) bool {
	var e *OperationInProgressError
	return errors.As(err, &e)
}

// NotInstalledError gates application routes while the system is in the
// Uninstalled state.
type NotInstalledError struct{}

func NewNotInstalledError() *NotInstalledError { return &NotInstalledError{} }

func (e *NotInstalledError) Error() string { return "system is not installed" }

func IsNotInstalledError(err error) bool {
	var e *NotInstalledError
	return errors.As(err, &e)
}
