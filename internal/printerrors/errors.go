// Package printerrors defines the failure taxonomy shared by every stage of a print run.
package printerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal failures. Each aborts the run with exit code 1.
var (
	ErrValidation            = errors.New("validation failed")
	ErrUnsupportedType       = errors.New("unsupported document type")
	ErrInstallationNotFound  = errors.New("office installation not found")
	ErrAutomationUnavailable = errors.New("automation unavailable")
	ErrDocumentOpenFailed    = errors.New("document open failed")
	ErrPrinterNotFound       = errors.New("printer not found")
	ErrPrintFailed           = errors.New("print failed")
	ErrUnsupportedPlatform   = errors.New("not supported on this platform")
)

// Degraded failures. The paper size request is dropped and printing continues.
var (
	ErrPaperNotFound = errors.New("paper size not found")
	ErrDriver        = errors.New("printer driver error")
)

// ErrCleanupWarning marks failures while releasing resources. It never changes the exit code.
var ErrCleanupWarning = errors.New("cleanup incomplete")

// UnsupportedTypeError names the offending extension and what would have been accepted.
type UnsupportedTypeError struct {
	Extension string
	Supported []string
}

func (e *UnsupportedTypeError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file type %s (supported: %s)", ext, strings.Join(e.Supported, ", "))
}

// Is lets callers match both ErrUnsupportedType and the broader ErrValidation.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType || target == ErrValidation
}

// DriverError carries the OS last-error code reported by a capability query.
type DriverError struct {
	Printer string
	Op      string
	Code    uintptr
	Err     error
}

func (e *DriverError) Error() string {
	msg := fmt.Sprintf("driver query %s on %q failed (last error %d)", e.Op, e.Printer, e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DriverError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDriver}
	}
	return []error{ErrDriver, e.Err}
}

// IsDegraded reports whether err only cancels the paper size request.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrPaperNotFound) || errors.Is(err, ErrDriver)
}

// UserMessage creates a clean, category-prefixed message for the console
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	categories := []struct {
		target error
		prefix string
	}{
		{ErrUnsupportedType, "VALIDATION"},
		{ErrValidation, "VALIDATION"},
		{ErrInstallationNotFound, "INSTALL"},
		{ErrAutomationUnavailable, "AUTOMATION"},
		{ErrDocumentOpenFailed, "DOCUMENT"},
		{ErrPrinterNotFound, "PRINTER"},
		{ErrPrintFailed, "PRINT"},
		{ErrPaperNotFound, "PAPER"},
		{ErrDriver, "DRIVER"},
		{ErrUnsupportedPlatform, "PLATFORM"},
	}

	for _, c := range categories {
		if errors.Is(err, c.target) {
			return fmt.Sprintf("%s: %s", c.prefix, cleanErrorMessage(err.Error(), c.target))
		}
	}

	// Fallback: return the message untouched
	return fmt.Sprintf("ERROR: %s", err.Error())
}

// cleanErrorMessage drops the sentinel text when it merely prefixes the real cause
func cleanErrorMessage(errStr string, sentinel error) string {
	result := strings.TrimPrefix(errStr, sentinel.Error()+": ")
	if result == "" {
		return errStr
	}
	return result
}
