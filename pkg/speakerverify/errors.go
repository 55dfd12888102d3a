package speakerverify

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow failure.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindUnsupportedRegion
	KindProfileCreationFailed
	KindSampleNotFound
	KindEnrollmentRejected
	KindVerificationCallFailed
	KindNetwork
	KindCleanupFailed
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrUnsupportedRegion      = errors.New("unsupported region")
	ErrProfileCreationFailed  = errors.New("profile creation failed")
	ErrSampleNotFound         = errors.New("sample not found")
	ErrEnrollmentRejected     = errors.New("enrollment rejected")
	ErrVerificationCallFailed = errors.New("verification call failed")
	ErrNetwork                = errors.New("network error")
	ErrCleanupFailed          = errors.New("cleanup failed")
)

var kindSentinels = map[Kind]error{
	KindInvalidArgument:        ErrInvalidArgument,
	KindUnsupportedRegion:      ErrUnsupportedRegion,
	KindProfileCreationFailed:  ErrProfileCreationFailed,
	KindSampleNotFound:         ErrSampleNotFound,
	KindEnrollmentRejected:     ErrEnrollmentRejected,
	KindVerificationCallFailed: ErrVerificationCallFailed,
	KindNetwork:                ErrNetwork,
	KindCleanupFailed:          ErrCleanupFailed,
}

func (k Kind) String() string {
	if err, ok := kindSentinels[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is returned by every failing workflow step.
type Error struct {
	Kind Kind

	// Op names the remote operation for network and cleanup failures.
	Op string

	// Path is the sample file involved, if any.
	Path string

	// Region is set for KindUnsupportedRegion.
	Region string

	// Message is the service or validation message.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedRegion:
		return fmt.Sprintf("speaker verification is only supported for Speech resources created in the %s region (got %q); create a resource in %s to use it",
			SupportedRegion, e.Region, SupportedRegion)
	case KindProfileCreationFailed:
		return "failed to create voice profile: " + e.message()
	case KindSampleNotFound:
		if e.Err != nil {
			return fmt.Sprintf("wrong sample file %s: %v", e.Path, e.Err)
		}
		return "wrong sample file location: " + e.Path
	case KindEnrollmentRejected:
		return fmt.Sprintf("the sample audio file %s was rejected: %s", e.Path, e.message())
	case KindVerificationCallFailed:
		return "verification failed: " + e.message()
	case KindNetwork:
		return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
	case KindCleanupFailed:
		return fmt.Sprintf("failed to delete voice profile (%s): %v", e.Op, e.Err)
	}
	return e.message()
}

func (e *Error) message() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

// Is reports whether target is the sentinel of e's Kind.
func (e *Error) Is(target error) bool {
	return target != nil && kindSentinels[e.Kind] == target
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts *Error from an error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
