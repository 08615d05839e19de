package contract

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind groups error codes by who has to act on them.
type Kind uint8

const (
	KindAuthorization Kind = 1
	KindPrecondition  Kind = 2
	KindTransfer      Kind = 3
	KindProtocol      Kind = 4
	KindStorage       Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindPrecondition:
		return "precondition"
	case KindTransfer:
		return "transfer"
	case KindProtocol:
		return "protocol"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Code is the stable numeric error identifier surfaced to callers.
type Code uint32

// Error is the single error type returned by contract operations.
// Two errors are equal under errors.Is when their codes match.
type Error struct {
	Code  Code
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("#%d %s: %v", e.Code, e.Msg, e.cause)
	}
	return fmt.Sprintf("#%d %s", e.Code, e.Msg)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) Unwrap() error { return e.cause }

// Cause lets errors.Cause from github.com/pkg/errors reach the host error.
func (e *Error) Cause() error { return e.cause }

// wrap returns a copy of e carrying err as cause.
func (e *Error) wrap(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// wrapf returns a copy of e with extra context appended to the message.
func (e *Error) wrapf(format string, args ...interface{}) *Error {
	c := *e
	c.Msg = e.Msg + ": " + fmt.Sprintf(format, args...)
	return &c
}

func newError(code Code, kind Kind, msg string) *Error {
	return &Error{Code: code, Kind: kind, Msg: msg}
}

var (
	ErrAddressInsufficientBalance  = newError(1, KindPrecondition, "address insufficient balance")
	ErrContractInsufficientBalance = newError(2, KindPrecondition, "contract insufficient balance")
	ErrNotInitialized              = newError(3, KindPrecondition, "contract not initialized")
	ErrAmountLessOrEqualZero       = newError(4, KindPrecondition, "amount must be greater than 0")
	ErrAmountBelowMinimum          = newError(5, KindPrecondition, "amount below minimum per investment")
	ErrAlreadyInitialized          = newError(6, KindPrecondition, "contract already initialized")
	ErrRateMustBePositive          = newError(7, KindPrecondition, "rate must be greater than 0")
	ErrInvalidAddress              = newError(8, KindPrecondition, "invalid address")
	ErrRateTooHigh                 = newError(9, KindPrecondition, "rate above maximum")
	ErrGoalNegative                = newError(12, KindPrecondition, "goal must not be negative")
	ErrUnsupportedReturnType       = newError(13, KindPrecondition, "unsupported return type")
	ErrAddressHasNotInvested       = newError(14, KindPrecondition, "address has not invested")
	ErrNotClaimableYet             = newError(15, KindPrecondition, "investment is not claimable yet")
	ErrInvestmentFinished          = newError(16, KindPrecondition, "investment is finished")
	ErrNextTransferNotReady        = newError(17, KindPrecondition, "next transfer is not claimable yet")
	ErrAddressAlreadyInvested      = newError(18, KindPrecondition, "address already invested at this timestamp")
	ErrProjectInsufficientBalance  = newError(24, KindPrecondition, "project insufficient balance")
	ErrAlreadyActive               = newError(25, KindPrecondition, "investments already active")
	ErrAlreadyPaused               = newError(26, KindPrecondition, "investments already paused")
	ErrContractPaused              = newError(27, KindPrecondition, "investments are paused")
	ErrInvalidStateTransition      = newError(28, KindPrecondition, "invalid contract state transition")
	ErrReturnMonthsZero            = newError(29, KindPrecondition, "return months must be greater than 0")
	ErrGoalReached                 = newError(30, KindPrecondition, "investment goal reached")
	ErrAmountTooSmall              = newError(31, KindPrecondition, "amount too small to cover commission and reserve")
	ErrAmountOverflow              = newError(32, KindPrecondition, "amount overflows the ledger range")

	ErrUnauthorized = newError(40, KindAuthorization, "unauthorized")

	ErrSignerNotAllowed       = newError(41, KindProtocol, "signer is not expected on this request")
	ErrMultisigExpired        = newError(42, KindProtocol, "multisig request expired")
	ErrMultisigAmountMismatch = newError(43, KindProtocol, "amount does not match the open request")

	ErrTransferFailed = newError(50, KindTransfer, "token transfer failed")

	ErrStorage = newError(60, KindStorage, "storage failure")
)

// CodeOf extracts the contract error code from err, if it carries one.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// KindOf extracts the error kind from err, if it carries one.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
