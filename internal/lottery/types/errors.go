package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// x/lottery sentinel errors.
var (
	ErrInvalidRequest   = errorsmod.Register(ModuleName, 1, "invalid request")
	ErrUidTooLong       = errorsmod.Register(ModuleName, 2, "uid exceeds 12 bytes")
	ErrInvalidOwner     = errorsmod.Register(ModuleName, 3, "caller is not the configured owner")
	ErrInvalidSigner    = errorsmod.Register(ModuleName, 4, "request not signed by caller")
	ErrStorage          = errorsmod.Register(ModuleName, 5, "storage failure")
	ErrEntropyExhausted = errorsmod.Register(ModuleName, 6, "rejection sampling did not converge")
	ErrNotFound         = errorsmod.Register(ModuleName, 7, "not found")
)

// IsValidationError reports whether err was raised by request validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUidTooLong) || errors.Is(err, ErrInvalidRequest)
}

// IsAuthorizationError reports whether err was raised by the access guard.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInvalidOwner) || errors.Is(err, ErrInvalidSigner)
}

// IsStorageError reports whether err aborted a draw because a store, clock or
// oracle read failed.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrEntropyExhausted)
}
