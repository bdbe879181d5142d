package clienterr

import (
	sdkerrors "cosmossdk.io/errors"
)

const codespace = "wasmclient"

// Error kinds surfaced by the client. Callers can match with errors.Is and
// inspect the wrapped context (operation, address, hash) for diagnostics.
var (
	ErrInvalidKey        = sdkerrors.Register(codespace, 2, "invalid key material")
	ErrInvalidAddress    = sdkerrors.Register(codespace, 3, "invalid bech32 address")
	ErrInvalidConfig     = sdkerrors.Register(codespace, 4, "invalid client configuration")
	ErrUnavailable       = sdkerrors.Register(codespace, 5, "transport unavailable")
	ErrTimeout           = sdkerrors.Register(codespace, 6, "operation timed out")
	ErrBroadcastRejected = sdkerrors.Register(codespace, 7, "broadcast rejected by node")
	ErrDecode            = sdkerrors.Register(codespace, 8, "malformed event or response")
	ErrStreamCorrupted   = sdkerrors.Register(codespace, 9, "event stream corrupted")
	ErrSequenceConflict  = sdkerrors.Register(codespace, 10, "stale account sequence")
)
