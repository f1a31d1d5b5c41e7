package identity

import "context"

// Source supplies freshly generated identity values. Each call either
// returns a usable value or an error; callers never receive partial output.
// Calls within one patch computation are made sequentially — implementations
// are not required to support concurrent use.
type Source interface {
	// NextMacAddress returns a new unicast MAC address.
	NextMacAddress(ctx context.Context) (string, error)

	// NextSerial returns a new disk serial number.
	NextSerial(ctx context.Context) (string, error)

	// NextArgsBlock returns a full "args:" configuration line with randomized
	// SMBIOS hardware identity and a placeholder VNC listen port.
	NextArgsBlock(ctx context.Context) (string, error)
}
