package gateway

import "errors"

var (
	// ErrUnavailable covers transport failures and timeouts talking to
	// the gateway. The current request fails; no automatic retry.
	ErrUnavailable = errors.New("gateway unavailable")

	// ErrRejected means the gateway answered but refused the request
	// (non-201 on initialize).
	ErrRejected = errors.New("gateway rejected request")

	// ErrProtocol means a 2xx response did not carry the expected
	// payload shape.
	ErrProtocol = errors.New("malformed gateway response")
)
