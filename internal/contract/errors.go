package contract

import "errors"

// ErrStorageUnavailable marks every failure of the local store: schema init
// racing another process, quota exceeded, storage disabled. Callers must
// treat it as "cache miss / no-op" and fall through to the network, never as
// a fatal application error.
var ErrStorageUnavailable = errors.New("local storage unavailable")

// ErrNetworkFetch marks a failed network-fetch callback. The cache-aside
// reader only surfaces it when no cached fallback exists.
var ErrNetworkFetch = errors.New("network fetch failed")
