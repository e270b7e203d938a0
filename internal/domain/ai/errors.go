package ai

import "errors"

// ErrUpstream indicates the inference call itself failed (network fault,
// provider error, safety block). Surfaced to users as a generic failure.
var ErrUpstream = errors.New("inference call failed")

// ErrQuotaExceeded indicates the provider returned a quota/limit error
// (HTTP 429 or similar). A species of upstream failure kept distinct so it
// shows up in logs and metrics on its own.
var ErrQuotaExceeded = errors.New("ai quota exceeded")
