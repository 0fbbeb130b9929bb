package common

import "time"

// TimestampFormat is the layout used for created/updated columns in every
// ledger file. It matches the rows already on disk from earlier versions of
// the system, so it must not change.
const TimestampFormat = "2006-01-02 15:04:05"

// nowFn is a test seam; tests replace it to get deterministic timestamps.
var nowFn = time.Now

// Timestamp returns the current time rendered in TimestampFormat.
func Timestamp() string {
	return nowFn().Format(TimestampFormat)
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Used to remove passwords from memory after hashing.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
