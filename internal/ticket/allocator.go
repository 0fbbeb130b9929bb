// Package ticket mints complaint tracking identifiers: a fixed textual
// prefix followed by a strictly increasing decimal number.
package ticket

import (
	"fmt"
	"strconv"
	"strings"
)

// Allocator hands out ticket IDs. It keeps a single in-process counter and
// is not safe for concurrent callers or for a second process writing the
// same ledger; the system runs one user in one process by design. A
// multi-user deployment would need an atomic file-backed or database
// sequence instead.
type Allocator struct {
	prefix string
	last   int
}

// NewAllocator seeds the counter from the IDs already on file so a restart
// never reissues an ID at or below the highest existing one. IDs without the
// prefix or with a non-numeric suffix are skipped. The counter never seeds
// below start-1, so the first Next() of a fresh ledger is prefix+start.
func NewAllocator(prefix string, start int, existingIDs []string) *Allocator {
	last := start - 1
	for _, id := range existingIDs {
		suffix, ok := strings.CutPrefix(strings.TrimSpace(id), prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > last {
			last = n
		}
	}
	return &Allocator{prefix: prefix, last: last}
}

// Next returns the next ticket ID.
func (a *Allocator) Next() string {
	a.last++
	return fmt.Sprintf("%s%d", a.prefix, a.last)
}
