package service

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrEmptySequence is returned when canonicalization leaves nothing to store
var ErrEmptySequence = errors.New("sequence must have at least one element")

// TooLargeError is returned when a canonical sequence exceeds the safety
// bound. Enumerating n items produces 2^n - 1 subsequences, so the service
// refuses before enumerating rather than risking combinatorial blow-up.
type TooLargeError struct {
	N     int
	Limit int
}

func (e *TooLargeError) Error() string {
	p := message.NewPrinter(language.English)
	maxSubsequences := int64(1)<<e.Limit - 1
	return p.Sprintf(
		"sequence is too large: n=%d (limit %d), the maximum allowed is %d subsequences",
		e.N, e.Limit, maxSubsequences,
	)
}
