package cosign

import "math/big"

// secretInt holds a *big.Int that must not outlive the dealer/re-splitter
// stack frame that computed it (spec §9: "the full d must be held only on
// the stack of the dealer and re-splitter and zeroized before return"). No
// zeroize/memguard library exists anywhere in the retrieval pack for this,
// so wiping is done directly against the backing word slice math/big
// exposes via Bits().
type secretInt struct {
	v *big.Int
}

func newSecretInt(v *big.Int) *secretInt {
	return &secretInt{v: v}
}

// value exposes the wrapped integer for the duration of a single
// computation. Callers must not retain the returned pointer past wipe().
func (s *secretInt) value() *big.Int {
	return s.v
}

// wipe zeroes every word backing the integer and drops the reference. Safe
// to call more than once.
func (s *secretInt) wipe() {
	if s.v == nil {
		return
	}
	words := s.v.Bits()
	for i := range words {
		words[i] = 0
	}
	s.v.SetInt64(0)
	s.v = nil
}
