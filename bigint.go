package cosign

import (
	"crypto/rand"
	"math/big"
)

// modPow computes base^exp mod mod over unbounded non-negative integers. No
// side-channel guarantees are made or required here; see spec Non-goals.
func modPow(base, exp, mod *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, mod)
}

// intToBytes renders x as big-endian bytes, left-padded to exactly n bytes;
// it panics (via FillBytes) if x does not fit in n bytes. This mirrors the
// teacher's use of big.Int.FillBytes to produce fixed-length wire values.
func intToBytes(x *big.Int, n int) []byte {
	buf := make([]byte, n)
	return x.FillBytes(buf)
}

// bytesToInt parses big-endian bytes as a non-negative integer.
func bytesToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// randomBelow2Pow returns a uniformly random integer in [0, 2^bits) drawn from a
// CSPRNG, following the same rand.Int(rand.Reader, ...) idiom the teacher
// uses throughout keysplitting.go.
func randomBelow2Pow(bits int) (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return rand.Int(rand.Reader, limit)
}
