package cosign

import (
	"fmt"
	"math/big"
)

// magic is the sentinel private exponent marking a shard as a threshold
// shard. It doubles as the probe plaintext during re-split disambiguation
// (spec §4.5).
var magic = big.NewInt(0x2323232323232323)

// maxUnanimousShards bounds N for genkey, carried verbatim from the
// teacher's mpcrsa.go maxShards constant.
const maxUnanimousShards = 16

// PublicParams holds the RSA public parameters shared by every shard of a
// given key.
type PublicParams struct {
	N *big.Int
	E int
}

// BlockLength is ⌈bits(N)/8⌉. Fixed at 256 for the 2048-bit keys this tool
// generates, but computed from N on read so that shards round-trip whatever
// modulus they actually carry.
func (p PublicParams) BlockLength() int {
	return (p.N.BitLen() + 7) / 8
}

// Shard is one party's fragment of a split RSA private key. Unanimous
// shards carry a share D of the private exponent; threshold shards carry
// D == magic and an additive pair (P, Q) per spec §3.
type Shard struct {
	Pub PublicParams
	D   *big.Int
	P   *big.Int
	Q   *big.Int
}

// IsThreshold reports whether the shard is a 2-of-3 threshold shard (as
// opposed to a unanimous N-of-N shard).
func (s *Shard) IsThreshold() bool {
	return s.D != nil && s.D.Cmp(magic) == 0
}

// validate checks the structural invariants spec §3 requires of every
// persisted shard: unanimous shards carry D and nothing in P/Q; threshold
// shards carry D == magic and both halves of the pair.
func (s *Shard) validate() error {
	if s.Pub.N == nil || s.Pub.N.Sign() <= 0 {
		return fmt.Errorf("shard: missing or invalid modulus")
	}
	if s.Pub.E == 0 {
		return fmt.Errorf("shard: missing public exponent")
	}
	if s.IsThreshold() {
		if s.P == nil || s.Q == nil {
			return fmt.Errorf("shard: threshold shard missing p/q")
		}
		return nil
	}
	if s.D == nil {
		return fmt.Errorf("shard: unanimous shard missing d")
	}
	if s.P != nil || s.Q != nil {
		return fmt.Errorf("shard: unanimous shard carries p/q")
	}
	return nil
}
