package cosign

import (
	"fmt"
	"math/big"
)

// pkcs1v15Prefix is the four leading bytes every valid PKCS#1 v1.5 encoded
// message begins with: 0x00 0x01 0xff 0xff. Used as the disambiguation
// heuristic in spec §4.7.
var pkcs1v15Prefix = []byte{0x00, 0x01, 0xff, 0xff}

// MergePartials implements merge pubkey sig..., per spec §4.7: it combines
// an ordered list of raw partial-signature byte strings into a single
// blockLength signature, disambiguating the 2-of-3 threshold reconstruction
// by checking which of the two candidate products carries a valid PKCS#1
// v1.5 prefix after public-exponent verification.
func MergePartials(pub PublicParams, partials [][]byte) ([]byte, error) {
	n := pub.N
	blen := pub.BlockLength()

	sig0 := big.NewInt(1)
	sig1 := big.NewInt(1)
	// A threshold pair is two threshold partials; a third one would start a
	// second pair.
	thresholdPartials := 0

	for i, partial := range partials {
		switch len(partial) {
		case blen:
			s := bytesToInt(partial)
			sig0.Mul(sig0, s)
			sig0.Mod(sig0, n)

		case 2 * blen:
			if thresholdPartials == 2 {
				return nil, fmt.Errorf("multiple threshold pairs in one merge are not supported")
			}
			thresholdPartials++

			sa := bytesToInt(partial[:blen])
			sb := bytesToInt(partial[blen:])

			if sig0.Cmp(big.NewInt(1)) == 0 {
				sig0.Set(sa)
				sig1.Set(sb)
			} else {
				sig0.Mul(sig0, sb)
				sig0.Mod(sig0, n)
				sig1.Mul(sig1, sa)
				sig1.Mod(sig1, n)
			}

		default:
			return nil, fmt.Errorf("signature %d: length mismatch", i)
		}
	}

	e := big.NewInt(int64(pub.E))
	msg0 := intToBytes(modPow(sig0, e, n), blen)
	msg1 := intToBytes(modPow(sig1, e, n), blen)

	switch {
	case hasPrefix(msg0, pkcs1v15Prefix):
		return intToBytes(sig0, blen), nil
	case hasPrefix(msg1, pkcs1v15Prefix):
		return intToBytes(sig1, blen), nil
	default:
		return nil, fmt.Errorf("invalid or missing partial signatures")
	}
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if b[i] != p {
			return false
		}
	}
	return true
}
