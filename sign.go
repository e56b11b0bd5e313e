package cosign

// PartialSign implements sign keyfile: encodes message per spec §4.2, then
// raises the result to the shard's share exponent(s) mod n, per spec §4.6.
// Unanimous shards produce one blockLength block; threshold shards produce
// the concatenation of two blocks, m^P and m^Q, in that order.
func PartialSign(shard *Shard, message []byte) ([]byte, error) {
	if err := shard.validate(); err != nil {
		return nil, err
	}

	m, err := encodeDigestInfo(message)
	if err != nil {
		return nil, err
	}

	n := shard.Pub.N
	blen := shard.Pub.BlockLength()

	if shard.IsThreshold() {
		sig0 := modPow(m, shard.P, n)
		sig1 := modPow(m, shard.Q, n)
		out := make([]byte, 0, 2*blen)
		out = append(out, intToBytes(sig0, blen)...)
		out = append(out, intToBytes(sig1, blen)...)
		return out, nil
	}

	sig := modPow(m, shard.D, n)
	return intToBytes(sig, blen), nil
}
