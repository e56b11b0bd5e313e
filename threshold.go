package cosign

import (
	"fmt"
	"math/big"
	"time"
)

// DealThreshold implements threshold basename (fresh generation): generates
// a new RSA key and produces three shards carrying additive halves per the
// table in spec §3.
func DealThreshold() (*DealtKey, error) {
	pub, d, err := generateFullKey()
	if err != nil {
		return nil, err
	}
	defer d.wipe()

	return dealThresholdFrom(pub, d.value())
}

// dealThresholdFrom builds the three threshold shards for an already-known
// (pub, d) pair. Used both by fresh generation and by the re-splitter after
// it has reconstructed d from two existing shards.
func dealThresholdFrom(pub PublicParams, d *big.Int) (*DealtKey, error) {
	drawBits := 8 * (blockLength - 2)

	r := make([]*big.Int, 3)
	for i := range r {
		ri, err := randomBelow2Pow(drawBits)
		if err != nil {
			return nil, fmt.Errorf("draw threshold half: %w", err)
		}
		r[i] = ri
	}

	// shard i: (p=r[i], q = d - r[i+1 mod 3]), per spec §3's table.
	shards := make([]*Shard, 3)
	for i := 0; i < 3; i++ {
		next := r[(i+1)%3]
		q := new(big.Int).Sub(d, next)
		shards[i] = &Shard{Pub: pub, D: magic, P: r[i], Q: q}
	}

	certPEM, err := EncodeSelfSignedCertPEM(pub, d, time.Now())
	if err != nil {
		return nil, err
	}

	return &DealtKey{Pub: pub, CertPEM: certPEM, Shards: shards}, nil
}

// ResplitThreshold implements threshold basename k0 k1: reconstructs d from
// two existing threshold shards and re-deals a fresh triple, per spec §4.5.
// The reconstructed d is never persisted.
func ResplitThreshold(a, b *Shard) (*DealtKey, error) {
	if !a.IsThreshold() || !b.IsThreshold() {
		return nil, fmt.Errorf("not a threshold key")
	}
	if a.Pub.N.Cmp(b.Pub.N) != 0 {
		return nil, fmt.Errorf("different public key modulii")
	}

	d, err := reconstructThresholdD(a, b)
	if err != nil {
		return nil, err
	}
	defer d.wipe()

	return dealThresholdFrom(a.Pub, d.value())
}

// reconstructThresholdD computes the two candidate sums da = p_a + q_b and
// db = q_a + p_b, then disambiguates by the MAGIC probe: c = MAGIC^e mod n;
// the correct d satisfies c^d ≡ MAGIC (mod n), since (MAGIC^e)^d ≡ MAGIC for
// any valid d. Per spec §4.5.
func reconstructThresholdD(a, b *Shard) (*secretInt, error) {
	n := a.Pub.N
	e := big.NewInt(int64(a.Pub.E))

	da := new(big.Int).Add(a.P, b.Q)
	db := new(big.Int).Add(a.Q, b.P)

	c := modPow(magic, e, n)

	if modPow(c, da, n).Cmp(magic) == 0 {
		return newSecretInt(da), nil
	}
	if modPow(c, db, n).Cmp(magic) == 0 {
		return newSecretInt(db), nil
	}
	return nil, fmt.Errorf("don't make a real private key")
}
