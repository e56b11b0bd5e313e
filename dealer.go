package cosign

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"math/big"
	"time"
)

// rsaKeyBits is the fixed modulus size this tool generates: 2048 bits, per
// spec §3.
const rsaKeyBits = 2048

// rsaPublicExponent is the fixed public exponent, 65537, per spec §3.
const rsaPublicExponent = 65537

// DealtKey is the output of a fresh unanimous or threshold dealing: the
// public parameters, the certificate, and the shards to distribute. The
// caller is responsible for writing these to disk and then discarding this
// value; nothing here should be retained past that point.
type DealtKey struct {
	Pub    PublicParams
	CertPEM []byte
	Shards []*Shard
}

// generateFullKey produces a fresh 2048-bit RSA key pair and returns its
// public parameters alongside the full private exponent as a secretInt.
// Generation itself is delegated to crypto/rsa per spec §1 ("out of scope:
// ... the cryptographically secure random byte source"); the full d is
// wiped by the caller before it returns, after it has been split and has
// signed the certificate.
func generateFullKey() (PublicParams, *secretInt, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return PublicParams{}, nil, fmt.Errorf("generate key: %w", err)
	}
	pub := PublicParams{N: key.N, E: key.E}
	return pub, newSecretInt(new(big.Int).Set(key.D)), nil
}

// DealUnanimous implements genkey N basename: generates a fresh RSA key and
// splits D into n additive shares over the integers, per spec §4.4. 1 <= n
// <= maxUnanimousShards.
func DealUnanimous(n int) (*DealtKey, error) {
	if n < 1 || n > maxUnanimousShards {
		return nil, fmt.Errorf("too many shares")
	}

	pub, d, err := generateFullKey()
	if err != nil {
		return nil, err
	}
	defer d.wipe()

	shares, err := splitAdditiveOverIntegers(d.value(), n)
	if err != nil {
		return nil, err
	}

	certPEM, err := EncodeSelfSignedCertPEM(pub, d.value(), time.Now())
	if err != nil {
		return nil, err
	}

	shards := make([]*Shard, n)
	for i, di := range shares {
		shards[i] = &Shard{Pub: pub, D: di}
	}

	return &DealtKey{Pub: pub, CertPEM: certPEM, Shards: shards}, nil
}

// splitAdditiveOverIntegers draws n-1 shares uniformly from
// [0, 2^(8*(blockLength-2))) and sets the last share to the literal integer
// remainder d - sum(shares[:n-1]), per spec §3/§4.4. No reduction mod λ(n)
// is performed: the caller relies on the bound in spec §4.4 (d is ≈2^2047,
// 15 draws of <2^2032 each sum to far less than d) to keep the remainder
// share well away from zero or negative in the common case, though spec
// explicitly allows it to end up negative.
func splitAdditiveOverIntegers(d *big.Int, n int) ([]*big.Int, error) {
	shares := make([]*big.Int, n)
	sum := new(big.Int)
	drawBits := 8 * (blockLength - 2)

	for i := 0; i < n-1; i++ {
		share, err := randomBelow2Pow(drawBits)
		if err != nil {
			return nil, fmt.Errorf("draw share: %w", err)
		}
		shares[i] = share
		sum.Add(sum, share)
	}

	shares[n-1] = new(big.Int).Sub(d, sum)
	return shares, nil
}
