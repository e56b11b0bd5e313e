package cosign

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"time"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// rsaEncryptionOID is the DER content bytes (tag and length stripped) of
// 1.2.840.113549.1.1.1, the standard AlgorithmIdentifier OID for RSA keys.
var rsaEncryptionOID = []byte{0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01}

// EncodePublicKeyPEM renders pub as a PEM SubjectPublicKeyInfo block, the
// standard public-key format any RSA verifier (including openssl) accepts.
// Public keys carry no sentinel values, so there is nothing to bypass and
// this path goes through the stdlib high-level type directly.
func EncodePublicKeyPEM(pub PublicParams) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&rsa.PublicKey{N: pub.N, E: pub.E})
	if err != nil {
		return nil, fmt.Errorf("encode public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// DecodePublicKeyPEM parses a PEM SubjectPublicKeyInfo block back into
// PublicParams.
func DecodePublicKeyPEM(data []byte) (PublicParams, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PUBLIC KEY" {
		return PublicParams{}, fmt.Errorf("decode public key: not a PEM PUBLIC KEY block")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return PublicParams{}, fmt.Errorf("decode public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return PublicParams{}, fmt.Errorf("decode public key: not an RSA key")
	}
	return PublicParams{N: rsaPub.N, E: rsaPub.E}, nil
}

// EncodeShardPEM renders shard as a PEM "PRIVATE KEY" (PKCS#8) block wrapping
// a hand-built RSAPrivateKey DER structure, per spec §4.3 and §9's design
// note: this intentionally bypasses crypto/rsa.PrivateKey and
// x509.MarshalPKCS8PrivateKey, since either would be free to start
// validating or precomputing CRT values from p/q/d on a future stdlib
// release, and these fields carry sentinel values on purpose.
func EncodeShardPEM(shard *Shard) ([]byte, error) {
	if err := shard.validate(); err != nil {
		return nil, err
	}

	d, p, q, dp, dq, qinv := shardFieldsForEncoding(shard)

	var rsaKey cryptobyte.Builder
	rsaKey.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0) // version
		addASN1BigInt(b, shard.Pub.N)
		b.AddASN1Int64(int64(shard.Pub.E))
		addASN1BigInt(b, d)
		addASN1BigInt(b, p)
		addASN1BigInt(b, q)
		addASN1BigInt(b, dp)
		addASN1BigInt(b, dq)
		addASN1BigInt(b, qinv)
	})
	rsaKeyDER, err := rsaKey.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode shard: %w", err)
	}

	var pk8 cryptobyte.Builder
	pk8.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0) // version
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.OBJECT_IDENTIFIER, func(b *cryptobyte.Builder) {
				b.AddBytes(rsaEncryptionOID)
			})
			b.AddASN1(cbasn1.NULL, func(b *cryptobyte.Builder) {})
		})
		b.AddASN1(cbasn1.OCTET_STRING, func(b *cryptobyte.Builder) {
			b.AddBytes(rsaKeyDER)
		})
	})
	der, err := pk8.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode shard: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// shardFieldsForEncoding maps a Shard onto the (d, p, q, dp, dq, qinv) tuple
// spec §3 requires on disk: unanimous shards get p=q=1, dp=dq=qinv=0;
// threshold shards get d=magic with the real (p, q) additive halves and
// dp=dq=qinv=0.
func shardFieldsForEncoding(shard *Shard) (d, p, q, dp, dq, qinv *big.Int) {
	zero := big.NewInt(0)
	one := big.NewInt(1)
	if shard.IsThreshold() {
		return magic, shard.P, shard.Q, zero, zero, zero
	}
	return shard.D, one, one, zero, zero, zero
}

// DecodeShardPEM parses a PEM "PRIVATE KEY" block produced by EncodeShardPEM
// back into a Shard, tolerating the sentinel p/q/dp/dq/qinv values described
// above.
func DecodeShardPEM(data []byte) (*Shard, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("decode shard: not a PEM PRIVATE KEY block")
	}

	input := cryptobyte.String(block.Bytes)
	var pk8 cryptobyte.String
	if !input.ReadASN1(&pk8, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, fmt.Errorf("decode shard: malformed PKCS#8 wrapper")
	}

	var version int64
	if !pk8.ReadASN1Integer(&version) {
		return nil, fmt.Errorf("decode shard: malformed PKCS#8 version")
	}

	var alg cryptobyte.String
	if !pk8.ReadASN1(&alg, cbasn1.SEQUENCE) {
		return nil, fmt.Errorf("decode shard: malformed algorithm identifier")
	}
	var oid cryptobyte.String
	if !alg.ReadASN1(&oid, cbasn1.OBJECT_IDENTIFIER) {
		return nil, fmt.Errorf("decode shard: malformed algorithm OID")
	}
	if !bytes.Equal(oid, rsaEncryptionOID) {
		return nil, fmt.Errorf("decode shard: not an RSA key")
	}

	var rsaKeyDER cryptobyte.String
	if !pk8.ReadASN1(&rsaKeyDER, cbasn1.OCTET_STRING) {
		return nil, fmt.Errorf("decode shard: malformed private key octet string")
	}

	var inner cryptobyte.String
	if !rsaKeyDER.ReadASN1(&inner, cbasn1.SEQUENCE) {
		return nil, fmt.Errorf("decode shard: malformed RSAPrivateKey")
	}

	var rsaVersion int64
	n, e, d, p, q := new(big.Int), new(big.Int), new(big.Int), new(big.Int), new(big.Int)
	dp, dq, qinv := new(big.Int), new(big.Int), new(big.Int)
	ok := inner.ReadASN1Integer(&rsaVersion) &&
		inner.ReadASN1Integer(n) &&
		inner.ReadASN1Integer(e) &&
		inner.ReadASN1Integer(d) &&
		inner.ReadASN1Integer(p) &&
		inner.ReadASN1Integer(q) &&
		inner.ReadASN1Integer(dp) &&
		inner.ReadASN1Integer(dq) &&
		inner.ReadASN1Integer(qinv)
	if !ok {
		return nil, fmt.Errorf("decode shard: malformed RSAPrivateKey fields")
	}

	shard := &Shard{Pub: PublicParams{N: n, E: int(e.Int64())}, D: d}
	if shard.IsThreshold() {
		shard.P, shard.Q = p, q
		shard.D = magic
	}
	if err := shard.validate(); err != nil {
		return nil, err
	}
	return shard, nil
}

// addASN1BigInt writes v as a DER INTEGER, handling zero, arbitrarily large
// positive values, and negative values (two's complement) -- the unanimous
// dealer's final shard is allowed to be negative per spec §4.4.
func addASN1BigInt(b *cryptobyte.Builder, v *big.Int) {
	b.AddASN1(cbasn1.INTEGER, func(c *cryptobyte.Builder) {
		c.AddBytes(asn1IntegerContent(v))
	})
}

func asn1IntegerContent(v *big.Int) []byte {
	switch v.Sign() {
	case 0:
		return []byte{0}
	case 1:
		buf := v.Bytes()
		if buf[0]&0x80 != 0 {
			buf = append([]byte{0}, buf...)
		}
		return buf
	default:
		abs := new(big.Int).Neg(v)
		nBytes := (abs.BitLen() + 7) / 8
		if nBytes == 0 {
			nBytes = 1
		}
		threshold := new(big.Int).Lsh(big.NewInt(1), uint(8*nBytes-1))
		if new(big.Int).Neg(threshold).Cmp(v) > 0 {
			nBytes++
		}
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*nBytes))
		tc := new(big.Int).Add(mod, v)
		buf := make([]byte, nBytes)
		tc.FillBytes(buf)
		return buf
	}
}

// rawSigner implements crypto.Signer over the transient, unsplit private
// exponent so the self-signed certificate can be produced without ever
// constructing a CRT-complete rsa.PrivateKey: it raises the certificate's
// tbsCertificate digest to the full d directly, the same raw modular
// exponentiation every partial signer in this tool performs.
type rawSigner struct {
	pub *rsa.PublicKey
	d   *big.Int
}

func (s *rawSigner) Public() crypto.PublicKey { return s.pub }

func (s *rawSigner) Sign(_ io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	if opts.HashFunc() != crypto.SHA256 {
		return nil, fmt.Errorf("rawSigner: only SHA-256 is supported")
	}
	em, err := emFromDigest(digest)
	if err != nil {
		return nil, err
	}
	sig := modPow(em, s.d, s.pub.N)
	return intToBytes(sig, (s.pub.N.BitLen()+7)/8), nil
}

// EncodeSelfSignedCertPEM emits a self-signed X.509 certificate for pub,
// signed with the freshly generated full private exponent d -- the only
// post-generation use of the full key before it is discarded, per spec
// §4.3.
func EncodeSelfSignedCertPEM(pub PublicParams, d *big.Int, now time.Time) ([]byte, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("generate serial: %w", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: "cosign.dev"},
		Issuer:                pkix.Name{CommonName: "cosign.dev"},
		NotBefore:             now,
		NotAfter:              now.AddDate(1, 0, 0),
		SignatureAlgorithm:    x509.SHA256WithRSA,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	rsaPub := &rsa.PublicKey{N: pub.N, E: pub.E}
	signer := &rawSigner{pub: rsaPub, d: d}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, rsaPub, signer)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), nil
}
