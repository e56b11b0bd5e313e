package cosign

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// Verify checks sig against message and pub using the exact stdlib
// primitive any external RSA verifier (including openssl dgst -verify)
// would use. This is the convenience "verify" subcommand from SPEC_FULL §5:
// it documents and exercises the interoperability contract of spec §6.3
// in-process, but does not replace the external-verifier contract since it
// calls the same rsa.VerifyPKCS1v15 a real verifier relies on.
func Verify(pub PublicParams, message, sig []byte) error {
	rsaPub := &rsa.PublicKey{N: pub.N, E: pub.E}
	digest := sha256.Sum256(message)
	if err := rsa.VerifyPKCS1v15(rsaPub, crypto.SHA256, digest[:], sig); err != nil {
		return fmt.Errorf("signature does not verify: %w", err)
	}
	return nil
}
