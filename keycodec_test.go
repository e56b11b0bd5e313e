package cosign

import (
	"crypto/x509"
	"encoding/pem"
	"math/big"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("key codec", func() {
	It("round-trips a public key through PEM", func() {
		dealt, err := DealUnanimous(2)
		Expect(err).NotTo(HaveOccurred())

		pemBytes, err := EncodePublicKeyPEM(dealt.Pub)
		Expect(err).NotTo(HaveOccurred())

		block, _ := pem.Decode(pemBytes)
		Expect(block).NotTo(BeNil())
		Expect(block.Type).To(Equal("PUBLIC KEY"))

		got, err := DecodePublicKeyPEM(pemBytes)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.N).To(Equal(dealt.Pub.N))
		Expect(got.E).To(Equal(dealt.Pub.E))
	})

	It("round-trips a unanimous shard through PEM, including a negative D", func() {
		// use a real modulus so BlockLength() and ASN.1 round-trip on a
		// realistic-sized N, but a hand-picked D to force the negative path.
		dealt, err := DealUnanimous(1)
		Expect(err).NotTo(HaveOccurred())
		pub := dealt.Pub

		shard := &Shard{Pub: pub, D: big.NewInt(-12345)}
		pemBytes, err := EncodeShardPEM(shard)
		Expect(err).NotTo(HaveOccurred())

		got, err := DecodeShardPEM(pemBytes)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.IsThreshold()).To(BeFalse())
		Expect(got.D).To(Equal(big.NewInt(-12345)))
		Expect(got.Pub.N).To(Equal(pub.N))
	})

	It("round-trips a threshold shard through PEM", func() {
		dealt, err := DealThreshold()
		Expect(err).NotTo(HaveOccurred())

		for _, shard := range dealt.Shards {
			pemBytes, err := EncodeShardPEM(shard)
			Expect(err).NotTo(HaveOccurred())

			got, err := DecodeShardPEM(pemBytes)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsThreshold()).To(BeTrue())
			Expect(got.P).To(Equal(shard.P))
			Expect(got.Q).To(Equal(shard.Q))
		}
	})

	It("rejects a shard PEM block of the wrong type", func() {
		_, err := DecodeShardPEM([]byte("-----BEGIN PUBLIC KEY-----\n-----END PUBLIC KEY-----\n"))
		Expect(err).To(HaveOccurred())
	})

	It("emits a self-signed certificate for cosign.dev that chains to the dealt public key", func() {
		dealt, err := DealUnanimous(2)
		Expect(err).NotTo(HaveOccurred())

		block, _ := pem.Decode(dealt.CertPEM)
		Expect(block).NotTo(BeNil())
		Expect(block.Type).To(Equal("CERTIFICATE"))

		cert, err := x509.ParseCertificate(block.Bytes)
		Expect(err).NotTo(HaveOccurred())
		Expect(cert.Subject.CommonName).To(Equal("cosign.dev"))
		Expect(cert.Issuer.CommonName).To(Equal("cosign.dev"))
		Expect(cert.NotAfter.Sub(cert.NotBefore)).To(BeNumerically("~", 365*24*time.Hour, 2*24*time.Hour))

		Expect(cert.CheckSignatureFrom(cert)).To(Succeed())
	})
})
