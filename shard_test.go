package cosign

import (
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Shard", func() {
	pub := PublicParams{N: big.NewInt(0).Lsh(big.NewInt(1), 2048), E: rsaPublicExponent}

	It("identifies threshold shards by the magic sentinel", func() {
		s := &Shard{Pub: pub, D: magic, P: big.NewInt(1), Q: big.NewInt(2)}
		Expect(s.IsThreshold()).To(BeTrue())
	})

	It("identifies unanimous shards by any non-magic D", func() {
		s := &Shard{Pub: pub, D: big.NewInt(42)}
		Expect(s.IsThreshold()).To(BeFalse())
	})

	It("rejects a threshold shard missing its pair", func() {
		s := &Shard{Pub: pub, D: magic}
		Expect(s.validate()).To(HaveOccurred())
	})

	It("rejects a unanimous shard missing D", func() {
		s := &Shard{Pub: pub}
		Expect(s.validate()).To(HaveOccurred())
	})

	It("rejects a shard with no modulus", func() {
		s := &Shard{Pub: PublicParams{E: rsaPublicExponent}, D: big.NewInt(1)}
		Expect(s.validate()).To(HaveOccurred())
	})
})

var _ = Describe("secretInt", func() {
	It("zeroes its backing words on wipe", func() {
		v := big.NewInt(0).SetBytes([]byte{0xde, 0xad, 0xbe, 0xef})
		s := newSecretInt(v)
		Expect(s.value().Sign()).NotTo(Equal(0))

		s.wipe()
		Expect(v.Sign()).To(Equal(0))
		Expect(s.value()).To(BeNil())
	})

	It("is safe to wipe twice", func() {
		s := newSecretInt(big.NewInt(7))
		s.wipe()
		Expect(func() { s.wipe() }).NotTo(Panic())
	})
})

var _ = Describe("bigint helpers", func() {
	It("left-pads intToBytes to a fixed width", func() {
		got := intToBytes(big.NewInt(1), 4)
		Expect(got).To(Equal([]byte{0, 0, 0, 1}))
	})

	It("round-trips through bytesToInt", func() {
		n := big.NewInt(123456789)
		got := bytesToInt(intToBytes(n, 8))
		Expect(got).To(Equal(n))
	})

	It("draws randomBelow2Pow within bounds", func() {
		limit := new(big.Int).Lsh(big.NewInt(1), 64)
		for i := 0; i < 20; i++ {
			v, err := randomBelow2Pow(64)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Sign()).NotTo(BeNumerically("<", 0))
			Expect(v.Cmp(limit)).To(BeNumerically("<", 0))
		}
	})
})
