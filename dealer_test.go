package cosign

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testMessage = "The Magic Words are Squeamish Ossifrage\n"

// signAll produces one partial signature per shard, the way independent
// parties would when run in parallel (spec §5: per-party signers run
// independently, order is irrelevant to the merged result for the all-
// unanimous case).
func signAll(shards []*Shard, message []byte) ([][]byte, error) {
	partials := make([][]byte, len(shards))
	for i, shard := range shards {
		p, err := PartialSign(shard, message)
		if err != nil {
			return nil, fmt.Errorf("shard %d: %w", i, err)
		}
		partials[i] = p
	}
	return partials, nil
}

var _ = Describe("DealUnanimous", func() {
	message := []byte(testMessage)

	It("rejects N outside [1, 16]", func() {
		_, err := DealUnanimous(0)
		Expect(err).To(MatchError("too many shares"))

		_, err = DealUnanimous(17)
		Expect(err).To(MatchError("too many shares"))
	})

	for _, n := range []int{2, 4, 16} {
		n := n
		When(fmt.Sprintf("splitting a key %d ways", n), func() {
			It("produces a signature that verifies against the dealt public key (S1)", func() {
				dealt, err := DealUnanimous(n)
				Expect(err).NotTo(HaveOccurred())
				Expect(dealt.Shards).To(HaveLen(n))

				partials, err := signAll(dealt.Shards, message)
				Expect(err).NotTo(HaveOccurred())

				sig, err := MergePartials(dealt.Pub, partials)
				Expect(err).NotTo(HaveOccurred())

				Expect(Verify(dealt.Pub, message, sig)).To(Succeed())
			})

			It("fails to merge when any one share is missing (property 2)", func() {
				dealt, err := DealUnanimous(n)
				Expect(err).NotTo(HaveOccurred())

				partials, err := signAll(dealt.Shards, message)
				Expect(err).NotTo(HaveOccurred())

				_, err = MergePartials(dealt.Pub, partials[1:])
				Expect(err).To(HaveOccurred())
			})

			It("fails to merge when one share is corrupted (property 3)", func() {
				dealt, err := DealUnanimous(n)
				Expect(err).NotTo(HaveOccurred())

				partials, err := signAll(dealt.Shards, message)
				Expect(err).NotTo(HaveOccurred())

				corrupted := make([]byte, len(partials[0]))
				for i := range corrupted {
					corrupted[i] = byte(i) ^ 0x5a
				}
				partials[0] = corrupted

				_, err = MergePartials(dealt.Pub, partials)
				Expect(err).To(HaveOccurred())
			})
		})
	}

	It("does not verify against a different key's public parameters (property 5, S2)", func() {
		dealt, err := DealUnanimous(4)
		Expect(err).NotTo(HaveOccurred())
		partials, err := signAll(dealt.Shards, message)
		Expect(err).NotTo(HaveOccurred())
		sig, err := MergePartials(dealt.Pub, partials)
		Expect(err).NotTo(HaveOccurred())

		other, err := DealUnanimous(2)
		Expect(err).NotTo(HaveOccurred())

		Expect(Verify(other.Pub, message, sig)).To(HaveOccurred())
	})

	It("does not verify a signature over a different message (property 4)", func() {
		dealt, err := DealUnanimous(3)
		Expect(err).NotTo(HaveOccurred())
		partials, err := signAll(dealt.Shards, message)
		Expect(err).NotTo(HaveOccurred())
		sig, err := MergePartials(dealt.Pub, partials)
		Expect(err).NotTo(HaveOccurred())

		Expect(Verify(dealt.Pub, []byte("a different message\n"), sig)).To(HaveOccurred())
	})
})
