package cosign

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MergePartials", func() {
	It("rejects a signature file of unexpected length", func() {
		dealt, err := DealUnanimous(2)
		Expect(err).NotTo(HaveOccurred())

		_, err = MergePartials(dealt.Pub, [][]byte{make([]byte, blockLength-1)})
		Expect(err).To(MatchError(ContainSubstring("length mismatch")))
	})

	It("fails on an empty partial list", func() {
		dealt, err := DealUnanimous(2)
		Expect(err).NotTo(HaveOccurred())

		_, err = MergePartials(dealt.Pub, nil)
		Expect(err).To(HaveOccurred())
	})

	It("is insensitive to the order of unanimous partials", func() {
		dealt, err := DealUnanimous(5)
		Expect(err).NotTo(HaveOccurred())
		message := []byte(testMessage)

		partials, err := signAll(dealt.Shards, message)
		Expect(err).NotTo(HaveOccurred())

		reversed := make([][]byte, len(partials))
		for i, p := range partials {
			reversed[len(partials)-1-i] = p
		}

		sigForward, err := MergePartials(dealt.Pub, partials)
		Expect(err).NotTo(HaveOccurred())
		sigReversed, err := MergePartials(dealt.Pub, reversed)
		Expect(err).NotTo(HaveOccurred())

		Expect(sigForward).To(Equal(sigReversed))
	})
})
