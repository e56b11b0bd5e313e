/*
Package cosign implements the mathematical and cryptographic core of a
cooperative RSA signature tool: a group of parties jointly produce a
standard RSA signature while no single party ever holds the full private
key after the initial dealing.

# Overview

A dealer generates an ordinary RSA key pair and splits the private exponent
D into shards. In unanimous mode, all N shards are additive shares of D over
the integers:

	key, err := DealUnanimous(4)

In threshold mode, three shards are produced such that any two of them carry
an additive pair that reconstructs D:

	key, err := DealThreshold()

The dealer distributes the shards (and the public key) over a secure
channel and discards the full D. At signing time, shards are never
reassembled -- each party raises the PKCS#1 v1.5 encoded message to its own
share of D:

	partial, err := PartialSign(shard, message)

A merger (which never holds a shard) combines the partial signatures into a
signature that verifies against the public key exactly as any ordinary RSA
signature would:

	sig, err := MergePartials(pub, partials)
	err = Verify(pub, message, sig) // rsa.VerifyPKCS1v15 with crypto.SHA256

# Unanimous vs. threshold sharing

Unanimous mode requires all N parties to sign; it tolerates an arbitrary N
up to 16 and is the simpler of the two schemes (spec §3, §4.4): shares are
drawn independently and the last share absorbs whatever remainder is left,
so that the shares sum to D exactly (not merely mod λ(n)).

Threshold mode is a fixed 2-of-3 scheme. Each shard carries one half of two
overlapping additive pairs arranged cyclically, so that any two of the three
shards' halves sum to D -- but which of the two candidate sums is correct
depends on which pair of shards is combined, and must be disambiguated by a
public-exponent probe (spec §4.5, §4.7).

# Sources

	[1] https://eprint.iacr.org/2001/060.pdf (additive/multiplicative RSA key splitting)
	[2] RFC 3447 §9.2 (PKCS#1 v1.5 signature encoding)
*/
package cosign
