// Package commit implements the hash commitment channel used by the fair
// value protocol.
//
// A [Committer] draws a value uniformly from [0, n), binds it to a fresh
// random secret and publishes only the digest:
//
//	commitment = H(len32(secret) || secret || decimal(value))
//
// len32 is the secret length as a 4-byte big-endian integer.
//
// After the peer has contributed its own input, the committer reveals the
// secret and the value. Anyone holding the published [Commitment] can then
// recompute the digest with a [Verifier] and confirm the value was fixed
// before the peer spoke.
//
// # Roles
//
// Committing and verifying are separate types. A Committer can commit and
// reveal exactly once; a Verifier can only check openings. Code that only
// holds a Verifier cannot accidentally produce commitments.
//
//	c := commit.NewCommitter(rand.Reader, nil) // SHA3-256
//	opening, cm, err := c.Commit(6)
//	if err != nil {
//		return err
//	}
//
//	// publish cm, collect the peer's contribution, then:
//	opening, err = c.Reveal()
//
//	ok := commit.NewVerifier().Verify(opening, cm)
//
// # Digest Algorithms
//
// Digests are pluggable through [Hasher]. The algorithm name travels with
// every Commitment so the verifying side always recomputes with the same
// function. Built-in algorithms are listed by [Algorithms]; the default is
// SHA3-256. The mimc-bn254 hasher produces digests that can be opened
// inside a BN254 SNARK circuit.
//
// # Randomness
//
// All entropy comes from the io.Reader passed to [NewCommitter]. Use
// crypto/rand.Reader outside of tests.
package commit
