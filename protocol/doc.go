// Package protocol runs the two-party fair value protocol on top of the
// [commit] package.
//
// One protocol instance produces a single value in [0, n) that neither
// party controls alone:
//
//	committer                          peer
//	---------                          ----
//	Begin:    commit to x in [0, n)  ->  Announcement (n, commitment)
//	AcceptContribution(y)            <-  any integer y
//	Finalize: reveal (secret, x)     ->  Result, checked by Audit
//
// With the [Additive] rule the result is (x + y) mod n. As long as one of
// the two contributions is uniform and chosen independently of the other,
// the result is uniform, whatever strategy the other party follows. The
// commitment stops the committer from picking x after seeing y; the reveal
// lets the peer check that it did not.
//
// # Sessions
//
// A [Session] walks the states Idle, Committed, ContributionReceived and
// Revealed in that order and cannot skip any. It owns a single-use
// [commit.Committer], so every instance has its own secret. Out-of-order
// calls return [ErrOrderViolation]. Aborting a session after its commitment
// was published returns [ErrRevealMissing].
//
// # Auditing
//
// The peer side is an [Audit]. It records the announcement and its own
// contribution, and then checks the revealed [Result] against what it saw
// rather than against what the committer claims. A failed check returns
// [ErrVerification]; a reveal that never arrives is [ErrRevealMissing].
//
// # Rules
//
// The combination rule is chosen per instance. [Additive] is the general
// case. [GuessMatch] compares the peer's guess with the committed value and
// is used for the first-move decision.
package protocol
