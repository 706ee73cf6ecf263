package domain

import "time"

// SubmissionSeed derives the shuffle seed from the room code, round
// number and wall-clock second. The inputs are run through an
// avalanche-style finalizer so consecutive seconds (or adjacent rounds)
// do not yield adjacent seeds; a raw timestamp seed produced
// near-identical orders on consecutive rounds. The seed is stored on
// the room so any client can independently recompute the order.
func SubmissionSeed(roomCode string, round int, ts time.Time) uint32 {
	h := uint32(2166136261)
	for _, c := range roomCode {
		h ^= uint32(c)
		h *= 16777619
	}
	h ^= uint32(round) * 0x9e3779b9
	h ^= uint32(ts.Unix())

	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// lcg is a small linear-congruential generator. It is deliberately
// trivial so non-Go clients can reproduce the sequence from the seed.
type lcg struct {
	state uint32
}

func (l *lcg) next() uint32 {
	l.state = l.state*1664525 + 1013904223
	return l.state
}

func (l *lcg) intn(n int) int {
	return int(l.next() % uint32(n))
}

// ShuffleSubmissions returns a seeded permutation of subs. The input
// slice is never mutated. Identical (subs, seed) pairs always yield the
// identical order. The two-submission case is a single 50/50 coin flip
// so small rounds stay fair.
func ShuffleSubmissions(subs []*Submission, seed uint32) []*Submission {
	out := make([]*Submission, len(subs))
	copy(out, subs)

	rng := &lcg{state: seed}
	if len(out) == 2 {
		if rng.next()&1 == 1 {
			out[0], out[1] = out[1], out[0]
		}
		return out
	}

	for i := len(out) - 1; i > 0; i-- {
		j := rng.intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
