// Package sampling implements the two external collaborator contracts
// spec.md §6 names as sub-samplers: which candidate features one round of
// top-down induction (C9) examines, and which examples one rule's growth
// is weighted by. Both draw uniformly without replacement via a
// Fisher-Yates partial shuffle, mirroring the teacher's own
// `_selfRand.Shuffle` habit in decision_tree/procedure.go.
package sampling

import (
	mapset "github.com/deckarep/golang-set"

	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/iface"
)

// UniformFeatureSubSampler draws sampleSize distinct feature indices,
// uniformly, from the full [0, numFeatures) universe on every call. A
// non-positive sampleSize (or one at least as large as numFeatures) means
// "no sub-sampling": every feature is a candidate every round.
type UniformFeatureSubSampler struct {
	universe   []uint32
	sampleSize int
}

// NewUniformFeatureSubSampler builds a sampler over numFeatures indices.
func NewUniformFeatureSubSampler(numFeatures, sampleSize int) *UniformFeatureSubSampler {
	u := mapset.NewThreadUnsafeSet()
	for j := 0; j < numFeatures; j++ {
		u.Add(uint32(j))
	}
	universe := make([]uint32, 0, u.Cardinality())
	for v := range u.Iter() {
		universe = append(universe, v.(uint32))
	}
	return &UniformFeatureSubSampler{universe: universe, sampleSize: sampleSize}
}

// SubSample returns a fresh, independently shuffled slice each call; the
// caller (C9) owns the returned slice and its element order becomes the
// deterministic tie-break order for that round's parallel reduction.
func (s *UniformFeatureSubSampler) SubSample(rng iface.RNG) container.IndexVector {
	n := len(s.universe)
	out := make(container.IndexVector, n)
	copy(out, s.universe)
	rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })

	k := s.sampleSize
	if k <= 0 || k >= n {
		return out
	}
	return out[:k]
}

// UniformInstanceSubSampler produces a weight-1/weight-0 vector over N
// examples: sampleSize examples drawn uniformly without replacement get
// weight 1, the rest weight 0. A non-positive or over-large sampleSize
// means "every example weighted 1", i.e. no sub-sampling.
type UniformInstanceSubSampler struct {
	sampleSize int
}

// NewUniformInstanceSubSampler builds a sampler drawing sampleSize
// examples per call.
func NewUniformInstanceSubSampler(sampleSize int) *UniformInstanceSubSampler {
	return &UniformInstanceSubSampler{sampleSize: sampleSize}
}

// SubSample returns a weight vector of length n.
func (s *UniformInstanceSubSampler) SubSample(rng iface.RNG, n int) container.WeightVector {
	if s.sampleSize <= 0 || s.sampleSize >= n {
		return container.NewWeightVector(n)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	w := make(container.WeightVector, n)
	for _, i := range order[:s.sampleSize] {
		w[i] = 1
	}
	return w
}
