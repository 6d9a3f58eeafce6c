// Package defaultcollab implements component C19: concrete, in-module
// versions of the label matrix, feature matrix, nominal mask, RNG, and
// stopping criteria spec.md §6 defines as interfaces. Together with the
// sub-samplers in package sampling, they let engine.Run be used standalone
// without a caller supplying every collaborator by hand.
package defaultcollab

import (
	"time"

	"github.com/bits-and-blooms/bitset"

	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/featurevec"
	"rockrules.io/syndrome/iface"
)

// DenseLabelMatrix is a label matrix backed by a per-example time-slot
// assignment and a per-slot ground-truth count, both held densely in
// memory. It assumes examples are pre-sorted by time slot, per spec.md
// §3's stated assumption, letting indicesByTimeSlot be a single linear
// scan computed once at construction instead of per call.
type DenseLabelMatrix struct {
	timeSlotOfExample []uint32
	valuesByTimeSlot  []uint32
	slotStart         []uint32
	slotEnd           []uint32
}

// NewDenseLabelMatrix builds a label matrix from timeSlotOfExample
// (length N, non-decreasing) and valuesByTimeSlot (length T).
func NewDenseLabelMatrix(timeSlotOfExample []uint32, valuesByTimeSlot []uint32) *DenseLabelMatrix {
	t := len(valuesByTimeSlot)
	start := make([]uint32, t)
	end := make([]uint32, t)
	for i, slot := range timeSlotOfExample {
		if start[slot] == 0 && end[slot] == 0 {
			start[slot] = uint32(i)
		}
		end[slot] = uint32(i + 1)
	}
	return &DenseLabelMatrix{
		timeSlotOfExample: timeSlotOfExample,
		valuesByTimeSlot:  valuesByTimeSlot,
		slotStart:         start,
		slotEnd:           end,
	}
}

func (m *DenseLabelMatrix) NumRows() int       { return len(m.timeSlotOfExample) }
func (m *DenseLabelMatrix) NumTimeSlots() int  { return len(m.valuesByTimeSlot) }
func (m *DenseLabelMatrix) TimeSlotOfExample(i uint32) uint32 { return m.timeSlotOfExample[i] }
func (m *DenseLabelMatrix) ValuesByTimeSlot() []uint32        { return m.valuesByTimeSlot }
func (m *DenseLabelMatrix) IndicesByTimeSlot(t uint32) (start, end uint32) {
	return m.slotStart[t], m.slotEnd[t]
}

// DenseFeatureSource adapts an examples-by-features dense matrix (NaN
// marks a missing value) to the sparse FetchFeatureVector contract C2's
// featurevec.Build expects.
type DenseFeatureSource struct {
	rows [][]float32
}

// NewDenseFeatureSource wraps rows (examples x features). Any NaN value
// is treated as missing.
func NewDenseFeatureSource(rows [][]float32) *DenseFeatureSource {
	return &DenseFeatureSource{rows: rows}
}

func (f *DenseFeatureSource) NumCols() int {
	if len(f.rows) == 0 {
		return 0
	}
	return len(f.rows[0])
}

func (f *DenseFeatureSource) FetchFeatureVector(j int) (pairs []featurevec.Pair, missing []uint32) {
	for i, row := range f.rows {
		v := row[j]
		if isNaN(v) {
			missing = append(missing, uint32(i))
			continue
		}
		if v == 0 {
			// Sparse zero: absent from both lists by construction
			// (spec.md §3's "examples in neither place are implicit
			// sparse zeros").
			continue
		}
		pairs = append(pairs, featurevec.Pair{Value: v, ExampleIndex: uint32(i)})
	}
	return pairs, missing
}

func isNaN(f float32) bool { return f != f }

// StaticNominalMask answers IsNominal from a fixed set of feature
// indices decided once at construction, held as a dense bitset since a
// nominal flag is tested once per feature per round and the universe of
// feature indices is small and contiguous from zero.
type StaticNominalMask struct {
	nominal *bitset.BitSet
}

// NewStaticNominalMask builds a mask flagging every index in nominalIndices.
func NewStaticNominalMask(nominalIndices []int) *StaticNominalMask {
	b := bitset.New(0)
	for _, j := range nominalIndices {
		b.Set(uint(j))
	}
	return &StaticNominalMask{nominal: b}
}

func (s *StaticNominalMask) IsNominal(j int) bool { return s.nominal.Test(uint(j)) }

// SeededRNG adapts container.RNG to iface.RNG; container.RNG already
// satisfies the interface structurally, but this alias keeps
// defaultcollab's exported surface self-contained for callers who only
// import this package.
type SeededRNG = container.RNG

// NewSeededRNG builds a deterministic RNG from seed.
func NewSeededRNG(seed int64) *SeededRNG { return container.NewRNG(seed) }

// MaxRulesStoppingCriterion force-stops once numRules reaches Max.
type MaxRulesStoppingCriterion struct {
	Max int
}

func (c MaxRulesStoppingCriterion) Test(numRules int) (iface.StopDecision, int) {
	if numRules >= c.Max {
		return iface.ForceStop, c.Max
	}
	return iface.Continue, 0
}

// TimeLimitStoppingCriterion store-stops once Deadline has passed: it
// lets the current rule finish growing but memoizes the rule count at
// which time ran out, per spec.md §4.7's STORE_STOP semantics.
type TimeLimitStoppingCriterion struct {
	Deadline time.Time
}

func (c TimeLimitStoppingCriterion) Test(numRules int) (iface.StopDecision, int) {
	if time.Now().After(c.Deadline) {
		return iface.StoreStop, numRules
	}
	return iface.Continue, 0
}

// CompositeStoppingCriterion combines several criteria: any ForceStop
// wins outright; otherwise the first StoreStop latches; otherwise
// Continue.
type CompositeStoppingCriterion struct {
	Criteria []iface.StoppingCriterion
}

func (c CompositeStoppingCriterion) Test(numRules int) (iface.StopDecision, int) {
	storeStop := false
	storeK := 0
	for _, crit := range c.Criteria {
		decision, k := crit.Test(numRules)
		switch decision {
		case iface.ForceStop:
			return iface.ForceStop, k
		case iface.StoreStop:
			if !storeStop {
				storeStop = true
				storeK = k
			}
		}
	}
	if storeStop {
		return iface.StoreStop, storeK
	}
	return iface.Continue, 0
}
