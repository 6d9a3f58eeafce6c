// Package coverage implements component C3: a dense per-example integer
// mark of which rule-growth step last touched that example, allowing
// O(1) checks of "is this example presently covered" without clearing the
// whole array between rules or between conditions.
//
// Implementation note (see DESIGN.md): spec.md §9 describes M[i] and
// target both being set to the same small numConditions counter that
// restarts at zero for every rule. Reusing small per-rule counters as the
// comparison value is only safe if the array is physically cleared (or the
// bump direction carefully tracked) between rules; this implementation
// instead draws every mark from one run-lifetime monotonically increasing
// counter, so two different commits, whether in the same rule or
// different ones, never compare equal by accident. IsCovered(i) still
// reduces to the single comparison M[i] == Target the design note
// describes; only the source of the integers changed, not the semantics.
package coverage

// Mask is the coverage bookkeeping structure described in spec.md §3/§9.
type Mask struct {
	M      []int64
	Target int64
	clock  int64
}

// NewMask allocates a mask of length n, initially covering every example:
// M[i] and Target all start at zero, so IsCovered holds for each i.
func NewMask(n int) *Mask {
	return &Mask{M: make([]int64, n), Target: 0, clock: 0}
}

// IsCovered reports whether example i is marked covered at the mask's
// current target.
func (m *Mask) IsCovered(i uint32) bool {
	return m.M[i] == m.Target
}

// NextStep allocates and returns the next monotonic step value, used as
// the mark written into M by a committed condition (covered or not).
func (m *Mask) NextStep() int64 {
	m.clock++
	return m.clock
}

// MarkStep sets M[i] to the given step value without affecting Target.
// Used for examples excluded by a condition's !covered complement: they
// get a distinguishing mark, but Target is left pointing at whichever mark
// the examples still covered carry.
func (m *Mask) MarkStep(i uint32, step int64) {
	m.M[i] = step
}

// SetCoveredTarget advances Target to step, used when committing a
// condition whose covered range becomes the new covered set. It marks no
// example itself: call it once per commit, then MarkStep every example of
// the covered range with the same step value (obtained from NextStep).
func (m *Mask) SetCoveredTarget(step int64) {
	m.Target = step
}

// Reset logically empties the mask (no example covered) in O(1) by
// allocating a step value no example's M entry can already hold.
func (m *Mask) Reset() {
	m.Target = m.NextStep()
}
