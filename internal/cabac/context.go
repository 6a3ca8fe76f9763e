package cabac

// Context is a single adaptive probability model: a 7-bit state index into
// rangeTabLPS plus the current most-probable-symbol bit. The spec's "single
// byte encoding (state:7, mps:1)" is represented here as two small fields
// rather than packed into one byte, since Go gives no space advantage to
// packing and the unpacked form is what every call site wants.
type Context struct {
	state uint8
	mps   uint8
}

// Reset returns the context to its initial (least-informed) state.
func (c *Context) Reset() {
	c.state = 0
	c.mps = 0
}

// ContextSet is a flat, reusable array of contexts covering every BI/TU/EG
// context-selection offset the entropy layer can address. It mirrors the
// original's buildContextTable(): one init pass in TU, EG, BI order fixes
// the base offsets used by context selection.
type ContextSet struct {
	models []Context
}

// Context-set stride: the number of context models reserved per distinct
// AdaptiveOrder1/AdaptiveOrder2 offset value. See DESIGN.md open question 5:
// the original's context_tables.h (with the literal CONTEXT_SET_LENGTH
// constant) was not retrieved; 48 is chosen as comfortable headroom for TU's
// worst case of 32 unary bins, EG's ~32 prefix+suffix bins, and BI's 32-bit
// worst case.
const ContextSetLength = 48

const (
	numBISets = 16
	numTUSets = 68
	numEGSets = 16

	OffsetTU = 0
	OffsetEG = OffsetTU + numTUSets*ContextSetLength
	OffsetBI = OffsetEG + numEGSets*ContextSetLength

	totalContexts = OffsetBI + numBISets*ContextSetLength
)

// NewContextSet builds a freshly initialized context table, ordered
// TU-sets, then EG-sets, then BI-sets, matching context_tables.cpp's
// buildContextTable() ordering.
func NewContextSet() *ContextSet {
	return &ContextSet{models: make([]Context, totalContexts)}
}

// Reset reinitializes every context model to its starting state.
func (cs *ContextSet) Reset() {
	for i := range cs.models {
		cs.models[i].Reset()
	}
}

// ForBI returns the context model for BI bin binIdx under contextSetIdx.
func (cs *ContextSet) ForBI(contextSetIdx, binIdx int) *Context {
	return &cs.models[OffsetBI+contextSetIdx*ContextSetLength+binIdx]
}

// ForTU returns the context model for TU bin binIdx under contextSetIdx.
func (cs *ContextSet) ForTU(contextSetIdx, binIdx int) *Context {
	return &cs.models[OffsetTU+contextSetIdx*ContextSetLength+binIdx]
}

// ForEG returns the context model for EG bin binIdx under contextSetIdx.
func (cs *ContextSet) ForEG(contextSetIdx, binIdx int) *Context {
	return &cs.models[OffsetEG+contextSetIdx*ContextSetLength+binIdx]
}
