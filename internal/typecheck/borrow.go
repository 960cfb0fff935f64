package typecheck

import "fastc/internal/token"

// BorrowState is the per-binding marker spec.md §4.4.3 describes: a local
// is unborrowed, shared by some number of live `ref`s, or uniquely borrowed
// by one live `mref`.
type BorrowState int

const (
	Unborrowed BorrowState = iota
	Shared
	Unique
)

type borrowEntry struct {
	state BorrowState
	count int // outstanding ref count, meaningful only when state == Shared
}

// borrowRelease records one borrow created within a lexical region, so it
// can be released when that region's scope exits.
type borrowRelease struct {
	binding string
	unique  bool
}

// BorrowChecker implements spec.md §4.4.3's intraprocedural
// borrow/exclusivity state machine. The reference implementation's
// TypeContext (the nearest analogous type) was an unimplemented stub
// ("TODO: Add type tracking" / types_equal always returning true); this is
// a fresh design built directly from the borrow/exclusivity rules above,
// not a port.
//
// It is reset at the start of every function (spec.md §3: "borrow state...
// discarded at function exit").
type BorrowChecker struct {
	bindings map[string]*borrowEntry
	// regions is a stack mirroring the lexical scope stack; each entry
	// lists the borrows created directly within that region, released in
	// reverse when the region's scope exits.
	regions [][]borrowRelease
}

// NewBorrowChecker returns a checker with one open region (the function
// body's top-level scope).
func NewBorrowChecker() *BorrowChecker {
	return &BorrowChecker{
		bindings: make(map[string]*borrowEntry),
		regions:  [][]borrowRelease{{}},
	}
}

// EnterRegion opens a new lexical region (block scope).
func (bc *BorrowChecker) EnterRegion() {
	bc.regions = append(bc.regions, nil)
}

// ExitRegion closes the innermost region, releasing every borrow it
// created.
func (bc *BorrowChecker) ExitRegion() {
	top := bc.regions[len(bc.regions)-1]
	bc.regions = bc.regions[:len(bc.regions)-1]
	for i := len(top) - 1; i >= 0; i-- {
		bc.release(top[i])
	}
}

func (bc *BorrowChecker) entry(binding string) *borrowEntry {
	e, ok := bc.bindings[binding]
	if !ok {
		e = &borrowEntry{state: Unborrowed}
		bc.bindings[binding] = e
	}
	return e
}

func (bc *BorrowChecker) release(r borrowRelease) {
	e := bc.entry(r.binding)
	if r.unique {
		e.state = Unborrowed
		e.count = 0
		return
	}
	if e.state == Shared {
		e.count--
		if e.count <= 0 {
			e.state = Unborrowed
			e.count = 0
		}
	}
}

// TakeRef records a new `ref` borrow of binding. It returns an error
// message if the borrow conflicts with an outstanding `mref`.
func (bc *BorrowChecker) TakeRef(binding string) (ok bool, msg string) {
	e := bc.entry(binding)
	switch e.state {
	case Unique:
		return false, "cannot take a ref: '" + binding + "' is already uniquely borrowed (mref)"
	case Unborrowed:
		e.state = Shared
		e.count = 1
	case Shared:
		e.count++
	}
	bc.recordInCurrentRegion(borrowRelease{binding: binding, unique: false})
	return true, ""
}

// TakeMref records a new `mref` borrow of binding. It returns an error
// message if the binding is already borrowed in any way.
func (bc *BorrowChecker) TakeMref(binding string) (ok bool, msg string) {
	e := bc.entry(binding)
	switch e.state {
	case Shared:
		return false, "cannot take a mref: '" + binding + "' is borrowed by a live ref"
	case Unique:
		return false, "cannot take a mref: '" + binding + "' is already uniquely borrowed"
	}
	e.state = Unique
	bc.recordInCurrentRegion(borrowRelease{binding: binding, unique: true})
	return true, ""
}

func (bc *BorrowChecker) recordInCurrentRegion(r borrowRelease) {
	i := len(bc.regions) - 1
	bc.regions[i] = append(bc.regions[i], r)
}

// borrowSite pairs a binding name with the span of the addr(...) expression
// that created a borrow of it, used only for error reporting.
type borrowSite struct {
	binding string
	span    token.Span
}
