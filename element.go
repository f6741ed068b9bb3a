package scrollfx

// --- ID counter ---

// elementIDCounter is a plain counter; scrollfx is single-threaded.
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// --- Element ---

// Element is the handle the rendering layer hands to the animation core for a
// mounted visual node. A single flat struct is used for every kind of element.
//
// The rendering layer owns the element and keeps its layout box current; the
// core only borrows it between Mount and Unmount and writes the animatable
// fields below.
type Element struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Element
	children []*Element

	// Layout box in document coordinates, maintained by the rendering layer.
	// Scroll triggers read Top and Height on every tick.
	Top, Left     float64
	Width, Height float64

	// Animatable transform (local, relative to the layout box)
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64
	// YPercent translates the element by a percentage of its own height.
	YPercent float64

	// Visibility
	Alpha   float64
	Color   Color
	Visible bool

	// Metadata
	UserData any

	// Internal
	dirty    bool
	disposed bool
}

// elementDefaults sets the common default field values.
func elementDefaults(e *Element) {
	e.ID = nextElementID()
	e.ScaleX = 1
	e.ScaleY = 1
	e.Alpha = 1
	e.Color = ColorWhite
	e.Visible = true
	e.PivotX = 0.5
	e.PivotY = 0.5
	e.dirty = true
}

// NewElement creates an element with the given name and layout box.
func NewElement(name string, box Rect) *Element {
	e := &Element{
		Name:   name,
		Left:   box.X,
		Top:    box.Y,
		Width:  box.Width,
		Height: box.Height,
	}
	elementDefaults(e)
	return e
}

// Box returns the element's layout box in document coordinates.
func (e *Element) Box() Rect {
	return Rect{X: e.Left, Y: e.Top, Width: e.Width, Height: e.Height}
}

// SetBox updates the layout box. Called by the rendering layer after reflow.
func (e *Element) SetBox(box Rect) {
	e.Left, e.Top = box.X, box.Y
	e.Width, e.Height = box.Width, box.Height
	e.dirty = true
}

// --- Tree manipulation ---

// AddChild appends child to this element's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this element (cycle).
func (e *Element) AddChild(child *Element) {
	if child == nil {
		panic("scrollfx: cannot add nil child")
	}
	if isAncestor(child, e) {
		panic("scrollfx: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
	child.dirty = true
}

// RemoveChild detaches child from this element.
// Panics if child.Parent != e.
func (e *Element) RemoveChild(child *Element) {
	if child.Parent != e {
		panic("scrollfx: child's parent is not this element")
	}
	e.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this element from its parent.
// No-op if this element has no parent.
func (e *Element) RemoveFromParent() {
	if e.Parent == nil {
		return
	}
	e.Parent.RemoveChild(e)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Element) Children() []*Element {
	return e.children
}

// NumChildren returns the number of children.
func (e *Element) NumChildren() int {
	return len(e.children)
}

// ChildAt returns the child at the given index.
func (e *Element) ChildAt(index int) *Element {
	return e.children[index]
}

// ChildList returns the children as a finalized ElementList in list order.
func (e *Element) ChildList() ElementList {
	return Elements(e.children...)
}

// --- Disposal ---

// Dispose removes this element from its parent, marks it as disposed, and
// recursively disposes all descendants. Disposed elements are never written
// by timelines, bindings or loops.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.dispose()
}

func (e *Element) dispose() {
	e.disposed = true
	e.ID = 0
	for _, child := range e.children {
		child.Parent = nil
		child.dispose()
	}
	e.children = nil
	e.Parent = nil
	e.UserData = nil
}

// IsDisposed returns true if this element has been disposed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}

// live reports whether e can be animated.
func live(e *Element) bool {
	return e != nil && !e.disposed
}

// --- Dirty tracking ---

// MarkDirty flags the element for redraw by the rendering layer.
func (e *Element) MarkDirty() {
	e.dirty = true
}

// Dirty reports whether the element changed since the last ClearDirty.
func (e *Element) Dirty() bool {
	return e.dirty
}

// ClearDirty resets the dirty flag. Called by the rendering layer after drawing.
func (e *Element) ClearDirty() {
	e.dirty = false
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of el.
func isAncestor(candidate, el *Element) bool {
	for p := el; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// --- Element lists ---

// ElementList is a finalized, ordered list of element handles. Order is the
// list order supplied by the rendering layer and drives stagger offsets.
type ElementList struct {
	elems []*Element
}

// Elements builds a finalized list from the given handles, dropping nils.
func Elements(elems ...*Element) ElementList {
	var b ElementListBuilder
	for _, e := range elems {
		b.Add(e)
	}
	return b.Finalize()
}

// Len returns the number of handles in the list.
func (l ElementList) Len() int {
	return len(l.elems)
}

// At returns the handle at index i.
func (l ElementList) At(i int) *Element {
	return l.elems[i]
}

// All returns the handles. The returned slice MUST NOT be mutated by the caller.
func (l ElementList) All() []*Element {
	return l.elems
}

// ElementListBuilder collects handles while the rendering layer mounts
// children, then hands the finished list over in one step.
type ElementListBuilder struct {
	elems     []*Element
	finalized bool
}

// Add appends e. Nil handles (children that did not render) are dropped.
// Panics if called after Finalize.
func (b *ElementListBuilder) Add(e *Element) *ElementListBuilder {
	if b.finalized {
		panic("scrollfx: add to finalized element list")
	}
	if e != nil {
		b.elems = append(b.elems, e)
	}
	return b
}

// Finalize returns the completed list. The builder cannot be reused.
func (b *ElementListBuilder) Finalize() ElementList {
	b.finalized = true
	out := make([]*Element, len(b.elems))
	copy(out, b.elems)
	return ElementList{elems: out}
}
