package scrollfx

import (
	"fmt"
	"math"
	"strings"
)

// Property identifies an animatable field of an Element.
type Property uint8

const (
	PropX        Property = iota // horizontal offset in pixels
	PropY                        // vertical offset in pixels
	PropScaleX                   // horizontal scale factor
	PropScaleY                   // vertical scale factor
	PropScale                    // both scale axes together
	PropRotation                 // rotation in degrees
	PropAlpha                    // opacity in [0, 1]
	PropYPercent                 // vertical offset as a percentage of the element height
	PropColorR                   // red tint component
	PropColorG                   // green tint component
	PropColorB                   // blue tint component
	PropColorA                   // alpha tint component
	numProperties
)

var propertyNames = [numProperties]string{
	PropX:        "x",
	PropY:        "y",
	PropScaleX:   "scaleX",
	PropScaleY:   "scaleY",
	PropScale:    "scale",
	PropRotation: "rotation",
	PropAlpha:    "opacity",
	PropYPercent: "yPercent",
	PropColorR:   "colorR",
	PropColorG:   "colorG",
	PropColorB:   "colorB",
	PropColorA:   "colorA",
}

// String returns the property name as used in manifests.
func (p Property) String() string {
	if p < numProperties {
		return propertyNames[p]
	}
	return fmt.Sprintf("Property(%d)", p)
}

// ParseProperty resolves a property name. Matching is case-insensitive and
// accepts "alpha" as a synonym for "opacity".
func ParseProperty(name string) (Property, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "alpha" {
		return PropAlpha, nil
	}
	for i, s := range propertyNames {
		if strings.ToLower(s) == n {
			return Property(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}

// Get reads the property from e. PropScale reports ScaleX. Rotation is
// reported in degrees.
func (p Property) Get(e *Element) float64 {
	switch p {
	case PropX:
		return e.X
	case PropY:
		return e.Y
	case PropScaleX, PropScale:
		return e.ScaleX
	case PropScaleY:
		return e.ScaleY
	case PropRotation:
		return e.Rotation * 180 / math.Pi
	case PropAlpha:
		return e.Alpha
	case PropYPercent:
		return e.YPercent
	case PropColorR:
		return e.Color.R
	case PropColorG:
		return e.Color.G
	case PropColorB:
		return e.Color.B
	case PropColorA:
		return e.Color.A
	}
	return 0
}

// Set writes v to the property of e and marks it dirty. Disposed elements are
// left untouched.
func (p Property) Set(e *Element, v float64) {
	if !live(e) {
		return
	}
	switch p {
	case PropX:
		e.X = v
	case PropY:
		e.Y = v
	case PropScaleX:
		e.ScaleX = v
	case PropScaleY:
		e.ScaleY = v
	case PropScale:
		e.ScaleX = v
		e.ScaleY = v
	case PropRotation:
		e.Rotation = v * math.Pi / 180
	case PropAlpha:
		e.Alpha = v
	case PropYPercent:
		e.YPercent = v
	case PropColorR:
		e.Color.R = v
	case PropColorG:
		e.Color.G = v
	case PropColorB:
		e.Color.B = v
	case PropColorA:
		e.Color.A = v
	}
	e.dirty = true
}

// propertySnapshot remembers a property value so it can be restored exactly.
// Scale snapshots both axes because PropScale writes both.
type propertySnapshot struct {
	elem   *Element
	prop   Property
	value  float64
	valueY float64
	// rawRotation keeps the radian value so a degrees round-trip never
	// changes the restored value.
	rawRotation float64
}

func takeSnapshot(e *Element, p Property) propertySnapshot {
	s := propertySnapshot{elem: e, prop: p, value: p.Get(e)}
	switch p {
	case PropScale:
		s.value = e.ScaleX
		s.valueY = e.ScaleY
	case PropRotation:
		s.rawRotation = e.Rotation
	}
	return s
}

func (s propertySnapshot) restore() {
	if !live(s.elem) {
		return
	}
	switch s.prop {
	case PropScale:
		s.elem.ScaleX = s.value
		s.elem.ScaleY = s.valueY
		s.elem.dirty = true
	case PropRotation:
		s.elem.Rotation = s.rawRotation
		s.elem.dirty = true
	default:
		s.prop.Set(s.elem, s.value)
	}
}
