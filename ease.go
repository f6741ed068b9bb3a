package scrollfx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tanema/gween/ease"
)

// EaseFunc maps elapsed time to a value: f(t, begin, change, duration).
// It is gween's easing signature, so every function in gween/ease can be used
// directly.
type EaseFunc = ease.TweenFunc

// DefaultEase is applied to keyframes that do not name an ease.
var DefaultEase EaseFunc = ease.OutQuad

// EaseAt evaluates fn at normalized time t in [0, 1]. The result lies in
// [0, 1] except for overshooting eases (back, elastic).
func EaseAt(fn EaseFunc, t float64) float64 {
	if fn == nil {
		fn = ease.Linear
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// easeFamilies maps a family name to its in, out and inOut variants.
var easeFamilies = map[string][3]EaseFunc{
	"none":    {ease.Linear, ease.Linear, ease.Linear},
	"linear":  {ease.Linear, ease.Linear, ease.Linear},
	"power0":  {ease.Linear, ease.Linear, ease.Linear},
	"power1":  {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"quad":    {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"power2":  {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"cubic":   {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"power3":  {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"quart":   {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"power4":  {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"quint":   {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"sine":    {ease.InSine, ease.OutSine, ease.InOutSine},
	"expo":    {ease.InExpo, ease.OutExpo, ease.InOutExpo},
	"circ":    {ease.InCirc, ease.OutCirc, ease.InOutCirc},
	"back":    {ease.InBack, ease.OutBack, ease.InOutBack},
	"elastic": {ease.InElastic, ease.OutElastic, ease.InOutElastic},
	"bounce":  {ease.InBounce, ease.OutBounce, ease.InOutBounce},
}

// ParseEase resolves an ease name of the form "family.variant" or
// "family.variant(param)", for example "power3.out", "sine.inOut",
// "back.out(1.7)" or "none". A bare family defaults to the out variant.
// The only family that takes a parameter is back (its overshoot).
func ParseEase(name string) (EaseFunc, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return DefaultEase, nil
	}

	var param string
	hasParam := false
	if open := strings.IndexByte(s, '('); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return nil, fmt.Errorf("parse ease %q: unbalanced parenthesis", name)
		}
		param = s[open+1 : len(s)-1]
		s = s[:open]
		hasParam = true
	}

	family, variant, _ := strings.Cut(strings.ToLower(s), ".")
	fns, ok := easeFamilies[family]
	if !ok {
		return nil, fmt.Errorf("parse ease %q: unknown family %q", name, family)
	}

	idx := 1
	switch variant {
	case "in":
		idx = 0
	case "", "out":
		idx = 1
	case "inout":
		idx = 2
	default:
		return nil, fmt.Errorf("parse ease %q: unknown variant %q", name, variant)
	}

	if !hasParam {
		return fns[idx], nil
	}
	if family != "back" {
		return nil, fmt.Errorf("parse ease %q: %s takes no parameter", name, family)
	}
	overshoot, err := strconv.ParseFloat(strings.TrimSpace(param), 32)
	if err != nil {
		return nil, fmt.Errorf("parse ease %q: %w", name, err)
	}
	return backEase(idx, float32(overshoot)), nil
}

// MustParseEase is like ParseEase but panics on error. Intended for
// package-level ease tables.
func MustParseEase(name string) EaseFunc {
	fn, err := ParseEase(name)
	if err != nil {
		panic("scrollfx: " + err.Error())
	}
	return fn
}

// backEase returns a back ease with a custom overshoot s.
// variant: 0 = in, 1 = out, 2 = inOut.
func backEase(variant int, s float32) EaseFunc {
	switch variant {
	case 0:
		return func(t, b, c, d float32) float32 {
			t /= d
			return c*t*t*((s+1)*t-s) + b
		}
	case 2:
		return func(t, b, c, d float32) float32 {
			s2 := s * 1.525
			t = t / d * 2
			if t < 1 {
				return c/2*(t*t*((s2+1)*t-s2)) + b
			}
			t -= 2
			return c/2*(t*t*((s2+1)*t+s2)+2) + b
		}
	default:
		return func(t, b, c, d float32) float32 {
			t = t/d - 1
			return c*(t*t*((s+1)*t+s)+1) + b
		}
	}
}
