package scrollfx

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML description of everything one surface registers on
// mount: entrance timelines (optionally scroll-triggered), scrub bindings and
// ambient loops. Targets are element names; "name/*" expands to the
// children of name in list order.
type Manifest struct {
	Name      string         `yaml:"name"`
	Timelines []TimelineSpec `yaml:"timelines,omitempty"`
	Bindings  []BindingSpec  `yaml:"bindings,omitempty"`
	Loops     []LoopSpec     `yaml:"loops,omitempty"`
}

// TimelineSpec is a timeline of keyframe groups. Without a trigger it plays
// on mount.
type TimelineSpec struct {
	Delay   float64      `yaml:"delay,omitempty"`
	Trigger *TriggerSpec `yaml:"trigger,omitempty"`
	Groups  []GroupSpec  `yaml:"groups"`
}

// TriggerSpec binds an effect to a scroll region of Anchor. Setting Scrub
// (even to 0) makes the binding ContinuousScrub; otherwise ToggleActions
// picks the replay policy.
type TriggerSpec struct {
	Anchor        string   `yaml:"anchor,omitempty"`
	Start         string   `yaml:"start,omitempty"`
	End           string   `yaml:"end,omitempty"`
	ToggleActions string   `yaml:"toggleActions,omitempty"`
	Scrub         *float64 `yaml:"scrub,omitempty"`
	Smoothing     string   `yaml:"smoothing,omitempty"`
}

// GroupSpec is one keyframe group. Durations, delays and staggers are in
// seconds; a zero duration uses DefaultGroupDuration. A property only in
// From animates back to its rest value.
type GroupSpec struct {
	Targets  []string           `yaml:"targets"`
	From     map[string]float64 `yaml:"from,omitempty"`
	To       map[string]float64 `yaml:"to,omitempty"`
	Duration float64            `yaml:"duration,omitempty"`
	Delay    float64            `yaml:"delay,omitempty"`
	Ease     string             `yaml:"ease,omitempty"`
	Stagger  float64            `yaml:"stagger,omitempty"`
	Position string             `yaml:"position,omitempty"`
}

// BindingSpec is a scrub shorthand: targets are mapped from From to To
// across the trigger region.
type BindingSpec struct {
	TriggerSpec `yaml:",inline"`
	Targets     []string           `yaml:"targets"`
	From        map[string]float64 `yaml:"from,omitempty"`
	To          map[string]float64 `yaml:"to"`
	Ease        string             `yaml:"ease,omitempty"`
}

// LoopSpec starts one ambient loop per target; the target's index in the
// expanded list is its stagger index. Ranges are [min, max].
type LoopSpec struct {
	Targets  []string  `yaml:"targets"`
	X        []float64 `yaml:"x,omitempty"`
	Y        []float64 `yaml:"y,omitempty"`
	Rotation []float64 `yaml:"rotation,omitempty"`
	Duration []float64 `yaml:"duration,omitempty"`
	Yoyo     bool      `yaml:"yoyo,omitempty"`
	Ease     string    `yaml:"ease,omitempty"`
}

// DefaultGroupDuration is used by manifest groups that give no duration.
const DefaultGroupDuration = 500 * time.Millisecond

// ElementLookup resolves an element name to the mounted handle, or nil if
// the element did not render.
type ElementLookup func(name string) *Element

// LookupTree returns an ElementLookup that finds elements by name anywhere
// under root (root included). The first match in depth-first order wins.
func LookupTree(root *Element) ElementLookup {
	index := make(map[string]*Element)
	var walk func(e *Element)
	walk = func(e *Element) {
		if _, ok := index[e.Name]; !ok {
			index[e.Name] = e
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return func(name string) *Element { return index[name] }
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest reads and parses a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteManifest writes m to a YAML file.
func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every entry names its targets and that every ease,
// property, position and trigger string parses. Element names are not
// resolved here; missing elements are skipped at mount.
func (m *Manifest) Validate() error {
	var errs []error
	for i, tl := range m.Timelines {
		where := fmt.Sprintf("timelines[%d]", i)
		if len(tl.Groups) == 0 {
			errs = append(errs, fmt.Errorf("%s: no groups", where))
		}
		if tl.Trigger != nil {
			errs = append(errs, tl.Trigger.validate(where+".trigger"))
		}
		for j, g := range tl.Groups {
			gw := fmt.Sprintf("%s.groups[%d]", where, j)
			if len(g.Targets) == 0 {
				errs = append(errs, fmt.Errorf("%s: no targets", gw))
			}
			if len(g.From) == 0 && len(g.To) == 0 {
				errs = append(errs, fmt.Errorf("%s: no properties", gw))
			}
			if _, err := g.keyframes(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", gw, err))
			}
			if _, err := ParseOffset(g.Position); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", gw, err))
			}
		}
	}
	for i, b := range m.Bindings {
		where := fmt.Sprintf("bindings[%d]", i)
		if b.Anchor == "" {
			errs = append(errs, fmt.Errorf("%s: no anchor", where))
		}
		if len(b.Targets) == 0 {
			errs = append(errs, fmt.Errorf("%s: no targets", where))
		}
		if len(b.To) == 0 {
			errs = append(errs, fmt.Errorf("%s: no properties", where))
		}
		errs = append(errs, b.TriggerSpec.validate(where))
		if _, err := b.group().keyframes(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}
	for i, l := range m.Loops {
		where := fmt.Sprintf("loops[%d]", i)
		if len(l.Targets) == 0 {
			errs = append(errs, fmt.Errorf("%s: no targets", where))
		}
		for name, r := range map[string][]float64{"x": l.X, "y": l.Y, "rotation": l.Rotation, "duration": l.Duration} {
			if len(r) != 0 && len(r) != 2 {
				errs = append(errs, fmt.Errorf("%s.%s: want [min, max]", where, name))
			}
		}
		if _, err := ParseEase(l.Ease); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}
	return errors.Join(errs...)
}

func (t *TriggerSpec) validate(where string) error {
	for _, s := range []string{t.Start, t.End} {
		if s == "" {
			continue
		}
		if _, err := ParseTrigger(s); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	}
	if t.ToggleActions != "" {
		if _, err := ParseToggleActions(t.ToggleActions); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	}
	switch t.Smoothing {
	case "", "exponential", "spring":
	default:
		return fmt.Errorf("%s: unknown smoothing %q", where, t.Smoothing)
	}
	return nil
}

// binding converts the trigger to a ScrollBinding for anchor. Strings were
// checked by Validate.
func (t *TriggerSpec) binding(anchor *Element) ScrollBinding {
	b := ScrollBinding{Anchor: anchor}
	if t.Start != "" {
		tr, _ := ParseTrigger(t.Start)
		b.Start = &tr
	}
	if t.End != "" {
		tr, _ := ParseTrigger(t.End)
		b.End = &tr
	}
	switch {
	case t.Scrub != nil:
		b.Policy = ContinuousScrub
		b.Scrub = *t.Scrub
	case t.ToggleActions != "":
		b.Policy, _ = ParseToggleActions(t.ToggleActions)
	}
	if t.Smoothing == "spring" {
		b.Smoothing = SmoothSpring
	}
	return b
}

// keyframes converts the group's property maps to keyframes in property
// order so output does not depend on map iteration.
func (g GroupSpec) keyframes() ([]Keyframe, error) {
	fn, err := ParseEase(g.Ease)
	if err != nil {
		return nil, err
	}
	d := secondsToDuration(g.Duration)
	if d <= 0 {
		d = DefaultGroupDuration
	}
	delay := secondsToDuration(g.Delay)

	names := make(map[Property]string)
	for _, m := range []map[string]float64{g.From, g.To} {
		for name := range m {
			p, err := ParseProperty(name)
			if err != nil {
				return nil, err
			}
			names[p] = name
		}
	}
	props := make([]Property, 0, len(names))
	for p := range names {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i] < props[j] })

	kfs := make([]Keyframe, 0, len(props))
	for _, p := range props {
		from, hasFrom := lookupProp(g.From, p)
		to, hasTo := lookupProp(g.To, p)
		var kf Keyframe
		switch {
		case hasFrom && hasTo:
			kf = FromTo(p, from, to, d, fn)
		case hasTo:
			kf = To(p, to, d, fn)
		default:
			kf = From(p, from, d, fn)
		}
		kf.Delay = delay
		kfs = append(kfs, kf)
	}
	return kfs, nil
}

// lookupProp finds p in m under any of its accepted spellings.
func lookupProp(m map[string]float64, p Property) (float64, bool) {
	for name, v := range m {
		if q, err := ParseProperty(name); err == nil && q == p {
			return v, true
		}
	}
	return 0, false
}

func (b BindingSpec) group() GroupSpec {
	e := b.Ease
	if e == "" {
		e = "none"
	}
	return GroupSpec{Targets: b.Targets, From: b.From, To: b.To, Duration: 1, Ease: e}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func rangeOf(v []float64) Range {
	if len(v) != 2 {
		return Range{}
	}
	return Range{Min: v[0], Max: v[1]}
}

// resolve expands target names into a finalized list. Names that do not
// resolve are dropped.
func resolve(lookup ElementLookup, names []string) ElementList {
	var b ElementListBuilder
	for _, name := range names {
		if parent, ok := strings.CutSuffix(name, "/*"); ok {
			if e := lookup(parent); live(e) {
				for _, c := range e.children {
					b.Add(c)
				}
			}
			continue
		}
		b.Add(lookup(name))
	}
	return b.Finalize()
}

// Setup returns a mount function that registers the manifest's effects
// against the elements lookup resolves. Entries whose elements are missing
// are skipped.
func (m *Manifest) Setup(lookup ElementLookup) func(*Context) {
	return func(c *Context) {
		for _, ts := range m.Timelines {
			var groups []KeyframeGroup
			var first *Element
			for _, gs := range ts.Groups {
				targets := resolve(lookup, gs.Targets)
				if first == nil && targets.Len() > 0 {
					first = targets.At(0)
				}
				kfs, _ := gs.keyframes()
				pos, _ := ParseOffset(gs.Position)
				groups = append(groups, KeyframeGroup{
					Targets:   targets,
					Keyframes: kfs,
					Stagger:   secondsToDuration(gs.Stagger),
					Position:  pos,
				})
			}
			tl := Build(groups...).WithDelay(secondsToDuration(ts.Delay))
			if tl.Empty() {
				continue
			}
			if ts.Trigger == nil {
				c.AddTimeline(tl)
				continue
			}
			anchor := first
			if ts.Trigger.Anchor != "" {
				anchor = lookup(ts.Trigger.Anchor)
			}
			c.Bind(ts.Trigger.binding(anchor), TimelineEffect(tl))
		}

		for _, bs := range m.Bindings {
			g := bs.group()
			kfs, _ := g.keyframes()
			tl := Build(KeyframeGroup{Targets: resolve(lookup, g.Targets), Keyframes: kfs})
			if tl.Empty() {
				continue
			}
			b := bs.TriggerSpec.binding(lookup(bs.Anchor))
			b.Policy = ContinuousScrub
			c.Bind(b, TimelineEffect(tl))
		}

		for _, ls := range m.Loops {
			fn, _ := ParseEase(ls.Ease)
			if ls.Ease == "" {
				fn = nil
			}
			for i, e := range resolve(lookup, ls.Targets).All() {
				c.AddLoop(AmbientLoopSpec{
					Element:      e,
					X:            AxisRange{Range: rangeOf(ls.X), Yoyo: ls.Yoyo},
					Y:            AxisRange{Range: rangeOf(ls.Y), Yoyo: ls.Yoyo},
					Rotation:     AxisRange{Range: rangeOf(ls.Rotation), Yoyo: ls.Yoyo},
					Duration:     rangeOf(ls.Duration),
					StaggerIndex: i,
					Ease:         fn,
				})
			}
		}
	}
}
