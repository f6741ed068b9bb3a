package presets

import (
	"errors"
	"io/fs"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/phanxgames/scrollfx"
)

func newRuntime() *scrollfx.Runtime {
	return scrollfx.NewRuntime(scrollfx.RuntimeConfig{
		Width:  1280,
		Height: 800,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
}

func TestNames(t *testing.T) {
	want := []string{
		"about", "art", "director-detail", "directors", "future",
		"hero", "hero-two", "navbar", "product", "showcase",
	}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLoadEveryPreset(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p, err := Load(name)
			if err != nil {
				t.Fatal(err)
			}
			if p.Manifest.Name != name {
				t.Errorf("manifest name = %q", p.Manifest.Name)
			}
			lookup := scrollfx.LookupTree(p.Root)
			check := func(target string) {
				target, _ = strings.CutSuffix(target, "/*")
				if lookup(target) == nil {
					t.Errorf("target %q not in layout", target)
				}
			}
			for _, tl := range p.Manifest.Timelines {
				for _, g := range tl.Groups {
					for _, target := range g.Targets {
						check(target)
					}
				}
				if tl.Trigger != nil && tl.Trigger.Anchor != "" {
					check(tl.Trigger.Anchor)
				}
			}
			for _, b := range p.Manifest.Bindings {
				check(b.Anchor)
				for _, target := range b.Targets {
					check(target)
				}
			}
			for _, l := range p.Manifest.Loops {
				for _, target := range l.Targets {
					check(target)
				}
			}
		})
	}
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("nope")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestLoadReturnsFreshTree(t *testing.T) {
	a := MustLoad("hero")
	b := MustLoad("hero")
	if a.Root == b.Root {
		t.Fatal("Load returned a shared tree")
	}
	if a.Height() != 1600 {
		t.Errorf("Height = %v, want 1600", a.Height())
	}
}

func TestHeroEntrance(t *testing.T) {
	rt := newRuntime()
	p := MustLoad("hero")
	s := rt.NewSurface("hero")
	s.Mount(p.Setup())

	// 1 timeline, 2 parallax bindings, 5 particle loops.
	if got := s.Context().Len(); got != 8 {
		t.Errorf("registrations = %d, want 8", got)
	}
	lookup := scrollfx.LookupTree(p.Root)
	badge := lookup("badge")
	if badge.Alpha != 0 || badge.Y != 30 {
		t.Errorf("badge before play = (alpha %v, y %v), want (0, 30)", badge.Alpha, badge.Y)
	}

	for range 6 * 60 {
		rt.Frame(1.0 / 60)
	}
	for _, name := range []string{"badge", "title-line-1", "button-secondary"} {
		e := lookup(name)
		if e.Alpha != 1 || e.Y != 0 {
			t.Errorf("%s after entrance = (alpha %v, y %v), want (1, 0)", name, e.Alpha, e.Y)
		}
	}

	s.Unmount()
	if badge.Alpha != 1 || badge.Y != 0 {
		t.Errorf("badge after revert = (alpha %v, y %v)", badge.Alpha, badge.Y)
	}
}

func TestHeroTwoTracksScroll(t *testing.T) {
	rt := newRuntime()
	p := MustLoad("hero-two")
	rt.NewSurface("hero-two").Mount(p.Setup())

	bg := scrollfx.LookupTree(p.Root)("background")
	rt.Scroll(400)
	rt.Frame(1.0 / 60)
	if math.Abs(bg.Y-200) > 1e-9 {
		t.Errorf("background y = %v, want 200", bg.Y)
	}
	if math.Abs(bg.Alpha-0.65) > 1e-9 {
		t.Errorf("background alpha = %v, want 0.65", bg.Alpha)
	}
}

func TestAboutPlaysOnEnter(t *testing.T) {
	rt := newRuntime()
	p := MustLoad("about")
	rt.NewSurface("about").Mount(p.Setup())
	header := scrollfx.LookupTree(p.Root)("header")

	rt.Frame(1.0 / 60)
	if header.Alpha != 0 {
		t.Fatalf("header alpha = %v before the section enters", header.Alpha)
	}
	// Section top 800 meets 80% of an 800px viewport at scroll 160.
	rt.Scroll(200)
	for range 5 * 60 {
		rt.Frame(1.0 / 60)
	}
	if header.Alpha != 1 {
		t.Errorf("header alpha = %v after entering, want 1", header.Alpha)
	}
}

func TestDirectorDetailEntrance(t *testing.T) {
	rt := newRuntime()
	p := MustLoad("director-detail")
	rt.NewSurface("director-detail").Mount(p.Setup())
	lookup := scrollfx.LookupTree(p.Root)
	portrait, note := lookup("portrait"), lookup("note")

	if portrait.Alpha != 0 || portrait.ScaleX != 0.9 || portrait.Y != 50 {
		t.Errorf("portrait before play = (alpha %v, scale %v, y %v)", portrait.Alpha, portrait.ScaleX, portrait.Y)
	}
	for range 12 {
		rt.Frame(1.0 / 60)
	}
	if note.Alpha != 0 {
		t.Errorf("note alpha = %v during its delay, want 0", note.Alpha)
	}
	for range 2 * 60 {
		rt.Frame(1.0 / 60)
	}
	if portrait.Alpha != 1 || portrait.ScaleX != 1 || portrait.Y != 0 {
		t.Errorf("portrait after entrance = (alpha %v, scale %v, y %v)", portrait.Alpha, portrait.ScaleX, portrait.Y)
	}
	if note.Alpha != 1 || note.Y != 0 {
		t.Errorf("note after entrance = (alpha %v, y %v)", note.Alpha, note.Y)
	}
}

func TestNavbarScrolledState(t *testing.T) {
	rt := newRuntime()
	p := MustLoad("navbar")
	rt.NewSurface("navbar").Mount(p.Setup())
	backdrop := scrollfx.LookupTree(p.Root)("nav-backdrop")

	rt.Frame(1.0 / 60)
	if backdrop.Alpha != 0 {
		t.Fatalf("backdrop alpha = %v at the top, want 0", backdrop.Alpha)
	}
	rt.Scroll(120)
	for range 60 {
		rt.Frame(1.0 / 60)
	}
	if backdrop.Alpha != 1 {
		t.Errorf("backdrop alpha = %v after scrolling, want 1", backdrop.Alpha)
	}
	rt.Scroll(0)
	for range 60 {
		rt.Frame(1.0 / 60)
	}
	if backdrop.Alpha != 0 {
		t.Errorf("backdrop alpha = %v back at the top, want 0", backdrop.Alpha)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff000080")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 1 || c.G != 0 || math.Abs(c.A-128.0/255) > 1e-9 {
		t.Errorf("ParseColor = %+v", c)
	}
	for _, bad := range []string{"ff0000", "#ff00", "#gg0000"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}
