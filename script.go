package scrollfx

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a scroll script.
type scriptStep struct {
	Action   string  `json:"action"`
	Y        float64 `json:"y,omitempty"`
	From     float64 `json:"from,omitempty"`
	To       float64 `json:"to,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Duration float32 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	Surface  string  `json:"surface,omitempty"`
}

// scrollScript is the top-level JSON structure for a scroll script.
type scrollScript struct {
	Steps []scriptStep `json:"steps"`
}

var knownActions = map[string]bool{
	"scroll": true, "scrollBy": true, "scrollTo": true, "sweep": true,
	"resize": true, "wait": true, "unmount": true,
}

// ScriptRunner replays a scripted sequence of scroll, resize and unmount
// actions across frames. Attach to a Runtime via SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScrollScript parses a JSON scroll script and returns a ScriptRunner
// ready to be attached to a Runtime via SetScriptRunner.
//
//	{"steps": [
//	  {"action": "resize", "width": 1280, "height": 800},
//	  {"action": "sweep", "from": 0, "to": 1200, "frames": 30},
//	  {"action": "wait", "frames": 10},
//	  {"action": "unmount", "surface": "about"}
//	]}
func LoadScrollScript(jsonData []byte) (*ScriptRunner, error) {
	var script scrollScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse scroll script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse scroll script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse scroll script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the runtime. The runner's step
// method is called at the start of each Frame, before injected events.
func (rt *Runtime) SetScriptRunner(runner *ScriptRunner) {
	rt.script = runner
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Runtime.Frame.
func (r *ScriptRunner) step(rt *Runtime) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(rt.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "scroll":
		rt.InjectScroll(st.Y)
	case "scrollBy":
		rt.InjectScrollBy(st.Y)
	case "scrollTo":
		rt.ScrollTo(st.Y, st.Duration)
	case "sweep":
		rt.InjectScrollSweep(st.From, st.To, st.Frames)
	case "resize":
		rt.InjectResize(st.Width, st.Height)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "unmount":
		for i := len(rt.active) - 1; i >= 0; i-- {
			if s := rt.active[i]; st.Surface == "" || s.name == st.Surface {
				s.Unmount()
			}
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(rt.injectQueue) == 0 {
		r.done = true
	}
}
