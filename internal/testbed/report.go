package testbed

import (
	"github.com/vovakirdan/stutterlab/internal/storage"
)

// Report summarizes the run so far for storage.
func (d *Driver) Report(preset string) storage.Run {
	run := storage.Run{
		Preset:      preset,
		TargetRate:  d.cfg.TargetRate(),
		Frames:      d.recorder.Frames(),
		WallSeconds: d.recorder.WallTime(),
	}

	if d.update != nil {
		st := d.update.Stats()
		run.UpdateStalls = st.Stalls
		run.StalledMillis += st.Stalled.Milliseconds()
	}
	if d.render != nil {
		st := d.render.Stats()
		run.RenderStalls = st.Stalls
		run.StalledMillis += st.Stalled.Milliseconds()
	}

	for _, s := range d.recorder.Stats() {
		run.Results = append(run.Results, storage.RunResult{
			Strategy: s.Label,
			SimTime:  s.SimTime,
			Drift:    s.Drift,
			MaxJump:  s.MaxJump,
		})
	}
	return run
}
