package impl

import (
	"sync"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"go.uber.org/zap"
)

// interface check: interf.Reporter
var _ interf.Reporter = ReporterFunc(nil)
var _ interf.Reporter = (*ProgressRecorder)(nil)

// ReporterFunc adapts a function to interf.Reporter.
type ReporterFunc func(current, total int)

// Progress calls f. A nil ReporterFunc does nothing.
func (f ReporterFunc) Progress(current, total int) {
	if f != nil {
		f(current, total)
	}
}

// NopReporter returns a reporter that ignores all progress.
func NopReporter() interf.Reporter {
	return ReporterFunc(nil)
}

// LogReporter returns a reporter that writes every progress step as debug message.
func LogReporter(logger *zap.Logger, op, path string) interf.Reporter {
	return ReporterFunc(func(current, total int) {
		logger.Debug("progress",
			zap.String("op", op),
			zap.String("path", path),
			zap.Int("current", current),
			zap.Int("total", total),
		)
	})
}

// MultiReporter forwards progress to all reporters. nil elements are skipped.
func MultiReporter(reporters ...interf.Reporter) interf.Reporter {
	return ReporterFunc(func(current, total int) {
		for _, r := range reporters {
			if r != nil {
				r.Progress(current, total)
			}
		}
	})
}

// ProgressRecorder remembers every reported step. It is safe for concurrent use.
type ProgressRecorder struct {
	mux   sync.Mutex
	steps [][2]int
}

// Progress records the step.
func (r *ProgressRecorder) Progress(current, total int) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.steps = append(r.steps, [2]int{current, total})
}

// Steps returns a copy of all recorded steps as [current, total] pairs.
func (r *ProgressRecorder) Steps() [][2]int {
	r.mux.Lock()
	defer r.mux.Unlock()
	ret := make([][2]int, len(r.steps))
	copy(ret, r.steps)
	return ret
}

// Currents returns only the current values of all recorded steps.
func (r *ProgressRecorder) Currents() []int {
	steps := r.Steps()
	ret := make([]int, len(steps))
	for i, s := range steps {
		ret[i] = s[0]
	}
	return ret
}

//--------  Helper  --------------------------------------------------------------------------------------------------//

// reporterOrNop replaces nil with NopReporter().
func reporterOrNop(r interf.Reporter) interf.Reporter {
	if r == nil {
		return NopReporter()
	}
	return r
}
