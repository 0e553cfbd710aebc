package impl_test

import (
	"sync"
	"testing"

	impl "github.com/SchnorcherSepp/storagefs/defaultimpl"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReporterFunc(t *testing.T) {
	var got []int
	impl.ReporterFunc(func(current, total int) { got = append(got, current, total) }).Progress(1, 2)
	assert.Equal(t, []int{1, 2}, got)

	assert.NotPanics(t, func() { impl.ReporterFunc(nil).Progress(1, 2) })
	assert.NotPanics(t, func() { impl.NopReporter().Progress(1, 2) })
}

func TestMultiReporter(t *testing.T) {
	a, b := &impl.ProgressRecorder{}, &impl.ProgressRecorder{}
	m := impl.MultiReporter(a, nil, b)
	m.Progress(0, 2)
	m.Progress(2, 2)

	assert.Equal(t, [][2]int{{0, 2}, {2, 2}}, a.Steps())
	assert.Equal(t, a.Steps(), b.Steps())
	assert.Equal(t, []int{0, 2}, b.Currents())
}

func TestLogReporter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := impl.LogReporter(zap.New(core), "copy", "/a")
	r.Progress(1, 3)

	entries := logs.FilterMessage("progress").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "copy", fields["op"])
		assert.Equal(t, "/a", fields["path"])
		assert.Equal(t, int64(1), fields["current"])
		assert.Equal(t, int64(3), fields["total"])
	}
}

//--------------------------------------------------------------------------------------------------------------------//

func TestRace_ProgressRecorder(t *testing.T) {
	r := &impl.ProgressRecorder{}

	var wg sync.WaitGroup
	wg.Add(5)
	for n := 0; n < 5; n++ {
		go func() {
			//------------------------------
			for i := 0; i < 1000; i++ {
				r.Progress(i, 1000)
				_ = r.Currents()
			}
			//------------------------------
			wg.Done()
		}()
	}
	wg.Wait()

	assert.Len(t, r.Steps(), 5000)
}
