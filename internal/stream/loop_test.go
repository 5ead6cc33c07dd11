package stream

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/camera"
	"github.com/presensia/presensia-backend/internal/facematch"
	"github.com/presensia/presensia-backend/internal/model"
)

// scriptCamera serves a fixed list of frames, then reports a closed stream.
type scriptCamera struct {
	frames   []image.Image
	releases int
}

func (c *scriptCamera) ReadFrame() (image.Image, error) {
	if len(c.frames) == 0 {
		return nil, camera.ErrClosed
	}
	frame := c.frames[0]
	c.frames = c.frames[1:]
	return frame, nil
}

func (c *scriptCamera) Release() { c.releases++ }

type fakeSource struct {
	fn func(call int) (*model.Schedule, bool, error)

	calls int
}

func (s *fakeSource) Snapshot(ctx context.Context, id uuid.UUID) (*model.Schedule, bool, error) {
	s.calls++
	return s.fn(s.calls)
}

type fakeMatcher struct {
	matches []facematch.Match
	err     error

	calls int
}

func (m *fakeMatcher) Find(ctx context.Context, frameJPEG []byte) ([]facematch.Match, error) {
	m.calls++
	return m.matches, m.err
}

type fakeLedger struct {
	outcome model.AttendanceOutcome
	err     error

	calls int
	names []string
}

func (l *fakeLedger) RecordPresence(ctx context.Context, name string, role model.Role, scheduleID uuid.UUID, detectedAt time.Time) (model.AttendanceOutcome, error) {
	l.calls++
	l.names = append(l.names, name)
	return l.outcome, l.err
}

// collectSink counts written frames and can simulate a viewer disconnect.
type collectSink struct {
	written   int
	failAfter int // fail once written reaches this count; 0 means never
}

func (s *collectSink) WriteFrame(frameJPEG []byte) error {
	if s.failAfter > 0 && s.written >= s.failAfter {
		return errors.New("broken pipe")
	}
	s.written++
	return nil
}

func flatFrame() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	return img
}

func texturedFrame() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{A: 255}
			if (x+y)%2 == 0 {
				c.R, c.G, c.B = 255, 255, 255
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func activeSchedule(now time.Time) *model.Schedule {
	return &model.Schedule{
		ID:        uuid.New(),
		Subject:   "Computer Networks",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
		Status:    model.ScheduleStatusActive,
	}
}

func testLoop(t *testing.T, cam camera.Camera, src ScheduleSource, m Matcher, l Ledger, threshold float64, clock func() time.Time) *Loop {
	t.Helper()
	return NewLoop(LoopConfig{
		ScheduleID:          uuid.New(),
		Camera:              cam,
		Matcher:             m,
		Schedules:           src,
		Ledger:              l,
		RecognitionInterval: time.Second,
		LivenessThreshold:   threshold,
		Clock:               clock,
		Log:                 zerolog.Nop(),
	})
}

func TestLoopTerminatesWhenScheduleDeleted(t *testing.T) {
	cam := &scriptCamera{frames: []image.Image{flatFrame(), flatFrame(), flatFrame()}}
	src := &fakeSource{fn: func(int) (*model.Schedule, bool, error) { return nil, false, nil }}
	matcher := &fakeMatcher{}
	sink := &collectSink{}

	loop := testLoop(t, cam, src, matcher, &fakeLedger{}, 0, nil)
	if err := loop.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if src.calls != 1 {
		t.Errorf("schedule lookups = %d, want 1", src.calls)
	}
	if cam.releases != 1 {
		t.Errorf("camera released %d times, want exactly 1", cam.releases)
	}
	if sink.written != 0 {
		t.Errorf("frames written = %d, want 0", sink.written)
	}
}

func TestLoopSkipsRecognitionOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	sched := &model.Schedule{
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
		Status:    model.ScheduleStatusActive,
	}

	cam := &scriptCamera{frames: []image.Image{flatFrame(), flatFrame(), flatFrame()}}
	src := &fakeSource{fn: func(int) (*model.Schedule, bool, error) { return sched, true, nil }}
	matcher := &fakeMatcher{}
	sink := &collectSink{}

	loop := testLoop(t, cam, src, matcher, &fakeLedger{}, 0, func() time.Time { return now })
	if err := loop.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if matcher.calls != 0 {
		t.Errorf("matcher calls = %d, want 0 while window not started", matcher.calls)
	}
	if sink.written != 3 {
		t.Errorf("frames written = %d, want 3", sink.written)
	}
	if cam.releases != 1 {
		t.Errorf("camera released %d times, want exactly 1", cam.releases)
	}
}

func TestLoopRecordsAttendance(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	sched := activeSchedule(now)

	cam := &scriptCamera{frames: []image.Image{texturedFrame()}}
	src := &fakeSource{fn: func(int) (*model.Schedule, bool, error) { return sched, true, nil }}
	matcher := &fakeMatcher{matches: []facematch.Match{{
		Name: "Budi Santoso",
		Role: model.RoleStudent,
		Box:  facematch.Box{X: 8, Y: 8, W: 16, H: 16},
	}}}
	ledger := &fakeLedger{outcome: model.OutcomeRecorded}
	sink := &collectSink{}

	loop := testLoop(t, cam, src, matcher, ledger, 1e-6, func() time.Time { return now })
	if err := loop.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if matcher.calls != 1 {
		t.Fatalf("matcher calls = %d, want 1", matcher.calls)
	}
	if ledger.calls != 1 {
		t.Fatalf("ledger calls = %d, want 1", ledger.calls)
	}
	if ledger.names[0] != "Budi Santoso" {
		t.Errorf("recorded name = %q, want %q", ledger.names[0], "Budi Santoso")
	}
	if sink.written != 1 {
		t.Errorf("frames written = %d, want 1", sink.written)
	}
}

func TestLoopThrottlesMatcher(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	sched := activeSchedule(now)

	cam := &scriptCamera{frames: []image.Image{flatFrame(), flatFrame(), flatFrame()}}
	src := &fakeSource{fn: func(int) (*model.Schedule, bool, error) { return sched, true, nil }}
	matcher := &fakeMatcher{}
	sink := &collectSink{}

	// Frozen clock: after the first firing no interval ever elapses.
	loop := testLoop(t, cam, src, matcher, &fakeLedger{}, 0, func() time.Time { return now })
	if err := loop.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if matcher.calls != 1 {
		t.Errorf("matcher calls = %d, want 1 under a frozen clock", matcher.calls)
	}
	if sink.written != 3 {
		t.Errorf("frames written = %d, want 3", sink.written)
	}
}

func TestLoopRejectsSpoof(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	sched := activeSchedule(now)

	// A flat region has near-zero Laplacian variance and must fail the
	// default liveness threshold.
	cam := &scriptCamera{frames: []image.Image{flatFrame()}}
	src := &fakeSource{fn: func(int) (*model.Schedule, bool, error) { return sched, true, nil }}
	matcher := &fakeMatcher{matches: []facematch.Match{{
		Name: "Budi Santoso",
		Role: model.RoleStudent,
		Box:  facematch.Box{X: 8, Y: 8, W: 16, H: 16},
	}}}
	ledger := &fakeLedger{outcome: model.OutcomeRecorded}
	sink := &collectSink{}

	loop := testLoop(t, cam, src, matcher, ledger, 0, func() time.Time { return now })
	if err := loop.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if matcher.calls != 1 {
		t.Fatalf("matcher calls = %d, want 1", matcher.calls)
	}
	if ledger.calls != 0 {
		t.Errorf("ledger calls = %d, want 0 for a rejected spoof", ledger.calls)
	}
}

func TestLoopMatcherFaultIsNoMatch(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	sched := activeSchedule(now)

	cam := &scriptCamera{frames: []image.Image{flatFrame(), flatFrame()}}
	src := &fakeSource{fn: func(int) (*model.Schedule, bool, error) { return sched, true, nil }}
	matcher := &fakeMatcher{err: errors.New("connection refused")}
	ledger := &fakeLedger{}
	sink := &collectSink{}

	loop := testLoop(t, cam, src, matcher, ledger, 0, func() time.Time { return now })
	if err := loop.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if ledger.calls != 0 {
		t.Errorf("ledger calls = %d, want 0 after matcher fault", ledger.calls)
	}
	if sink.written != 2 {
		t.Errorf("frames written = %d, want 2: faults must not kill the stream", sink.written)
	}
}

func TestLoopStopsWhenViewerDisconnects(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	sched := activeSchedule(now)

	cam := &scriptCamera{frames: []image.Image{flatFrame(), flatFrame(), flatFrame()}}
	src := &fakeSource{fn: func(int) (*model.Schedule, bool, error) { return sched, true, nil }}
	sink := &collectSink{failAfter: 1}

	loop := testLoop(t, cam, src, &fakeMatcher{}, &fakeLedger{}, 0, func() time.Time { return now })
	if err := loop.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if sink.written != 1 {
		t.Errorf("frames written = %d, want 1", sink.written)
	}
	if cam.releases != 1 {
		t.Errorf("camera released %d times, want exactly 1", cam.releases)
	}
}

func TestLoopSurvivesScheduleLookupFault(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	sched := activeSchedule(now)

	cam := &scriptCamera{frames: []image.Image{flatFrame(), flatFrame()}}
	src := &fakeSource{fn: func(call int) (*model.Schedule, bool, error) {
		if call == 1 {
			return nil, false, errors.New("connection reset")
		}
		return sched, true, nil
	}}
	sink := &collectSink{}

	loop := testLoop(t, cam, src, &fakeMatcher{}, &fakeLedger{}, 0, func() time.Time { return now })
	if err := loop.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	// Both frames reach the viewer: the faulted iteration emits the raw
	// frame, the next one recovers.
	if sink.written != 2 {
		t.Errorf("frames written = %d, want 2", sink.written)
	}
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cam := &scriptCamera{frames: []image.Image{flatFrame()}}
	src := &fakeSource{fn: func(int) (*model.Schedule, bool, error) { return nil, false, nil }}
	sink := &collectSink{}

	loop := testLoop(t, cam, src, &fakeMatcher{}, &fakeLedger{}, 0, nil)
	if err := loop.Run(ctx, sink); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if sink.written != 0 {
		t.Errorf("frames written = %d, want 0 with a canceled context", sink.written)
	}
	if cam.releases != 1 {
		t.Errorf("camera released %d times, want exactly 1", cam.releases)
	}
}
