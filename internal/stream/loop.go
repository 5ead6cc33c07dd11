package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/camera"
	"github.com/presensia/presensia-backend/internal/facematch"
	"github.com/presensia/presensia-backend/internal/metrics"
	"github.com/presensia/presensia-backend/internal/model"
	"github.com/presensia/presensia-backend/internal/vision"
)

// Matcher finds candidate identities in a JPEG-encoded frame, best first.
type Matcher interface {
	Find(ctx context.Context, frameJPEG []byte) ([]facematch.Match, error)
}

// ScheduleSource fetches the current schedule row. The loop re-fetches every
// iteration so a manual end is observed within one frame interval. ok=false
// means the schedule no longer exists and the loop must terminate.
type ScheduleSource interface {
	Snapshot(ctx context.Context, id uuid.UUID) (sched *model.Schedule, ok bool, err error)
}

// Ledger records presence at most once per (person, schedule). A non-nil
// error corresponds to OutcomeStorageFailure.
type Ledger interface {
	RecordPresence(ctx context.Context, name string, role model.Role, scheduleID uuid.UUID, detectedAt time.Time) (model.AttendanceOutcome, error)
}

// FrameSink consumes encoded frames. A write error means the viewer is gone,
// which is a normal termination trigger for the loop.
type FrameSink interface {
	WriteFrame(frameJPEG []byte) error
}

// LoopConfig wires one session loop.
type LoopConfig struct {
	ScheduleID uuid.UUID
	Camera     camera.Camera
	Matcher    Matcher
	Schedules  ScheduleSource
	Ledger     Ledger

	// RecognitionInterval defaults to one second, LivenessThreshold to the
	// vision package default, Clock to time.Now.
	RecognitionInterval time.Duration
	LivenessThreshold   float64
	Clock               func() time.Time

	Log zerolog.Logger
}

// Loop is the per-session orchestrator. One loop owns one camera and runs in
// a single goroutine: frame read, state evaluation, optional recognition,
// ledger write and frame emission happen strictly in order, so every emitted
// frame's overlay reflects the state evaluated in that same iteration.
type Loop struct {
	scheduleID uuid.UUID
	cam        camera.Camera
	matcher    Matcher
	schedules  ScheduleSource
	ledger     Ledger
	throttle   *Throttle
	threshold  float64
	now        func() time.Time
	log        zerolog.Logger
}

// NewLoop builds a loop from its configuration, applying defaults.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.RecognitionInterval <= 0 {
		cfg.RecognitionInterval = time.Second
	}
	if cfg.LivenessThreshold <= 0 {
		cfg.LivenessThreshold = vision.DefaultLivenessThreshold
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Loop{
		scheduleID: cfg.ScheduleID,
		cam:        cfg.Camera,
		matcher:    cfg.Matcher,
		schedules:  cfg.Schedules,
		ledger:     cfg.Ledger,
		throttle:   NewThrottle(cfg.RecognitionInterval, cfg.Clock),
		threshold:  cfg.LivenessThreshold,
		now:        cfg.Clock,
		log:        cfg.Log.With().Str("component", "frame_loop").Str("schedule_id", cfg.ScheduleID.String()).Logger(),
	}
}

// Run drives the loop until the camera ends, the schedule is deleted, the
// viewer disconnects, or ctx is canceled. The camera is released exactly
// once on every exit path. Run returns a non-nil error only for device
// faults; all other terminations are normal.
func (l *Loop) Run(ctx context.Context, sink FrameSink) error {
	defer l.cam.Release()

	l.log.Info().Msg("Frame loop started")

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("Frame loop stopped")
			return nil
		default:
		}

		frame, err := l.cam.ReadFrame()
		if err != nil {
			if errors.Is(err, camera.ErrClosed) {
				l.log.Info().Msg("Camera stream ended")
				return nil
			}
			l.log.Error().Err(err).Msg("Camera read failed")
			return fmt.Errorf("read frame: %w", err)
		}
		metrics.FramesProcessed.Inc()

		sched, ok, err := l.schedules.Snapshot(ctx, l.scheduleID)
		if err != nil {
			// Degraded iteration: keep the stream alive, emit the frame
			// without overlay and try again next frame.
			l.log.Warn().Err(err).Msg("Schedule lookup failed")
			if werr := l.emit(sink, frame); werr != nil {
				return nil
			}
			continue
		}
		if !ok {
			l.log.Info().Msg("Schedule deleted, terminating loop")
			return nil
		}

		canvas := vision.Canvas(frame)
		state := EvaluateWindow(sched.StartTime, sched.EndTime, sched.Status, l.now())

		if state == StateActive {
			vision.DrawLabel(canvas, 10, 30, state.Banner(), vision.Green)
			if l.throttle.ShouldFire() {
				l.recognize(ctx, frame, canvas)
			}
		} else {
			vision.DrawLabel(canvas, 10, 30, state.Banner(), vision.Red)
		}

		if err := l.emit(sink, canvas); err != nil {
			l.log.Info().Msg("Viewer disconnected")
			return nil
		}
	}
}

// recognize runs one throttled pass of the matcher + liveness + ledger
// pipeline and annotates the canvas with the result. Only the top-ranked
// match is processed. Matcher faults never escape: a fault is a no-match.
func (l *Loop) recognize(ctx context.Context, frame image.Image, canvas *image.NRGBA) {
	encoded, err := encodeJPEG(frame)
	if err != nil {
		l.log.Warn().Err(err).Msg("Frame encode failed")
		return
	}

	metrics.MatcherCalls.Inc()
	matches, err := l.matcher.Find(ctx, encoded)
	if err != nil {
		metrics.MatcherFaults.Inc()
		l.log.Debug().Err(err).Msg("Matcher fault, treated as no match")
		return
	}
	if len(matches) == 0 {
		return
	}

	best := matches[0]
	box := best.Box.Rect()
	region := vision.Crop(frame, box)

	score, live := vision.AssessLiveness(region, l.threshold)
	scoreText := fmt.Sprintf("Liveness: %.1f", score)

	if !live {
		metrics.LivenessRejections.Inc()
		vision.DrawRect(canvas, box, vision.Red)
		vision.DrawLabel(canvas, box.Min.X, box.Min.Y-6, "SPOOF", vision.Red)
		vision.DrawLabel(canvas, box.Min.X, box.Max.Y+16, scoreText, vision.Red)
		return
	}

	outcome, err := l.ledger.RecordPresence(ctx, best.Name, best.Role, l.scheduleID, l.now())
	metrics.AttendanceOutcomes.WithLabelValues(string(outcome)).Inc()

	vision.DrawRect(canvas, box, vision.Green)
	vision.DrawLabel(canvas, box.Min.X, box.Min.Y-6, best.Name, vision.Green)
	if err != nil {
		// Degraded outcome for this iteration; the stream continues.
		l.log.Error().Err(err).Str("name", best.Name).Msg("Ledger write failed")
	} else {
		vision.DrawLabel(canvas, box.Min.X, box.Max.Y+16, outcome.Message(), vision.White)
	}
	vision.DrawLabel(canvas, box.Min.X, box.Max.Y+32, scoreText, vision.White)
}

func (l *Loop) emit(sink FrameSink, frame image.Image) error {
	encoded, err := encodeJPEG(frame)
	if err != nil {
		l.log.Warn().Err(err).Msg("Frame encode failed")
		return nil
	}
	return sink.WriteFrame(encoded)
}

func encodeJPEG(frame image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
