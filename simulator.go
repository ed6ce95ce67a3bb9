package crossing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DrainPolicy decides what a phase switch does to service during the drain phase
type DrainPolicy int

const (
	// DrainAsReference lets a left-to-right switch tick still release a
	// right vehicle while a right-to-left switch consumes the tick.
	DrainAsReference DrainPolicy = iota
	// DrainExclusive applies the loading-phase rule: a switch tick does nothing else.
	DrainExclusive
)

func (p DrainPolicy) String() string {
	switch p {
	case DrainAsReference:
		return "reference"
	case DrainExclusive:
		return "exclusive"
	default:
		return "DrainPolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParseDrainPolicy maps "reference" or "exclusive" to a DrainPolicy
func ParseDrainPolicy(s string) (DrainPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reference":
		return DrainAsReference, nil
	case "exclusive":
		return DrainExclusive, nil
	default:
		return 0, NewInvalidArgumentError("drain-policy", s, "must be reference or exclusive")
	}
}

// Uniform is a source of uniform values in [0,1). *rand.Rand satisfies it.
type Uniform interface {
	Float64() float64
}

// TickRecord describes what happened on one simulated tick
type TickRecord struct {
	Tick         int
	Draining     bool
	Switched     bool
	Phase        Phase
	LeftArrival  bool
	RightArrival bool
	Departed     Approach
	Wait         int
}

// Option configures a Simulator
type Option func(*Simulator)

// WithHorizon sets the number of loading-phase ticks
func WithHorizon(ticks int) Option {
	return func(s *Simulator) { s.horizon = ticks }
}

// WithDrainPolicy selects the drain-phase switch rule
func WithDrainPolicy(policy DrainPolicy) Option {
	return func(s *Simulator) { s.drain = policy }
}

// WithTickHook registers a function called after every tick
func WithTickHook(hook func(TickRecord)) Option {
	return func(s *Simulator) { s.hook = hook }
}

// WithLogger sets the logger used for run diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSignalObserver attaches an observer to the signal's phase machine
func WithSignalObserver(observer Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, observer) }
}

// WithRunID overrides the generated run identifier
func WithRunID(id string) Option {
	return func(s *Simulator) { s.runID = id }
}

// Simulator runs one traffic-light simulation. A Simulator owns its random
// stream and must not be shared between goroutines.
type Simulator struct {
	params    Params
	horizon   int
	drain     DrainPolicy
	rng       Uniform
	seed      int64
	runID     string
	logger    *slog.Logger
	hook      func(TickRecord)
	observers []Observer
}

// NewSimulator creates a simulator with its own math/rand stream seeded by seed
func NewSimulator(params Params, seed int64, opts ...Option) (*Simulator, error) {
	s, err := NewSimulatorWithSource(params, rand.New(rand.NewSource(seed)), opts...)
	if err != nil {
		return nil, err
	}
	s.seed = seed
	return s, nil
}

// NewSimulatorWithSource creates a simulator drawing from rng
func NewSimulatorWithSource(params Params, rng Uniform, opts ...Option) (*Simulator, error) {
	if rng == nil {
		return nil, NewConfigurationError("Simulator", "random source is nil")
	}

	s := &Simulator{
		params:  params,
		horizon: DefaultHorizon,
		drain:   DrainAsReference,
		rng:     rng,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.horizon < 0 {
		return nil, NewInvalidArgumentError("horizon", strconv.Itoa(s.horizon), "must not be negative")
	}
	if s.drain != DrainAsReference && s.drain != DrainExclusive {
		return nil, NewInvalidArgumentError("drain-policy", s.drain.String(), "unknown policy")
	}
	if err := params.ValidateFor(s.drain); err != nil {
		return nil, err
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	return s, nil
}

// run holds the state private to one execution
type run struct {
	sim    *Simulator
	signal *SignalController
	left   *Queue
	right  *Queue
	stats  RunStats
}

// Run executes the loading phase followed by the drain phase and returns the
// finalized statistics. Cancellation is checked once per tick.
func (s *Simulator) Run(ctx context.Context) (RunStats, error) {
	signal, err := NewSignalController(s.params.LeftGreen, s.params.RightGreen, s.observers...)
	if err != nil {
		return RunStats{}, err
	}
	defer func() { _ = signal.Close() }()

	r := &run{
		sim:    s,
		signal: signal,
		left:   NewQueue(),
		right:  NewQueue(),
		stats:  RunStats{RunID: s.runID, Seed: s.seed},
	}
	logger := s.logger.With(slog.String("run", s.runID))
	logger.Debug("run started",
		slog.Float64("left_rate", s.params.LeftRate),
		slog.Float64("right_rate", s.params.RightRate),
		slog.Int("left_green", s.params.LeftGreen),
		slog.Int("right_green", s.params.RightGreen),
		slog.Int("horizon", s.horizon),
		slog.String("drain_policy", s.drain.String()))

	tick := 0
	for ; tick < s.horizon; tick++ {
		if err := ctx.Err(); err != nil {
			return RunStats{}, err
		}
		if err := r.loadingTick(ctx, tick); err != nil {
			return RunStats{}, err
		}
	}

	logger.Debug("loading phase complete",
		slog.Int("tick", tick),
		slog.Any("left_queue", r.left),
		slog.Any("right_queue", r.right))

	for !r.left.IsEmpty() || !r.right.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return RunStats{}, err
		}
		if err := r.drainTick(ctx, tick); err != nil {
			return RunStats{}, err
		}
		tick++
	}

	r.stats.Ticks = tick
	r.stats.PhaseSwitches = signal.Switches()

	logger.Debug("run finished",
		slog.Int("ticks", tick),
		slog.Int("left_vehicles", r.stats.Left.Vehicles),
		slog.Int("right_vehicles", r.stats.Right.Vehicles),
		slog.Int("left_clearance", r.stats.Left.ClearanceTicks),
		slog.Int("right_clearance", r.stats.Right.ClearanceTicks))

	return r.stats, nil
}

// loadingTick either switches the phase or admits arrivals and serves the green queue
func (r *run) loadingTick(ctx context.Context, tick int) error {
	rec := TickRecord{Tick: tick}

	switched, err := r.signal.Advance(ctx, tick)
	if err != nil {
		return err
	}
	rec.Switched = switched

	if !switched {
		if r.sim.rng.Float64() < r.sim.params.LeftRate {
			r.left.Push(tick)
			r.stats.Left.Vehicles++
			rec.LeftArrival = true
		}
		if r.sim.rng.Float64() < r.sim.params.RightRate {
			r.right.Push(tick)
			r.stats.Right.Vehicles++
			rec.RightArrival = true
		}
		r.serve(tick, &rec)
	}

	r.emit(rec)
	return nil
}

// drainTick counts clearance time, then switches and/or serves without arrivals
func (r *run) drainTick(ctx context.Context, tick int) error {
	rec := TickRecord{Tick: tick, Draining: true}

	if !r.left.IsEmpty() {
		r.stats.Left.ClearanceTicks++
	}
	if !r.right.IsEmpty() {
		r.stats.Right.ClearanceTicks++
	}

	switched, err := r.signal.Advance(ctx, tick)
	if err != nil {
		return err
	}
	rec.Switched = switched

	serve := !switched
	if switched && r.sim.drain == DrainAsReference && r.signal.Phase() == PhaseRightGreen {
		serve = true
	}
	if serve {
		r.serve(tick, &rec)
	}

	r.emit(rec)
	return nil
}

// serve releases at most one vehicle from the green queue
func (r *run) serve(tick int, rec *TickRecord) {
	if r.sim.rng.Float64() >= DepartureProbability {
		return
	}

	green := r.signal.Phase().Green()
	queue := r.left
	if green == ApproachRight {
		queue = r.right
	}

	arrival, ok := queue.Pop()
	if !ok {
		return
	}

	wait := tick - arrival
	stats := r.stats.Approach(green)
	stats.TotalWait += wait
	if wait > stats.MaxWait {
		stats.MaxWait = wait
	}
	rec.Departed = green
	rec.Wait = wait
}

func (r *run) emit(rec TickRecord) {
	if r.sim.hook == nil {
		return
	}
	rec.Phase = r.signal.Phase()
	r.sim.hook(rec)
}

// RunID returns the identifier stamped on this simulator's results
func (s *Simulator) RunID() string {
	return s.runID
}

// String describes the simulator configuration
func (s *Simulator) String() string {
	return fmt.Sprintf("Simulator{run=%s left=%.2f/%d right=%.2f/%d horizon=%d drain=%s}",
		s.runID, s.params.LeftRate, s.params.LeftGreen, s.params.RightRate, s.params.RightGreen, s.horizon, s.drain)
}
