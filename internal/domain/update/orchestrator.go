package update

import (
	"context"
	"fmt"
	"time"

	"github.com/GriffinCanCode/assetpack/internal/domain/version"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/assetpack/internal/shared/id"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"go.uber.org/zap"
)

// Config configures an Orchestrator
type Config struct {
	// Enabled turns the update check on; when false Run starts immediately
	Enabled bool
	// Exclude lists doublestar patterns of package names never updated
	Exclude []string
	// OnTransition is called after every state change
	OnTransition func(runID id.RunID, from, to State)
	Logger       *logging.Logger
	Metrics      *monitoring.Metrics
}

// Result describes one run
type Result struct {
	RunID   id.RunID
	State   State
	Outcome version.Outcome
	Local   types.VersionDescriptor
	Remote  types.VersionDescriptor
	// RemoteFallback is set when the remote version could not be fetched
	// and the local version was used in its place
	RemoteFallback bool
	Stale          []string
	Excluded       []string
	// Applied is set when the Updater ran successfully
	Applied     bool
	Transitions []State
	Duration    time.Duration
}

// Orchestrator runs the startup update check
type Orchestrator struct {
	cfg        Config
	deps       Collaborators
	exclusions *Exclusions
	negotiator *version.Negotiator
	logger     *logging.Logger
	metrics    *monitoring.Metrics
}

// NewOrchestrator validates collaborators and exclusion patterns
func NewOrchestrator(deps Collaborators, cfg Config) (*Orchestrator, error) {
	if deps.Starter == nil {
		return nil, fmt.Errorf("%w: starter", ErrMissingCollaborator)
	}
	if cfg.Enabled {
		switch {
		case deps.Local == nil:
			return nil, fmt.Errorf("%w: local version reader", ErrMissingCollaborator)
		case deps.Remote == nil:
			return nil, fmt.Errorf("%w: remote version fetcher", ErrMissingCollaborator)
		case deps.LocalContent == nil || deps.RemoteContent == nil:
			return nil, fmt.Errorf("%w: content manifest source", ErrMissingCollaborator)
		}
	}

	exclusions, err := NewExclusions(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	logger := logging.OrNop(cfg.Logger)
	return &Orchestrator{
		cfg:        cfg,
		deps:       deps,
		exclusions: exclusions,
		negotiator: version.NewNegotiator(logger),
		logger:     logger.Named("update"),
		metrics:    cfg.Metrics,
	}, nil
}

// run carries the state of one Run call
type run struct {
	o      *Orchestrator
	result *Result
	logger *logging.Logger
}

func (r *run) transition(to State) {
	from := r.result.State
	r.result.State = to
	r.result.Transitions = append(r.result.Transitions, to)
	r.logger.Debug("State transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	if r.o.cfg.OnTransition != nil {
		r.o.cfg.OnTransition(r.result.RunID, from, to)
	}
}

func (r *run) block(err error) (*Result, error) {
	r.transition(Blocked)
	r.logger.Error("Update blocked", zap.Error(err))
	return r.result, err
}

// Run executes the state machine to Started or Blocked. The returned error
// is non-nil exactly when the run did not reach Started.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := id.NewRunID()
	r := &run{
		o: o,
		result: &Result{
			RunID:       runID,
			State:       Init,
			Outcome:     version.UpToDate,
			Transitions: []State{Init},
		},
		logger: o.logger.With(zap.String("run_id", runID.String())),
	}

	res, err := o.drive(ctx, r)
	res.Duration = time.Since(start)
	o.metrics.RecordUpdateRun(runLabel(res), len(res.Stale))

	if err == nil {
		r.logger.Info("Update check complete",
			zap.Stringer("outcome", res.Outcome),
			zap.String("local", res.Local.Version),
			zap.String("remote", res.Remote.Version),
			zap.Int("stale", len(res.Stale)),
			zap.Duration("duration", res.Duration))
	}
	return res, err
}

func (o *Orchestrator) drive(ctx context.Context, r *run) (*Result, error) {
	if !o.cfg.Enabled {
		r.logger.Info("Update check disabled")
		return o.start(ctx, r)
	}

	r.transition(FetchingLocalVersion)
	local, err := o.deps.Local.ReadLocalVersion(ctx)
	if err != nil {
		return r.block(fmt.Errorf("%w: %w", ErrLocalVersion, err))
	}
	r.result.Local = local

	r.transition(FetchingRemoteVersion)
	remote, err := o.deps.Remote.FetchRemoteVersion(ctx)
	if err != nil {
		r.logger.Warn("Remote version unavailable, using local version",
			zap.String("local", local.Version),
			zap.Error(err))
		remote = local
		r.result.RemoteFallback = true
	}
	r.result.Remote = remote

	r.transition(Negotiating)
	outcome := o.negotiator.Classify(local.Version, remote.Version)
	r.result.Outcome = outcome

	switch outcome {
	case version.MajorRequired:
		return r.block(fmt.Errorf("%w: local %s, remote %s",
			ErrMajorUpdateRequired, local.Version, remote.Version))
	case version.IncrementalRequired:
		if err := o.compareContent(ctx, r); err != nil {
			return r.block(err)
		}
	}

	return o.start(ctx, r)
}

// compareContent computes the stale package list and hands it to the
// Updater when one is configured
func (o *Orchestrator) compareContent(ctx context.Context, r *run) error {
	r.transition(ComparingContent)

	localManifest, err := o.deps.LocalContent.ContentManifest(ctx)
	if err != nil {
		return fmt.Errorf("%w: local manifest: %w", ErrContentComparison, err)
	}
	remoteManifest, err := o.deps.RemoteContent.ContentManifest(ctx)
	if err != nil {
		return fmt.Errorf("%w: remote manifest: %w", ErrContentComparison, err)
	}

	stale, excluded := o.exclusions.Filter(Diff(localManifest, remoteManifest))
	r.result.Stale = stale
	r.result.Excluded = excluded
	r.logger.Info("Content compared",
		zap.Int("remote_packages", len(remoteManifest)),
		zap.Int("stale", len(stale)),
		zap.Strings("excluded", excluded))

	if len(stale) > 0 {
		if o.deps.Updater == nil {
			r.logger.Info("No updater configured, stale packages left in place",
				zap.Strings("stale", stale))
			return nil
		}
		if err := o.deps.Updater.Update(ctx, stale, remoteManifest); err != nil {
			return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
		}
		r.result.Applied = true
	}

	if o.deps.VersionWriter != nil {
		if err := o.deps.VersionWriter.WriteLocalVersion(ctx, r.result.Remote); err != nil {
			r.logger.Warn("Local version not persisted",
				zap.String("version", r.result.Remote.Version),
				zap.Error(err))
		}
	}
	return nil
}

func (o *Orchestrator) start(ctx context.Context, r *run) (*Result, error) {
	r.transition(Starting)
	if err := o.deps.Starter.Start(ctx); err != nil {
		r.logger.Error("Application start failed", zap.Error(err))
		return r.result, fmt.Errorf("%w: %w", ErrStartFailed, err)
	}
	r.transition(Started)
	return r.result, nil
}

func runLabel(res *Result) string {
	switch res.State {
	case Started:
		return res.Outcome.String()
	case Blocked:
		return "blocked_" + res.Outcome.String()
	default:
		return "start_failed"
	}
}
