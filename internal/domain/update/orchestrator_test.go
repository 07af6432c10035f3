package update

import (
	"context"
	"errors"
	"testing"

	"github.com/GriffinCanCode/assetpack/internal/domain/version"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/assetpack/internal/shared/id"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	local         *mockLocal
	remote        *mockRemote
	localContent  *mockManifest
	remoteContent *mockManifest
	updater       *mockUpdater
	writer        *mockWriter
	starter       *mockStarter
}

func newFixture() *fixture {
	return &fixture{
		local:         &mockLocal{},
		remote:        &mockRemote{},
		localContent:  &mockManifest{},
		remoteContent: &mockManifest{},
		updater:       &mockUpdater{},
		writer:        &mockWriter{},
		starter:       &mockStarter{},
	}
}

func (f *fixture) collaborators() Collaborators {
	return Collaborators{
		Local:         f.local,
		Remote:        f.remote,
		LocalContent:  f.localContent,
		RemoteContent: f.remoteContent,
		Updater:       f.updater,
		VersionWriter: f.writer,
		Starter:       f.starter,
	}
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.local.AssertExpectations(t)
	f.remote.AssertExpectations(t)
	f.localContent.AssertExpectations(t)
	f.remoteContent.AssertExpectations(t)
	f.updater.AssertExpectations(t)
	f.writer.AssertExpectations(t)
	f.starter.AssertExpectations(t)
}

func versionOf(s string) types.VersionDescriptor {
	return types.VersionDescriptor{Version: s}
}

func newOrchestrator(t *testing.T, f *fixture, cfg Config) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(f.collaborators(), cfg)
	require.NoError(t, err)
	return o
}

func TestRunDisabledSkipsFetches(t *testing.T) {
	f := newFixture()
	f.starter.On("Start", mock.Anything).Return(nil).Once()

	res, err := newOrchestrator(t, f, Config{Enabled: false}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Started, res.State)
	assert.Equal(t, []State{Init, Starting, Started}, res.Transitions)
	f.local.AssertNotCalled(t, "ReadLocalVersion", mock.Anything)
	f.remote.AssertNotCalled(t, "FetchRemoteVersion", mock.Anything)
	f.assertExpectations(t)
}

func TestRunRemoteFailureDegradesToUpToDate(t *testing.T) {
	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).
		Return(types.VersionDescriptor{}, errors.New("connection refused"))
	f.starter.On("Start", mock.Anything).Return(nil).Once()

	res, err := newOrchestrator(t, f, Config{Enabled: true}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Started, res.State)
	assert.Equal(t, version.UpToDate, res.Outcome)
	assert.True(t, res.RemoteFallback)
	assert.Equal(t, res.Local, res.Remote)
	assert.Equal(t, []State{
		Init, FetchingLocalVersion, FetchingRemoteVersion, Negotiating, Starting, Started,
	}, res.Transitions)
	f.localContent.AssertNotCalled(t, "ContentManifest", mock.Anything)
	f.assertExpectations(t)
}

func TestRunUpToDate(t *testing.T) {
	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("1.2.9"), nil)
	f.starter.On("Start", mock.Anything).Return(nil)

	res, err := newOrchestrator(t, f, Config{Enabled: true}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, version.UpToDate, res.Outcome)
	assert.False(t, res.RemoteFallback)
	assert.True(t, id.IsValid(res.RunID.String()))
	f.assertExpectations(t)
}

func TestRunIndeterminateProceeds(t *testing.T) {
	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.x"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.starter.On("Start", mock.Anything).Return(nil)

	res, err := newOrchestrator(t, f, Config{Enabled: true}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, version.Indeterminate, res.Outcome)
	assert.Equal(t, Started, res.State)
	f.assertExpectations(t)
}

func TestRunIncrementalAppliesStalePackages(t *testing.T) {
	f := newFixture()
	local := types.ContentManifest{"ui": "h1", "music": "h2", "legacy": "h9"}
	remote := types.ContentManifest{"ui": "h1", "music": "h3", "levels": "h4"}

	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("1.3"), nil)
	f.localContent.On("ContentManifest", mock.Anything).Return(local, nil)
	f.remoteContent.On("ContentManifest", mock.Anything).Return(remote, nil)
	f.updater.On("Update", mock.Anything, []string{"levels", "music"}, remote).Return(nil).Once()
	f.writer.On("WriteLocalVersion", mock.Anything, versionOf("1.3")).Return(nil).Once()
	f.starter.On("Start", mock.Anything).Return(nil)

	var seen []State
	cfg := Config{
		Enabled:      true,
		OnTransition: func(_ id.RunID, _, to State) { seen = append(seen, to) },
	}
	res, err := newOrchestrator(t, f, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, version.IncrementalRequired, res.Outcome)
	assert.Equal(t, []string{"levels", "music"}, res.Stale)
	assert.True(t, res.Applied)
	assert.Equal(t, []State{
		Init, FetchingLocalVersion, FetchingRemoteVersion, Negotiating,
		ComparingContent, Starting, Started,
	}, res.Transitions)
	assert.Equal(t, res.Transitions[1:], seen)
	f.assertExpectations(t)
}

func TestRunIncrementalWithoutUpdaterReportsStale(t *testing.T) {
	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("1.3"), nil)
	f.localContent.On("ContentManifest", mock.Anything).Return(types.ContentManifest{}, nil)
	f.remoteContent.On("ContentManifest", mock.Anything).Return(types.ContentManifest{"a": "1"}, nil)
	f.starter.On("Start", mock.Anything).Return(nil)

	deps := f.collaborators()
	deps.Updater = nil
	o, err := NewOrchestrator(deps, Config{Enabled: true})
	require.NoError(t, err)

	res, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, res.Stale)
	assert.False(t, res.Applied)
	f.writer.AssertNotCalled(t, "WriteLocalVersion", mock.Anything, mock.Anything)
}

func TestRunExclusions(t *testing.T) {
	f := newFixture()
	remote := types.ContentManifest{"dlc/pack1": "x", "dlc/pack2": "y", "core": "z"}

	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("1.3"), nil)
	f.localContent.On("ContentManifest", mock.Anything).Return(types.ContentManifest{}, nil)
	f.remoteContent.On("ContentManifest", mock.Anything).Return(remote, nil)
	f.updater.On("Update", mock.Anything, []string{"core"}, remote).Return(nil)
	f.writer.On("WriteLocalVersion", mock.Anything, mock.Anything).Return(nil)
	f.starter.On("Start", mock.Anything).Return(nil)

	res, err := newOrchestrator(t, f, Config{Enabled: true, Exclude: []string{"dlc/**"}}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"core"}, res.Stale)
	assert.Equal(t, []string{"dlc/pack1", "dlc/pack2"}, res.Excluded)
	f.assertExpectations(t)
}

func TestRunMajorBlocks(t *testing.T) {
	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("2.0"), nil)

	res, err := newOrchestrator(t, f, Config{Enabled: true}).Run(context.Background())
	require.ErrorIs(t, err, ErrMajorUpdateRequired)

	assert.Equal(t, Blocked, res.State)
	assert.Equal(t, version.MajorRequired, res.Outcome)
	f.starter.AssertNotCalled(t, "Start", mock.Anything)
	f.localContent.AssertNotCalled(t, "ContentManifest", mock.Anything)
}

func TestRunContentFetchFailureBlocks(t *testing.T) {
	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("1.3"), nil)
	f.localContent.On("ContentManifest", mock.Anything).Return(types.ContentManifest{}, nil)
	f.remoteContent.On("ContentManifest", mock.Anything).Return(nil, errors.New("503"))

	res, err := newOrchestrator(t, f, Config{Enabled: true}).Run(context.Background())
	require.ErrorIs(t, err, ErrContentComparison)

	assert.Equal(t, Blocked, res.State)
	assert.Equal(t, ComparingContent, res.Transitions[len(res.Transitions)-2])
	f.starter.AssertNotCalled(t, "Start", mock.Anything)
	f.updater.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunUpdaterFailureBlocks(t *testing.T) {
	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("1.3"), nil)
	f.localContent.On("ContentManifest", mock.Anything).Return(types.ContentManifest{}, nil)
	f.remoteContent.On("ContentManifest", mock.Anything).Return(types.ContentManifest{"a": "1"}, nil)
	f.updater.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	res, err := newOrchestrator(t, f, Config{Enabled: true}).Run(context.Background())
	require.ErrorIs(t, err, ErrUpdateFailed)
	assert.Equal(t, Blocked, res.State)
	f.writer.AssertNotCalled(t, "WriteLocalVersion", mock.Anything, mock.Anything)
}

func TestRunLocalVersionFailureBlocks(t *testing.T) {
	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(types.VersionDescriptor{}, errors.New("missing"))

	res, err := newOrchestrator(t, f, Config{Enabled: true}).Run(context.Background())
	require.ErrorIs(t, err, ErrLocalVersion)
	assert.Equal(t, Blocked, res.State)
	f.remote.AssertNotCalled(t, "FetchRemoteVersion", mock.Anything)
}

func TestRunStartFailure(t *testing.T) {
	f := newFixture()
	f.starter.On("Start", mock.Anything).Return(errors.New("boom"))

	res, err := newOrchestrator(t, f, Config{}).Run(context.Background())
	require.ErrorIs(t, err, ErrStartFailed)
	assert.Equal(t, Starting, res.State)
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	f := newFixture()
	f.local.On("ReadLocalVersion", mock.Anything).Return(versionOf("1.2"), nil)
	f.remote.On("FetchRemoteVersion", mock.Anything).Return(versionOf("2.0"), nil)

	_, err := newOrchestrator(t, f, Config{Enabled: true, Metrics: metrics}).Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpdateRuns.WithLabelValues("blocked_major_required")))
}

func TestNewOrchestratorValidation(t *testing.T) {
	f := newFixture()

	_, err := NewOrchestrator(Collaborators{}, Config{})
	assert.ErrorIs(t, err, ErrMissingCollaborator)

	_, err = NewOrchestrator(Collaborators{Starter: f.starter}, Config{Enabled: true})
	assert.ErrorIs(t, err, ErrMissingCollaborator)

	_, err = NewOrchestrator(Collaborators{Starter: f.starter}, Config{})
	assert.NoError(t, err)

	_, err = NewOrchestrator(f.collaborators(), Config{Exclude: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestStarterFunc(t *testing.T) {
	called := false
	s := StarterFunc(func(context.Context) error { called = true; return nil })
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, called)
}
