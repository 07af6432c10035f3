package update

import (
	"context"

	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/stretchr/testify/mock"
)

type mockLocal struct{ mock.Mock }

func (m *mockLocal) ReadLocalVersion(ctx context.Context) (types.VersionDescriptor, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.VersionDescriptor), args.Error(1)
}

type mockRemote struct{ mock.Mock }

func (m *mockRemote) FetchRemoteVersion(ctx context.Context) (types.VersionDescriptor, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.VersionDescriptor), args.Error(1)
}

type mockManifest struct{ mock.Mock }

func (m *mockManifest) ContentManifest(ctx context.Context) (types.ContentManifest, error) {
	args := m.Called(ctx)
	manifest, _ := args.Get(0).(types.ContentManifest)
	return manifest, args.Error(1)
}

type mockUpdater struct{ mock.Mock }

func (m *mockUpdater) Update(ctx context.Context, packages []string, remote types.ContentManifest) error {
	return m.Called(ctx, packages, remote).Error(0)
}

type mockWriter struct{ mock.Mock }

func (m *mockWriter) WriteLocalVersion(ctx context.Context, v types.VersionDescriptor) error {
	return m.Called(ctx, v).Error(0)
}

type mockStarter struct{ mock.Mock }

func (m *mockStarter) Start(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
