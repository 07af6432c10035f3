package remote

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/shared/id"
	"github.com/GriffinCanCode/assetpack/internal/shared/paths"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/GriffinCanCode/assetpack/internal/shared/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ManifestStore records which package builds are installed locally
type ManifestStore interface {
	ContentManifest(ctx context.Context) (types.ContentManifest, error)
	WriteContentManifest(ctx context.Context, m types.ContentManifest) error
}

// DownloaderConfig configures a Downloader
type DownloaderConfig struct {
	// Root is the writable directory packages are stored under
	Root        string
	Concurrency int
	Hasher      *utils.Hasher
	// Manifest, when set, is updated with the hash of every package
	// downloaded, including on partial failure
	Manifest ManifestStore
	Logger   *logging.Logger
}

// Downloader fetches packages from the update server
type Downloader struct {
	client      *Client
	baseURL     string
	root        string
	concurrency int
	hasher      *utils.Hasher
	manifest    ManifestStore
	logger      *logging.Logger
}

// NewDownloader creates a downloader for packages under baseURL
func NewDownloader(client *Client, baseURL string, cfg DownloaderConfig) *Downloader {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = utils.DefaultHasher()
	}
	return &Downloader{
		client:      client,
		baseURL:     baseURL,
		root:        cfg.Root,
		concurrency: concurrency,
		hasher:      hasher,
		manifest:    cfg.Manifest,
		logger:      logging.OrNop(cfg.Logger).Named("downloader"),
	}
}

// Update downloads every named package and verifies it against the hash in
// remote. The first failure cancels the rest.
func (d *Downloader) Update(ctx context.Context, packages []string, remote types.ContentManifest) error {
	var (
		mu   sync.Mutex
		done = types.ContentManifest{}
	)

	for _, name := range packages {
		want, ok := remote[name]
		if !ok {
			return fmt.Errorf("package %q is not in the remote manifest", name)
		}
		if err := utils.ValidateHash(want); err != nil {
			return fmt.Errorf("package %q: %w", name, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, name := range packages {
		name, want := name, remote[name]
		g.Go(func() error {
			if err := d.fetch(gctx, name, want); err != nil {
				return err
			}
			mu.Lock()
			done[name] = want
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	if len(done) > 0 {
		if merr := d.record(ctx, done); merr != nil {
			d.logger.Warn("Local content manifest not updated", zap.Error(merr))
		}
	}
	if err != nil {
		return err
	}

	d.logger.Info("Packages updated", zap.Int("count", len(done)))
	return nil
}

// fetch streams one package into place
func (d *Downloader) fetch(ctx context.Context, name, want string) error {
	if err := paths.ValidatePackageName(name); err != nil {
		return err
	}
	url, err := paths.PackageURL(d.baseURL, name)
	if err != nil {
		return err
	}

	downloadID := id.NewDownloadID()
	dest := filepath.Join(d.root, filepath.FromSlash(name))
	logger := d.logger.With(
		zap.String("download_id", downloadID.String()),
		zap.String("package", name))

	err = d.client.Stream(ctx, ResourcePackage, url, func(body io.Reader) error {
		_, err := utils.WriteReaderAtomic(dest, 0o644, func(w io.Writer) (int64, error) {
			limited := io.LimitReader(body, utils.MaxPackageDownloadBytes+1)
			got, n, err := d.hasher.HashReader(io.TeeReader(limited, w))
			if err != nil {
				return n, err
			}
			if n > utils.MaxPackageDownloadBytes {
				return n, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, int64(utils.MaxPackageDownloadBytes))
			}
			if got != want {
				return n, fmt.Errorf("%w: want %s, got %s", ErrHashMismatch, want, got)
			}
			logger.Debug("Package downloaded", zap.Int64("bytes", n))
			return n, nil
		})
		return err
	})
	if err != nil {
		logger.Error("Package download failed", zap.Error(err))
	}
	return err
}

func (d *Downloader) record(ctx context.Context, done types.ContentManifest) error {
	if d.manifest == nil {
		return nil
	}

	current, err := d.manifest.ContentManifest(ctx)
	if err != nil {
		d.logger.Warn("Local content manifest unreadable, starting fresh", zap.Error(err))
		current = types.ContentManifest{}
	}

	names := done.Names()
	sort.Strings(names)
	for _, name := range names {
		current[name] = done[name]
	}
	return d.manifest.WriteContentManifest(ctx, current)
}
