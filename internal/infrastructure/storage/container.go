package storage

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// Format identifies a package container layout
type Format string

const (
	FormatZip     Format = "zip"
	FormatTar     Format = "tar"
	FormatTarGzip Format = "tar.gz"
	FormatTarZstd Format = "tar.zst"
)

// DetectFormat sniffs the container format of the file at path
func DetectFormat(path string) (Format, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}

	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/zip"):
			return FormatZip, nil
		case m.Is("application/x-tar"):
			return FormatTar, nil
		case m.Is("application/gzip"):
			return FormatTarGzip, nil
		case m.Is("application/zstd"):
			return FormatTarZstd, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedContainer, mt.String())
}

// zipPackage keeps the archive open and reads assets on demand
type zipPackage struct {
	name   string
	rc     *zip.ReadCloser
	files  map[string]*zip.File
	closed bool
}

func openZip(name, path string) (*zipPackage, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", name, err)
	}

	files := make(map[string]*zip.File, len(rc.File))
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files[cleanAssetName(f.Name)] = f
	}
	return &zipPackage{name: name, rc: rc, files: files}, nil
}

func (p *zipPackage) Name() string { return p.name }

func (p *zipPackage) Asset(name string) ([]byte, error) {
	if p.closed {
		return nil, ErrClosed
	}
	f, ok := p.files[cleanAssetName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrAssetNotFound, name, p.name)
	}

	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (p *zipPackage) Assets() []string {
	return sortedKeys(p.files)
}

func (p *zipPackage) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.rc.Close()
}

// memPackage holds a fully decoded tar stream
type memPackage struct {
	name   string
	assets map[string][]byte
}

func openTar(name, path string, format Format) (*memPackage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case FormatTarGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	case FormatTarZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", name, err)
		}
		defer zr.Close()
		r = zr
	}

	assets := make(map[string][]byte)
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar %s: %w", name, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read %s/%s: %w", name, hdr.Name, err)
		}
		assets[cleanAssetName(hdr.Name)] = data
	}
	return &memPackage{name: name, assets: assets}, nil
}

func (p *memPackage) Name() string { return p.name }

func (p *memPackage) Asset(name string) ([]byte, error) {
	if p.assets == nil {
		return nil, ErrClosed
	}
	data, ok := p.assets[cleanAssetName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrAssetNotFound, name, p.name)
	}
	return data, nil
}

func (p *memPackage) Assets() []string {
	return sortedKeys(p.assets)
}

func (p *memPackage) Close() error {
	p.assets = nil
	return nil
}

// Pack writes assets into a container of the given format
func Pack(w io.Writer, format Format, assets map[string][]byte) error {
	names := sortedKeys(assets)

	if format == FormatZip {
		zw := zip.NewWriter(w)
		for _, name := range names {
			fw, err := zw.Create(name)
			if err != nil {
				return err
			}
			if _, err := fw.Write(assets[name]); err != nil {
				return err
			}
		}
		return zw.Close()
	}

	var sink io.WriteCloser
	switch format {
	case FormatTar:
		sink = nopCloser{w}
	case FormatTarGzip:
		sink = gzip.NewWriter(w)
	case FormatTarZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		sink = zw
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedContainer, format)
	}

	tw := tar.NewWriter(sink)
	for _, name := range names {
		data := assets[name]
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(data)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(data); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return sink.Close()
}

// PackBytes is Pack into a fresh buffer
func PackBytes(format Format, assets map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := Pack(&buf, format, assets); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func cleanAssetName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
