// Package blob stores uploaded files on an afero filesystem rooted at the media directory.
package blob

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/video"
)

var errInvalidName = errors.New("invalid blob name")

type Store struct {
	fs afero.Fs
}

var _ video.BlobStore = (*Store)(nil)

// NewStore returns a Store writing under root on the OS filesystem.
func NewStore(root string) (*Store, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(err, "creating media root")
	}
	return NewStoreFs(afero.NewBasePathFs(osFs, root)), nil
}

// NewStoreFs returns a Store on fs, e.g. afero.NewMemMapFs() in tests.
func NewStoreFs(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

func cleanName(name string) (string, error) {
	name = path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	if name == "/" {
		return "", errInvalidName
	}
	return filepath.FromSlash(name), nil
}

func (s *Store) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	name, err := cleanName(name)
	if err != nil {
		return 0, err
	}
	if err = s.fs.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return 0, errors.Wrap(err, "creating blob dir")
	}

	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, errors.Wrap(err, "creating blob")
	}
	n, err := io.Copy(f, contextReader{ctx: ctx, r: r})
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return 0, errors.Wrap(err, "writing blob")
	}
	return n, nil
}

func (s *Store) Open(_ context.Context, name string) (io.ReadCloser, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(core.ErrNotFound, "blob")
		}
		return nil, errors.Wrap(err, "opening blob")
	}
	return f, nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err = s.fs.Remove(name); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing blob")
	}
	return nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
