package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/storage"
)

// FSStore keeps uploaded files under root/<sessionID>/<name>.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) Store(ctx context.Context, sessionID uuid.UUID, name string, r io.Reader) (storage.Ref, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, sessionID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", gerrors.Wrap(err, "create upload dir")
	}

	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", gerrors.Wrap(err, "create upload file")
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, r); err != nil {
		return "", gerrors.Wrap(err, "write upload file")
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", err
	}
	return storage.Ref(rel), nil
}

func (s *FSStore) Fetch(ctx context.Context, ref storage.Ref) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.root, filepath.Clean(string(ref))))
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "open stored file")
	}
	return f, nil
}
