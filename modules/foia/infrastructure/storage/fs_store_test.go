package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domainstorage "github.com/Dcavise/SEEK-sub001/modules/foia/domain/storage"
)

func TestFSStore_StoreAndFetch(t *testing.T) {
	store := NewFSStore(t.TempDir())
	sessionID := uuid.New()

	ref, err := store.Store(context.Background(), sessionID, "batch.csv", strings.NewReader("address\n100 Main St\n"))
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	rc, err := store.Fetch(context.Background(), ref)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "address\n100 Main St\n", string(data))
}

func TestFSStore_FetchMissing(t *testing.T) {
	store := NewFSStore(t.TempDir())

	_, err := store.Fetch(context.Background(), domainstorage.Ref("nope/batch.csv"))
	require.ErrorIs(t, err, domainstorage.ErrNotFound)
}
