package recent

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/casewatch/internal/storage"
	"github.com/cristianoliveira/casewatch/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsCaseInsensitiveAndIdempotent(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), nil)

	require.NoError(t, s.Add("A@x.com"))
	require.NoError(t, s.Add("  a@X.com "))

	assert.Equal(t, []string{"a@x.com"}, s.GetAll())
}

func TestAddKeepsTwoMostRecent(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), nil)

	require.NoError(t, s.Add("one@x.com"))
	require.NoError(t, s.Add("two@x.com"))
	require.NoError(t, s.Add("three@x.com"))

	assert.Equal(t, []string{"three@x.com", "two@x.com"}, s.GetAll())
}

func TestAddMovesExistingToFront(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), nil)

	require.NoError(t, s.Add("one@x.com"))
	require.NoError(t, s.Add("two@x.com"))
	require.NoError(t, s.Add("ONE@x.com"))

	assert.Equal(t, []string{"one@x.com", "two@x.com"}, s.GetAll())
}

func TestAddIgnoresBlank(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := NewStore(kv, nil)

	require.NoError(t, s.Add("   "))

	_, ok, err := kv.Get(Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetAllEmptyWhenAbsent(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), nil)
	got := s.GetAll()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetAllSelfHealsCorruptEntry(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(Key, "{not json"))
	s := NewStore(kv, nil)

	assert.Equal(t, []string{}, s.GetAll())

	_, ok, err := kv.Get(Key)
	require.NoError(t, err)
	assert.False(t, ok, "corrupt entry removed")

	require.NoError(t, s.Add("a@x.com"))
	assert.Equal(t, []string{"a@x.com"}, s.GetAll())
}

func TestPersistsThroughSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := sqlite.NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, NewStore(db, nil).Add("a@x.com"))
	require.NoError(t, db.Close())

	reopened, err := sqlite.NewStorage(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, []string{"a@x.com"}, NewStore(reopened, nil).GetAll())
}

func TestClear(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), nil)
	require.NoError(t, s.Add("a@x.com"))
	require.NoError(t, s.Clear())
	assert.Empty(t, s.GetAll())
}

type failingKV struct{ storage.KV }

func (failingKV) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingKV) Set(string, string) error         { return errors.New("disk gone") }

func TestReadAndWriteFailures(t *testing.T) {
	s := NewStore(failingKV{}, nil)
	assert.Empty(t, s.GetAll())
	assert.Error(t, s.Add("a@x.com"))
}

func TestGetAllNormalizesStoredList(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(Key, `["A@X.com","b@x.com","c@x.com"]`))
	s := NewStore(kv, nil)

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, s.GetAll())

	require.NoError(t, s.Add("a@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, s.GetAll())
}

func TestGetAllDropsStoredDuplicates(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(Key, `["x@y.com"," X@Y.com ","","z@y.com"]`))
	s := NewStore(kv, nil)

	assert.Equal(t, []string{"x@y.com", "z@y.com"}, s.GetAll())
}
