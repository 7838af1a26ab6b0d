package courier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierhq/courier-go/adapters"
)

func TestNew_Defaults(t *testing.T) {
	client, err := New(Config{
		Backend:       BackendMemory,
		FlushInterval: time.Minute,
		Sender:        &mockSender{},
		Logger:        adapters.NewNoopLogger(),
	})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, defaultBatchSize, client.dispatcher.config.BatchSize)
	assert.Equal(t, defaultStoreID, client.config.StoreID)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(Config{Backend: Backend("tape"), Logger: adapters.NewNoopLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tape")
}

func TestClient_DispatchAndFlush(t *testing.T) {
	sender := &mockSender{}
	client, err := New(Config{
		Backend:       BackendMemory,
		FlushInterval: time.Minute,
		Sender:        sender,
		Logger:        adapters.NewNoopLogger(),
	})
	require.NoError(t, err)
	defer client.Close()

	client.Dispatch([]byte("p1"), nil)
	client.DispatchTo("https://special.example", []byte("p2"), nil)
	client.Flush()

	calls := sender.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, DefaultDestination, calls[0].destination)
	assert.Equal(t, "https://special.example", calls[1].destination)
}

// Records that fail to ship in one process are picked up and delivered by the
// next process over the same file store.
func TestClient_RecordsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	base := Config{
		Backend:       BackendFile,
		DataDir:       dir,
		StoreID:       "restart_test",
		FlushInterval: time.Minute,
		Logger:        adapters.NewNoopLogger(),
	}

	failing := &mockSender{failing: true}
	cfg := base
	cfg.Sender = failing
	first, err := New(cfg)
	require.NoError(t, err)
	first.Dispatch([]byte("survivor-1"), nil)
	first.Dispatch([]byte("survivor-2"), nil)
	require.NoError(t, first.Close())

	working := &mockSender{}
	cfg = base
	cfg.Sender = working
	second, err := New(cfg)
	require.NoError(t, err)
	defer second.Close()

	second.Flush()
	calls := working.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "survivor-1\nsurvivor-2", calls[0].payload)
}

func TestClient_KVBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	base := Config{
		Backend:       BackendKV,
		DataDir:       dir,
		StoreID:       "kv_test",
		FlushInterval: time.Minute,
		Logger:        adapters.NewNoopLogger(),
	}

	failing := &mockSender{failing: true}
	cfg := base
	cfg.Sender = failing
	first, err := New(cfg)
	require.NoError(t, err)
	first.Dispatch([]byte("kept"), nil)
	require.NoError(t, first.Close())

	working := &mockSender{}
	cfg = base
	cfg.Sender = working
	second, err := New(cfg)
	require.NoError(t, err)
	defer second.Close()

	second.Flush()
	calls := working.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "kept", calls[0].payload)
}

func TestClient_CloseDrains(t *testing.T) {
	sender := &mockSender{}
	client, err := New(Config{
		Backend:       BackendMemory,
		FlushInterval: time.Minute,
		Sender:        sender,
		Logger:        adapters.NewNoopLogger(),
	})
	require.NoError(t, err)

	client.Dispatch([]byte("last-words"), nil)
	require.NoError(t, client.Close())

	require.Len(t, sender.snapshot(), 1)
}

func TestClient_SetDefaultDestination(t *testing.T) {
	sender := &mockSender{}
	client, err := New(Config{
		Backend:       BackendMemory,
		FlushInterval: time.Minute,
		Sender:        sender,
		Logger:        adapters.NewNoopLogger(),
	})
	require.NoError(t, err)
	defer client.Close()

	client.SetDefaultDestination("https://tenant.example/v1")
	client.Dispatch([]byte("x"), nil)
	client.Flush()

	calls := sender.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "https://tenant.example/v1", calls[0].destination)
}
