package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatchDir_CallsOnChange(t *testing.T) {
	t.Parallel()

	dir, other := t.TempDir(), t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchDir(ctx, []string{dir, other}, 10*time.Millisecond, zaptest.NewLogger(t), func() error {
			select {
			case changed <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// The watcher may not be registered yet, so keep writing until a change
	// is seen.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(other, "versions.yml"), []byte("typescript: ~5.6.0\n"), 0o644)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchDir did not return after cancel")
	}
}

func TestWatchDir_MissingDir(t *testing.T) {
	t.Parallel()

	err := watchDir(context.Background(), []string{t.TempDir(), filepath.Join(t.TempDir(), "missing")}, time.Millisecond, zaptest.NewLogger(t), func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}

func TestIgnoredByWatch(t *testing.T) {
	t.Parallel()

	assert.True(t, ignoredByWatch("/p/.blockcraft/history.yml"))
	assert.True(t, ignoredByWatch("/p/.blockcraft/.blockcraft-tmp-123"))
	assert.False(t, ignoredByWatch("/p/.blockcraft/config.yml"))
	assert.False(t, ignoredByWatch("/p/.blockcraft/versions.yml"))
}
