package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tt "github.com/gnolang/totality/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Watch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/colors\n\ngo 1.22\n"), 0o644))

	engine, err := NewEngine(dir, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan []tt.Issue, 1)
	done := make(chan error, 1)
	go func() {
		done <- engine.Watch(ctx, []string{dir}, func(_ string, issues []tt.Issue) {
			select {
			case reports <- issues:
			default:
			}
		})
	}()

	// the watcher may not be registered yet, so keep writing until it reports
	file := filepath.Join(dir, "colors.go")
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(20 * time.Second)

	var issues []tt.Issue
wait:
	for {
		select {
		case issues = <-reports:
			if len(issues) > 0 {
				break wait
			}
		case <-ticker.C:
			require.NoError(t, os.WriteFile(file, []byte(colorSource), 0o644))
		case <-deadline:
			t.Fatal("no report received")
		}
	}

	require.Len(t, issues, 2)
	assert.Equal(t, "Match not exhaustive, values not matched: 2", issues[0].Message)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}
