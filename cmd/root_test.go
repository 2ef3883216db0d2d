package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/oja-awards-crawler/internal/config"
)

type fakeApp struct {
	runErr error
	ran    int
	closed int
}

func (f *fakeApp) Run(context.Context) error {
	f.ran++
	return f.runErr
}

func (f *fakeApp) Close(context.Context) error {
	f.closed++
	return nil
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `oja:
  slack_webhook_url: https://hooks.slack.com/services/T/B/X
  folder_path: oja/
storage:
  provider: memory
logging:
  file: ` + filepath.Join(dir, "debug.log") + `
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func withFakeApp(t *testing.T, fake *fakeApp) *config.Config {
	t.Helper()
	var seen config.Config
	prev := newApp
	newApp = func(_ context.Context, cfg config.Config, _ *zap.Logger) (App, error) {
		seen = cfg
		return fake, nil
	}
	t.Cleanup(func() { newApp = prev })
	return &seen
}

func TestCrawlCommandRunsAndCloses(t *testing.T) {
	for _, args := range [][]string{{"crawl"}, {}} {
		fake := &fakeApp{}
		seen := withFakeApp(t, fake)

		root := newRootCmd()
		root.SetArgs(append(args, "--config", writeConfig(t)))
		require.NoError(t, root.ExecuteContext(context.Background()))

		assert.Equal(t, 1, fake.ran)
		assert.Equal(t, 1, fake.closed)
		assert.Equal(t, "oja/", seen.OJA.FolderPath)
		assert.Equal(t, config.StorageMemory, seen.Storage.Provider)
	}
}

func TestCrawlCommandPropagatesRunError(t *testing.T) {
	fake := &fakeApp{runErr: errors.New("upload oja/general-2020.json: denied")}
	withFakeApp(t, fake)

	root := newRootCmd()
	root.SetArgs([]string{"crawl", "--config", writeConfig(t)})
	err := root.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "denied")
	assert.Equal(t, 1, fake.closed)
}

func TestRootFailsOnInvalidConfig(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "")
	t.Setenv("OJA_OJA_SLACK_WEBHOOK_URL", "")
	fake := &fakeApp{}
	withFakeApp(t, fake)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  provider: memory\n"), 0o600))

	root := newRootCmd()
	root.SetArgs([]string{"--config", path})
	err := root.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "oja.slack_webhook_url")
	assert.Zero(t, fake.ran)
}
