package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statehost/internal/bundle"
	"statehost/internal/store"
	"statehost/internal/ui"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STATEHOST_CONFIG", "")
	root, rt := newRootCmd()
	defer rt.Close()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func seed(t *testing.T, driver, dir string) {
	t.Helper()
	st, err := store.Open(driver, dir)
	require.NoError(t, err)
	defer st.Close()

	b := bundle.New()
	b.Put(bundle.ViewStateKey("first"), []byte(`{"count":5}`))
	b.Put(bundle.PresenterStateKey("first"), nil)
	require.NoError(t, st.Save(context.Background(), ui.SessionKey, b))
	require.NoError(t, st.Save(context.Background(), "other", bundle.New()))
}

func TestInspect_ListsAndPrints(t *testing.T) {
	for _, driver := range []string{store.DriverFile, store.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()
			seed(t, driver, dir)

			out, err := execute(t, "inspect", "--store-driver", driver, "--store-path", dir)
			require.NoError(t, err)
			assert.Equal(t, "other\nsession\n", out)

			out, err = execute(t, "inspect", ui.SessionKey, "--store-driver", driver, "--store-path", dir)
			require.NoError(t, err)
			assert.Contains(t, out, "first:VIEW_STATE:\n  {\n    \"count\": 5\n  }")
			assert.Contains(t, out, "first:PRESENTER_STATE: <empty>")
		})
	}
}

func TestInspect_MissingKey(t *testing.T) {
	_, err := execute(t, "inspect", "nope", "--store-path", t.TempDir())
	assert.ErrorContains(t, err, `no bundle saved under "nope"`)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	seed(t, store.DriverFile, dir)

	out, err := execute(t, "clear", "--store-path", dir)
	require.NoError(t, err)
	assert.Equal(t, "cleared session\n", out)

	out, err = execute(t, "inspect", "--store-path", dir)
	require.NoError(t, err)
	assert.Equal(t, "other\n", out)

	out, err = execute(t, "clear", "--all", "--store-path", dir)
	require.NoError(t, err)
	assert.Equal(t, "cleared other\n", out)

	out, err = execute(t, "inspect", "--store-path", dir)
	require.NoError(t, err)
	assert.Equal(t, "no saved bundles\n", out)
}

func TestInvalidConfigFails(t *testing.T) {
	_, err := execute(t, "inspect", "--codec", "toml", "--store-path", t.TempDir())
	assert.ErrorContains(t, err, `unknown codec "toml"`)
}

func TestLogFileFlag(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "out.log")
	_, err := execute(t, "inspect", "--store-path", dir, "--log-file", logPath, "--log-level", "debug")
	require.NoError(t, err)
	assert.FileExists(t, logPath)
}
