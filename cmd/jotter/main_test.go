package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/kv"
)

type harness struct {
	t       *testing.T
	dataDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("JOTTER_KDF_ITERATIONS", "10000")
	t.Setenv("JOTTER_LOG_FILE", "")
	return &harness{t: t, dataDir: t.TempDir()}
}

// jot runs one CLI invocation and returns its exit code, stdout and stderr.
func (h *harness) jot(stdin string, args ...string) (int, string, string) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	code := run(&cli{}, append([]string{"--data", h.dataDir}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *harness) ok(args ...string) string {
	h.t.Helper()
	code, out, errOut := h.jot("", args...)
	require.Equal(h.t, 0, code, "jotter %v failed: %s", args, errOut)
	return out
}

func TestCLI(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.jot("", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")

	out := h.ok("register", "alice@example.com", "--password", "secret1", "--login")
	assert.Contains(t, out, "Logged in as alice")

	code, _, errOut = h.jot("", "register", "alice@example.com", "--password", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "DUPLICATE_IDENTIFIER")

	assert.Contains(t, h.ok("whoami"), "alice <alice@example.com>")

	attachPath := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(attachPath, []byte("hello attachment"), 0o600))

	h.ok("write", "--id", "n1", "--title", "Groceries", "--content", "milk", "--tag", "home")
	h.ok("write", "--id", "n2", "--title", "Plan", "--content", "ship it", "--tag", "work/q1", "--tag", "urgent", "--attach", attachPath)

	var listed []core.Note
	require.NoError(t, json.Unmarshal([]byte(h.ok("list", "--json")), &listed))
	require.Len(t, listed, 2)

	var tagged []core.Note
	require.NoError(t, json.Unmarshal([]byte(h.ok("list", "--json", "--tag", "urgent", "--tag", "work/q1")), &tagged))
	require.Len(t, tagged, 1)
	assert.Equal(t, "n2", tagged[0].ID)
	require.Len(t, tagged[0].Attachments, 1)
	assert.Equal(t, "hello.txt", tagged[0].Attachments[0].Name)
	assert.True(t, strings.HasPrefix(tagged[0].Attachments[0].MimeType, "text/plain"))
	assert.True(t, strings.HasPrefix(tagged[0].Attachments[0].Data, "data:text/plain"))

	assert.Equal(t, "n1 - Groceries [home]\n", h.ok("search", "MILK"))
	assert.Equal(t, "work/q1\n", h.ok("tags", "--match", "work/**"))
	assert.Equal(t, "home\nurgent\nwork/q1\n", h.ok("tags"))
	assert.Contains(t, h.ok("read", "n1"), "# Groceries")

	h.ok("delete", "n1")
	h.ok("delete", "n1")
	code, _, errOut = h.jot("", "read", "n1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "NOT_FOUND")

	assert.Equal(t, "light\n", h.ok("theme"))
	assert.Equal(t, "dark\n", h.ok("theme", "dark"))
	code, _, errOut = h.jot("", "theme", "neon")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "VALIDATION_FAILED")

	var status statusReport
	require.NoError(t, json.Unmarshal([]byte(h.ok("status")), &status))
	require.NotNil(t, status.User)
	assert.Equal(t, "alice@example.com", status.User.Identifier)
	assert.Equal(t, "json", status.Adapter)

	h.ok("logout")
	code, _, _ = h.jot("", "whoami")
	assert.Equal(t, 1, code)
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	h := newHarness(t)
	h.ok("register", "bob", "--password", "hunter22")

	code, _, errOut := h.jot("wrong\n", "login", "bob")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "INVALID_CREDENTIALS")

	code, out, errOut := h.jot("hunter22\n", "login", "bob")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Logged in as bob")
}

func TestSQLiteAdapter(t *testing.T) {
	h := newHarness(t)
	h.ok("--adapter", "sqlite", "register", "carol", "--password", "pw123456", "--login")
	h.ok("--adapter", "sqlite", "write", "--id", "c1", "--content", "in sqlite")
	assert.Contains(t, h.ok("--adapter", "sqlite", "list"), "c1")

	_, err := os.Stat(filepath.Join(h.dataDir, "store.db"))
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.True(t, strings.HasPrefix(h.ok("version"), "jotter version "))
}

func TestWatchStore(t *testing.T) {
	h := newHarness(t)
	h.ok("register", "dave", "--password", "pw123456", "--login")

	path := filepath.Join(h.dataDir, kv.DefaultFileName)
	store, err := kv.OpenFile(kv.FileConfig{Path: path})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() { done <- watchStore(ctx, cmd, store) }()
	require.Eventually(t, func() bool { return store.State().(kv.StoreState).Watching }, 2*time.Second, 10*time.Millisecond)

	h.ok("theme", "dark")
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "SET theme") }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchStoreKeyFilter(t *testing.T) {
	h := newHarness(t)
	h.ok("register", "erin", "--password", "pw123456", "--login")

	store, err := kv.OpenFile(kv.FileConfig{Path: filepath.Join(h.dataDir, kv.DefaultFileName)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() { done <- watchStore(ctx, cmd, store, core.KeyTheme) }()
	require.Eventually(t, func() bool { return store.State().(kv.StoreState).Watching }, 2*time.Second, 10*time.Millisecond)

	h.ok("write", "--id", "n1", "--title", "Filtered out")
	h.ok("theme", "dark")
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "SET theme") }, 5*time.Second, 20*time.Millisecond)
	assert.NotContains(t, out.String(), "notes")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
