package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vibeconnect/internal/cli"
	"vibeconnect/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
profiles:
  - user_id: 1
    display_name: Ava
  - user_id: 2
    display_name: Ben
  - user_id: 3
    display_name: Cleo
requests:
  - from: 2
    to: 1
    message: "board games on friday?"
`

type harness struct {
	dir  string
	args []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	dir := t.TempDir()
	return &harness{
		dir:  dir,
		args: []string{"--driver", "sqlite", "--sqlite-path", filepath.Join(dir, "vibeconnect.db"), "--redis", ""},
	}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := h.runSplit(t, stdin, args...)
	return out, err
}

// runSplit returns stdout and stderr separately.
func (h *harness) runSplit(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := cli.NewRootCmdForTest()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, h.args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func (h *harness) seedFixture(t *testing.T) {
	t.Helper()
	path := filepath.Join(h.dir, "fixture.yml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	out, err := h.run(t, "", "seed", "--fixture", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 3 profiles and 1 requests (0 skipped)")
}

func TestMigrateCmd(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date (sqlite)")
}

func TestSeedCmd_Random(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "seed", "--user", "1", "--profiles", "5", "--requests", "2", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 5 profiles and 2 requests")
}

func TestRequestCmd(t *testing.T) {
	h := newHarness(t)
	h.seedFixture(t)

	out, err := h.run(t, "", "request", "3", "--user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, notifications.SentMessage("Cleo"))

	_, err = h.run(t, "", "request", "1", "--user", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Request already sent.")
}

func TestRequestCmd_Validation(t *testing.T) {
	h := newHarness(t)
	h.seedFixture(t)

	_, err := h.run(t, "", "request", "3")
	assert.ErrorContains(t, err, "--user is required")

	_, err = h.run(t, "", "request", "abc", "--user", "1")
	assert.ErrorContains(t, err, "invalid recipient id")

	_, err = h.run(t, "", "request", "1", "--user", "1")
	assert.ErrorContains(t, err, "You can't connect with yourself.")
}

func TestInboxCmd_Once(t *testing.T) {
	h := newHarness(t)
	h.seedFixture(t)

	out, err := h.run(t, "", "inbox", "--once", "--user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ben wants to connect with you!")
	assert.Contains(t, out, "board games on friday?")

	out, err = h.run(t, "", "inbox", "--once", "--user", "3")
	require.NoError(t, err)
	assert.Contains(t, out, notifications.EmptyTitle)
}

func TestInboxCmd_AcceptInteractively(t *testing.T) {
	h := newHarness(t)
	h.seedFixture(t)

	out, err := h.run(t, "bogus\naccept 1\naccept 1\nquit\n", "inbox", "--user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, notifications.AcceptedToast)
	assert.Contains(t, out, "This request was already handled.")

	out, err = h.run(t, "", "inbox", "--once", "--user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, notifications.EmptyTitle)
}

func TestInboxCmd_RequiresUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "inbox")
	assert.ErrorContains(t, err, "--user is required")
}

func TestInboxCmd_LogsStayOffStdout(t *testing.T) {
	h := newHarness(t)
	h.seedFixture(t)

	out, logs, err := h.runSplit(t, "accept 1\nquit\n", "inbox", "--user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, notifications.AcceptedToast)

	for _, line := range strings.Split(out, "\n") {
		assert.NotContains(t, line, "level=", "log record on stdout: %q", line)
		assert.NotContains(t, line, `"level":`, "log record on stdout: %q", line)
	}
	assert.Contains(t, logs, "Database connected successfully")
}
