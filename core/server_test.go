package core

import (
	"context"
	"errors"
	"io/ioutil"
	"log"
	"net"
	"sync"
	"testing"

	"github.com/josephlewis42/dosh/core/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"
)

type testServer struct {
	addr string
	fs   afero.Fs

	mu     sync.Mutex
	events []*logger.LogEntry
}

func (ts *testServer) record(le *logger.LogEntry) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.events = append(ts.events, le)
	return nil
}

func (ts *testServer) logins() (ok, rejected int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, le := range ts.events {
		if logger.StringField(le, logger.FieldType) != logger.EventLogin {
			continue
		}
		if logger.BoolField(le, "success") {
			ok++
		} else {
			rejected++
		}
	}
	return
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	fs, cfg := newTestConfig(t)
	require.NoError(t, afero.WriteFile(fs, "root/readme.txt", []byte("hello\n"), 0644))
	cfg.Banner = ""

	ts := &testServer{fs: fs}
	events := logger.NewNopLogger()
	events.Record = ts.record

	server, err := NewServer(cfg, events, log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ts.addr = l.Addr().String()

	go server.Serve(l)
	t.Cleanup(func() {
		server.Shutdown(context.Background())
	})

	return ts
}

func (ts *testServer) run(t *testing.T, command string) (string, int) {
	t.Helper()

	client, err := ts.dial("dosh")
	require.NoError(t, err)
	defer client.Close()

	session, err := client.NewSession()
	require.NoError(t, err)
	defer session.Close()

	out, err := session.CombinedOutput(command)

	var exitErr *gossh.ExitError
	switch {
	case err == nil:
		return string(out), 0
	case errors.As(err, &exitErr):
		return string(out), exitErr.ExitStatus()
	default:
		t.Fatal(err)
		return "", 0
	}
}

func (ts *testServer) dial(password string) (*gossh.Client, error) {
	return gossh.Dial("tcp", ts.addr, &gossh.ClientConfig{
		User:            "amiga",
		Auth:            []gossh.AuthMethod{gossh.Password(password)},
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
	})
}

func TestServer_command(t *testing.T) {
	ts := newTestServer(t)

	out, rc := ts.run(t, "TYPE readme.txt")
	assert.Equal(t, 0, rc)
	assert.Equal(t, "hello\n", out)

	out, rc = ts.run(t, "frobnicate")
	assert.Equal(t, 10, rc)
	assert.Equal(t, "Unknown command: frobnicate\nShell: Command failed (rc=10)\n", out)

	ok, rejected := ts.logins()
	assert.Equal(t, 2, ok)
	assert.Equal(t, 0, rejected)
}

func TestServer_sessionsAreIsolated(t *testing.T) {
	ts := newTestServer(t)

	_, rc := ts.run(t, "MAKEDIR /new\nIF EXISTS /new\nECHO created\nENDIF")
	assert.Equal(t, 0, rc)

	out, _ := ts.run(t, "IF EXISTS /new\nECHO leaked\nENDIF")
	assert.Empty(t, out)

	exists, err := afero.Exists(ts.fs, "root/new")
	require.NoError(t, err)
	assert.False(t, exists, "writes stay in memory")
}

func TestServer_badPassword(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.dial("wrong")
	assert.Error(t, err)

	_, rejected := ts.logins()
	assert.NotZero(t, rejected)
}
