package commands

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLauncher(t *testing.T, root vos.VFS, allowHost bool) (*Launcher, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	virtOS := vos.NewOS(root, vos.NewVIOAdapter(nil, out, out), 1, "/")
	commandFS, err := NewCommandFS()
	require.NoError(t, err)
	require.NoError(t, virtOS.Assign(Device, commandFS))

	return NewLauncher(virtOS, allowHost), out
}

func TestLauncher_internal(t *testing.T) {
	launcher, out := newTestLauncher(t, afero.NewMemMapFs(), false)

	assert.Equal(t, 0, launcher.Run(context.Background(), "C:version"))
	assert.Equal(t, "dosh "+Version+"\n", out.String())

	out.Reset()
	assert.Equal(t, 0, launcher.Run(context.Background(), `c:LIST "/"`))
	assert.Equal(t, "0 files - 0 directories\n", out.String())

	assert.Equal(t, shell.NotFound, launcher.Run(context.Background(), "C:nope"))
}

func TestLauncher_hostDisabled(t *testing.T) {
	launcher, _ := newTestLauncher(t, afero.NewMemMapFs(), false)

	assert.Equal(t, shell.NotFound, launcher.Run(context.Background(), "/bin/sh -c true"))
}

func TestLauncher_host(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh on the host")
	}

	launcher, out := newTestLauncher(t, afero.NewOsFs(), true)
	ctx := context.Background()

	assert.Equal(t, 0, launcher.Run(ctx, sh+` -c "echo hello"`))
	assert.Equal(t, "hello\n", out.String())

	assert.Equal(t, 3, launcher.Run(ctx, sh+` -c "exit 3"`))
	assert.Equal(t, shell.NotFound, launcher.Run(ctx, "/does/not/exist"))
}
