package commands

import (
	"testing"

	"github.com/josephlewis42/dosh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListCmd(t *testing.T, args ...string) *vostest.Cmd {
	t.Helper()

	cmd := vostest.Command(List, "list", args...)
	require.NoError(t, afero.WriteFile(cmd.VOS, "/a.txt", []byte("12345678"), 0644))
	require.NoError(t, afero.WriteFile(cmd.VOS, "/.hidden", []byte("x"), 0644))
	require.NoError(t, cmd.VOS.Mkdir("/sub", 0755))
	return cmd
}

func TestList(t *testing.T) {
	cmd := newListCmd(t)

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, ""+
		"a.txt  8    -rw-r--r--\n"+
		"sub    Dir  drwxr-xr-x\n"+
		"1 files - 1 directories\n", string(out))
}

func TestList_all(t *testing.T) {
	cmd := newListCmd(t, "-a", "/")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, ""+
		".hidden  1    -rw-r--r--\n"+
		"a.txt    8    -rw-r--r--\n"+
		"sub      Dir  drwxr-xr-x\n"+
		"2 files - 1 directories\n", string(out))
}

func TestList_color(t *testing.T) {
	cmd := newListCmd(t, "--color=always", "/")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Contains(t, string(out), "\x1b[")
}

func TestList_errors(t *testing.T) {
	cases := goldenTestSuite{
		"missing":  {Args: []string{"list", "/nope"}, ExitStatus: 10},
		"too-many": {Args: []string{"list", "/a", "/b"}, ExitStatus: 10},
	}

	cases.Run(t, List)
}
