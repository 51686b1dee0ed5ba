package commands

import (
	"encoding/hex"
	"testing"

	"github.com/josephlewis42/dosh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType(t *testing.T) {
	files := map[string]string{
		"/a.txt": "one\ntwo\n",
		"/b.txt": "three\n",
	}

	cases := goldenTestSuite{
		"single":   {Args: []string{"type", "/a.txt"}, Files: files},
		"number":   {Args: []string{"type", "-n", "/a.txt"}, Files: files},
		"multiple": {Args: []string{"type", "/a.txt", "/b.txt"}, Files: files},
		"missing":  {Args: []string{"type", "/nope.txt"}, ExitStatus: 10},
		"partial":  {Args: []string{"type", "/nope.txt", "/b.txt"}, Files: files, ExitStatus: 10},
	}

	cases.Run(t, Type)
}

func TestType_hex(t *testing.T) {
	cmd := vostest.Command(Type, "type", "-x", "/bin.dat")
	data := []byte("hello, world\x00\x01\x02\x03\x04\x05")
	require.NoError(t, afero.WriteFile(cmd.VOS, "/bin.dat", data, 0644))

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, hex.Dump(data), string(out))
}

func TestType_relative(t *testing.T) {
	cmd := vostest.Command(Type, "type", "notes")
	require.NoError(t, cmd.VOS.MkdirAll("/work", 0755))
	require.NoError(t, afero.WriteFile(cmd.VOS, "/work/notes", []byte("hi\n"), 0644))
	cmd.Dir = "/work"

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "hi\n", string(out))
}
