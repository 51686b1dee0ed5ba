package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/josephlewis42/dosh/core/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestReport(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewJSONLinesLogRecorder(buf)
	l.Now = fixedTime

	one, two := l.Session("one"), l.Session("two")
	require.NoError(t, one.Record(EventLogin, map[string]interface{}{"username": "root", "success": false}))
	require.NoError(t, one.Record(EventLogin, map[string]interface{}{"username": "root", "success": true}))
	require.NoError(t, one.Record(shell.EventRunCommand, map[string]interface{}{
		"verb":          "list",
		"resolved_path": "C:list",
		"return_code":   0,
	}))
	require.NoError(t, two.Record(shell.EventUnknownCommand, map[string]interface{}{"verb": "frob"}))
	require.NoError(t, two.Record(shell.EventUnknownCommand, map[string]interface{}{"verb": "frob"}))
	require.NoError(t, two.Record(shell.EventBuiltinFailure, map[string]interface{}{"verb": "CD", "return_code": 205}))
	require.NoError(t, two.Record(shell.EventScriptAbort, map[string]interface{}{"return_code": 10, "fail_at": 10}))
	require.NoError(t, two.Record("mystery", nil))

	report := NewReport()
	require.NoError(t, ReadJSONLinesLog(buf, report.Update))

	assert.Equal(t, 8, report.LogEntries)
	assert.Equal(t, 2, report.Sessions)
	assert.Equal(t, 2, report.EventTypes.Get(EventLogin))
	assert.Equal(t, 1, report.InvalidEntries.Get("mystery"))
	assert.Equal(t, 2, report.Login.Usernames.Get("root"))
	assert.Equal(t, 1, report.Login.Results.Get("success"))
	assert.Equal(t, 1, report.Login.Results.Get("rejected"))
	assert.Equal(t, 1, report.RunCommand.ResolvedCommandPaths.Get("C:list"))
	assert.Equal(t, 1, report.RunCommand.ReturnCodes.Get("0"))
	assert.Equal(t, 2, report.UnknownCommand.CommandNames.Get("frob"))
	assert.Equal(t, 1, report.BuiltinFailures.Get("CD", "205"))
	assert.Equal(t, 1, report.ScriptAborts.Get("10", "10"))

	out, err := yaml.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "log_entries: 8")
	assert.Contains(t, string(out), "frob: 2")
}

func TestPathCounter_MarshalJSON(t *testing.T) {
	ctr := NewPathCounter("verb", "return_code")
	ctr.Increment("CD", "205")
	ctr.Increment("PATH", "5")
	ctr.Increment("PATH", "5")

	out, err := json.Marshal(ctr)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"count": 2, "event": {"verb": "PATH", "return_code": "5"}},
		{"count": 1, "event": {"verb": "CD", "return_code": "205"}}
	]`, string(out))

	assert.Panics(t, func() { ctr.Increment("only one") })
}

func TestPathCounter_empty(t *testing.T) {
	out, err := json.Marshal(NewPathCounter("a"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	var s StrCounter
	out, err = json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}
