package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/josephlewis42/dosh/core/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime() time.Time {
	return time.Unix(1600000000, 123000)
}

func TestJSONLinesLogRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewJSONLinesLogRecorder(buf)
	l.Now = fixedTime

	session := l.Session("abc")
	require.NoError(t, session.Record(shell.EventRunCommand, map[string]interface{}{
		"verb":        "list",
		"return_code": 5,
	}))
	require.NoError(t, session.Record(shell.EventScriptAbort, nil))

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"), "one line per entry")

	var entries []*LogEntry
	require.NoError(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "abc", StringField(first, FieldSessionID))
	assert.Equal(t, shell.EventRunCommand, StringField(first, FieldType))
	assert.Equal(t, fixedTime().UnixMicro(), NumberField(first, FieldTimestampMicros))
	assert.Equal(t, "list", StringField(first, "verb"))
	assert.Equal(t, int64(5), NumberField(first, "return_code"))
	assert.Equal(t, "", StringField(first, "missing"))

	assert.Equal(t, shell.EventScriptAbort, StringField(entries[1], FieldType))
}

func TestRecord_badField(t *testing.T) {
	l := NewNopLogger()

	err := l.NewSession().Record(shell.EventRunCommand, map[string]interface{}{
		"bad": struct{}{},
	})
	assert.Error(t, err)
}

func TestNewSession(t *testing.T) {
	l := NewNopLogger()

	a, b := l.NewSession(), l.NewSession()
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestReadJSONLinesLog_invalid(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader(`{"type": "run_command"} [1, 2]`), func(*LogEntry) {})
	assert.Error(t, err)
}
