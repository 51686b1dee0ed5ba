package logger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/josephlewis42/dosh/core/shell"
)

func NewReport() *Report {
	return &Report{
		BuiltinFailures: NewPathCounter("verb", "return_code"),
		ScriptAborts:    NewPathCounter("return_code", "fail_at"),
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	EventTypes     StrCounter `json:"event_types"`
	InvalidEntries StrCounter `json:"unknown_log_entries"`

	Login          LoginReport          `json:"login_report"`
	RunCommand     RunCommandReport     `json:"run_command_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`

	BuiltinFailures *PathCounter `json:"builtin_failures"`
	ScriptAborts    *PathCounter `json:"script_aborts"`

	sessions map[string]bool
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	if id := StringField(le, FieldSessionID); id != "" {
		if r.sessions == nil {
			r.sessions = make(map[string]bool)
		}
		if !r.sessions[id] {
			r.sessions[id] = true
			r.Sessions++
		}
	}

	eventType := StringField(le, FieldType)
	switch eventType {
	case EventLogin:
		r.Login.update(le)
	case shell.EventRunCommand:
		r.RunCommand.update(le)
	case shell.EventUnknownCommand:
		r.UnknownCommand.update(le)
	case shell.EventBuiltinFailure:
		r.BuiltinFailures.Increment(StringField(le, "verb"), fmt.Sprint(NumberField(le, "return_code")))
	case shell.EventScriptAbort:
		r.ScriptAborts.Increment(fmt.Sprint(NumberField(le, "return_code")), fmt.Sprint(NumberField(le, "fail_at")))
	default:
		r.InvalidEntries.Increment(eventType)
		return
	}

	r.EventTypes.Increment(eventType)
}

type LoginReport struct {
	// List of usernames and their counts.
	Usernames StrCounter `json:"usernames"`
	// List of login attempt results and their counts.
	Results StrCounter `json:"results"`
}

func (r *LoginReport) update(le *LogEntry) {
	r.Usernames.Increment(StringField(le, "username"))
	if BoolField(le, "success") {
		r.Results.Increment("success")
	} else {
		r.Results.Increment("rejected")
	}
}

type RunCommandReport struct {
	// Path the command resolved to.
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Name of the command as typed.
	CommandNames StrCounter `json:"command_names"`
	// Return codes of the commands.
	ReturnCodes StrCounter `json:"return_codes"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.ResolvedCommandPaths.Increment(StringField(le, "resolved_path"))
	r.CommandNames.Increment(StringField(le, "verb"))
	r.ReturnCodes.Increment(fmt.Sprint(NumberField(le, "return_code")))
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(StringField(le, "verb"))
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements json.Marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings, one per column.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the key.
func (ctr *PathCounter) Get(key ...string) int {
	return ctr.internal[toKey(key...)]
}

type pathCount struct {
	Count  int               `json:"count"`
	Fields map[string]string `json:"event"`
	Path   string            `json:"-"`
}

// MarshalJSON implements json.Marshaler. Entries are sorted by count, most
// frequent first.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	out := []pathCount{}
	for k, v := range ctr.internal {
		count := pathCount{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
