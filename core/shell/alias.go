package shell

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldName case-folds a verb or alias name for comparison.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// AliasEntry is a single verb substitution.
type AliasEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AliasTable maps verb names to replacement text. Names are case-insensitive.
type AliasTable struct {
	entries []AliasEntry
}

func NewAliasTable() *AliasTable {
	return &AliasTable{}
}

func (t *AliasTable) find(name string) int {
	folded := foldName(name)
	for i, e := range t.entries {
		if foldName(e.Name) == folded {
			return i
		}
	}
	return -1
}

// Resolve looks up the replacement text for verb.
func (t *AliasTable) Resolve(verb string) (string, bool) {
	if i := t.find(verb); i >= 0 {
		return t.entries[i].Value, true
	}
	return "", false
}

// Set creates the alias or overwrites its value, keeping its position.
func (t *AliasTable) Set(name, value string) {
	if i := t.find(name); i >= 0 {
		t.entries[i].Value = value
		return
	}
	t.entries = append(t.entries, AliasEntry{Name: name, Value: value})
}

// Remove deletes the alias if present.
func (t *AliasTable) Remove(name string) {
	if i := t.find(name); i >= 0 {
		t.entries = append(t.entries[:i], t.entries[i+1:]...)
	}
}

// List returns a copy of the aliases in insertion order.
func (t *AliasTable) List() []AliasEntry {
	out := make([]AliasEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// splitCommand splits a line into the verb, up to the first space, and the
// remaining arguments with leading spaces removed.
func splitCommand(line string) (verb, args string) {
	verb, args, _ = strings.Cut(line, " ")
	return verb, strings.TrimLeft(args, " ")
}

// expandAlias substitutes the verb if it names an alias. Only one pass is made
// so aliases referring to each other can't loop.
func expandAlias(aliases *AliasTable, verb, args string) (string, string, bool) {
	value, ok := aliases.Resolve(verb)
	if !ok {
		return verb, args, false
	}

	line := value
	if args != "" {
		line += " " + args
	}
	newVerb, newArgs := splitCommand(strings.TrimLeft(line, " "))
	return newVerb, newArgs, true
}
