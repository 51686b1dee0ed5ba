package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrompt(t *testing.T) {
	bindings := PromptBindings{
		TaskNum:    3,
		Dir:        "Work:projects",
		ReturnCode: 10,
	}

	cases := map[string]struct {
		template string
		want     string
	}{
		"default":       {DefaultPrompt, "3.Work:projects> "},
		"lower case":    {"%n%s%x%", "nsx%"},
		"return code":   {"[%R]> ", "[10]> "},
		"percent":       {"100%%", "100%"},
		"unknown":       {"%X>", "X>"},
		"trailing":      {"50%", "50%"},
		"no directives": {"> ", "> "},
		"empty":         {"", ""},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatPrompt(tc.template, bindings))
		})
	}
}

func TestFormatPrompt_truncates(t *testing.T) {
	got := FormatPrompt("%S> ", PromptBindings{Dir: strings.Repeat("é", 100)})
	assert.Equal(t, strings.Repeat("é", MaxPromptLen-1), got)
}
