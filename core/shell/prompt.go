package shell

import (
	"strconv"
	"strings"
)

const (
	// MaxPromptLen bounds both the template and the rendered prompt.
	MaxPromptLen = 64

	DefaultPrompt = "%N.%S> "
)

// PromptBindings holds the values substituted into a prompt template.
type PromptBindings struct {
	// TaskNum is the CLI process number, %N.
	TaskNum int
	// Dir is the current directory, %S.
	Dir string
	// ReturnCode is the last return code, %R.
	ReturnCode int
}

// FormatPrompt renders the template. Unknown directives print the directive
// character and the output is cut to MaxPromptLen-1 characters.
func FormatPrompt(template string, b PromptBindings) string {
	var sb strings.Builder

	runes := []rune(template)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' || i == len(runes)-1 {
			sb.WriteRune(runes[i])
			continue
		}

		i++
		switch runes[i] {
		case 'N':
			sb.WriteString(strconv.Itoa(b.TaskNum))
		case 'S':
			sb.WriteString(b.Dir)
		case 'R':
			sb.WriteString(strconv.Itoa(b.ReturnCode))
		default:
			sb.WriteRune(runes[i])
		}
	}

	out := []rune(sb.String())
	if len(out) > MaxPromptLen-1 {
		out = out[:MaxPromptLen-1]
	}
	return string(out)
}
