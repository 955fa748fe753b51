package util

import (
	"sort"
	"strconv"
	"strings"
)

// Format fills {name} placeholders in tmpl from vars and appends the optional
// examples and extra guidance blocks. Placeholders without a value are left
// as they are. Substitution is a single pass, so values that themselves
// contain {name} text are not expanded again.
func Format(tmpl string, vars map[string]string, examples []string, extraGuidance string) string {
	prompt := tmpl

	if len(vars) > 0 {
		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys)*2)
		for _, k := range keys {
			pairs = append(pairs, "{"+k+"}", vars[k])
		}
		prompt = strings.NewReplacer(pairs...).Replace(prompt)
	}

	var b strings.Builder
	b.WriteString(prompt)

	if len(examples) > 0 {
		b.WriteString("\n\nEXAMPLES:\n")
		for i, ex := range examples {
			b.WriteString("\nExample " + strconv.Itoa(i+1) + ":\n" + ex + "\n")
		}
	}

	if extraGuidance != "" {
		b.WriteString("\n\nADDITIONAL GUIDELINES:\n" + extraGuidance)
	}

	return b.String()
}

// TruncateString truncates a string to maxLen runes (Unicode-safe)
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
