package templates

import "regexp"

var placeholderRegex = regexp.MustCompile(`\{([^{}]+)\}`)

// Render replaces each {key} in text with values[key].
// Placeholders without a value are left as written.
func Render(text string, values map[string]string) string {
	return placeholderRegex.ReplaceAllStringFunc(text, func(match string) string {
		if v, ok := values[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})
}

// Placeholders lists the distinct keys in text in order of first use
func Placeholders(text string) []string {
	seen := make(map[string]bool)
	keys := make([]string, 0)
	for _, m := range placeholderRegex.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// missingKeys lists the placeholders of text that values does not fill
func missingKeys(text string, values map[string]string) []string {
	missing := make([]string, 0)
	for _, key := range Placeholders(text) {
		if _, ok := values[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
