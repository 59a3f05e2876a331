package llm

// ExtractJSON finds the first complete top-level JSON object in s. Models
// often wrap JSON in prose or code fences. Braces inside strings are
// ignored. It returns "" when no balanced object exists.
func ExtractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			if depth > 0 {
				inString = !inString
			}
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' && depth > 0 {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
