// Package classpath assembles the Java classpath handed to the platform's
// admin tooling. Resolution is a pure string transformation; all inputs are
// read from the environment once by config and passed in explicitly.
package classpath

import "strings"

const globSuffix = "/*"

// Resolve builds the final classpath string.
//
// Precedence: override wins verbatim; otherwise delimiter-tolerant dirs are
// normalized and appended to the base; otherwise the legacy single extra
// entry is appended; otherwise the base is returned unchanged. The result is
// wrapped in double quotes so downstream shell invocation treats it as one
// token, and always uses ':' as separator regardless of input delimiters.
func Resolve(base, override, dirs, legacyExtra string) string {
	if override != "" {
		return override
	}

	segments := splitDirs(dirs)

	if len(segments) == 0 && strings.TrimSpace(legacyExtra) != "" {
		segments = []string{normalizeSegment(legacyExtra)}
	}

	if len(segments) == 0 {
		return base
	}

	return wrap(strings.Join(append([]string{unwrap(base)}, segments...), ":"))
}

// splitDirs tolerates ':', ';' and ',' as delimiters, trims whitespace,
// drops empty entries and glob-normalizes the rest. A value of only
// separators yields nil, falling through to the legacy branch.
func splitDirs(dirs string) []string {
	if strings.TrimSpace(dirs) == "" {
		return nil
	}

	parts := strings.FieldsFunc(dirs, func(r rune) bool {
		return r == ':' || r == ';' || r == ','
	})

	var segments []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		segments = append(segments, normalizeSegment(part))
	}

	return segments
}

// normalizeSegment appends the glob suffix to a directory that does not
// already carry one, so each entry loads the archives under it.
func normalizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)

	if strings.HasSuffix(segment, "*") {
		return segment
	}

	return strings.TrimSuffix(segment, "/") + globSuffix
}

// unwrap strips one pair of surrounding double quotes from a pre-quoted
// base so re-wrapping does not nest quotes.
func unwrap(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}

	return s
}

// wrap quotes the joined classpath as one shell token. Segments containing
// spaces are protected by this outer quoting; no per-segment escaping is
// performed.
func wrap(s string) string {
	return `"` + s + `"`
}
