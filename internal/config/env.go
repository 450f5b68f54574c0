package config

import "time"

// Env key constants. Belt configuration env vars use the CUB_ prefix (shared
// by dub); duration values support explicit units (e.g. 500ms, 5s, 2m).

// Log level: debug, info, warn, error.
const envKeyLogLevel = "CUB_LOG_LEVEL"

// Log format: text or json.
const envKeyLogFormat = "CUB_LOG_FORMAT"

// Full classpath override. When set, resolution is bypassed and the value is
// emitted verbatim.
const envKeyClasspath = "CUB_CLASSPATH"

// Additive classpath directories, ':'/';'/','-delimited. Preferred over the
// legacy single-path form.
const envKeyClasspathDirs = "CUB_CLASSPATH_DIRS"

// Legacy single additive classpath entry, used only when CUB_CLASSPATH_DIRS
// is absent.
const envKeyExtraClasspath = "CUB_EXTRA_CLASSPATH"

// Interval between readiness probe attempts. Units: ms, s, m (e.g. 1s).
const (
	envKeyPollInterval = "CUB_POLL_INTERVAL"
	envMinPollInterval = 100 * time.Millisecond
)

// Timeout for a single probe attempt. Must stay below the poll interval so a
// hung attempt cannot starve the retry loop. Units: ms, s (e.g. 900ms).
const (
	envKeyAttemptTimeout = "CUB_ATTEMPT_TIMEOUT"
	envMinAttemptTimeout = 10 * time.Millisecond
)
