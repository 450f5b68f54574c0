package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBodyProbeBytes bounds how much of a health response is read when
// looking for the expected token.
const maxBodyProbeBytes = 64 * 1024

// HTTPOptions carries the transport and auth knobs shared by all HTTP-based
// readiness commands.
type HTTPOptions struct {
	Path       string
	Expect     string
	Secure     bool
	IgnoreCert bool
	Username   string
	Password   string
}

// HTTPProbe issues a GET against a health endpoint and expects a 2xx
// response, optionally containing a marker token in the body.
type HTTPProbe struct {
	name     string
	url      string
	expect   string
	username string
	password string
	client   *http.Client
}

func NewHTTP(name, host string, port int, timeout time.Duration, opts HTTPOptions) (*HTTPProbe, error) {
	if _, err := joinHostPort(host, port); err != nil {
		return nil, err
	}

	scheme := "http"
	if opts.Secure {
		scheme = "https"
	}

	u := url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   "/" + strings.TrimPrefix(opts.Path, "/"),
	}

	// Keep-alives off: every attempt must open and fully close its own
	// connection, rather than reuse a socket from a previous attempt.
	transport := &http.Transport{
		DisableKeepAlives: true,
	}

	if opts.IgnoreCert {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // --ignore-cert is operator-requested
	}

	return &HTTPProbe{
		name:     name,
		url:      u.String(),
		expect:   opts.Expect,
		username: opts.Username,
		password: opts.Password,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

func (p *HTTPProbe) Name() string {
	return p.name
}

func (p *HTTPProbe) Check(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Fault(fmt.Errorf("build request for %s: %w", p.url, err))
	}

	if p.username != "" || p.password != "" {
		req.SetBasicAuth(p.username, p.password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return NotReadyf("%s cannot be reached: %v", p.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyProbeBytes))
	if err != nil {
		return NotReadyf("%s: read response: %v", p.url, err)
	}

	if resp.StatusCode/100 != 2 {
		return NotReadyf("%s answered %d: %s", p.url, resp.StatusCode, snippet(body))
	}

	if p.expect != "" && !strings.Contains(string(body), p.expect) {
		return NotReadyf("%s answered without %q marker: %s", p.url, p.expect, snippet(body))
	}

	return Ready()
}

func snippet(body []byte) string {
	const max = 200

	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}

	return s
}

// Per-service presets matching what each component of the platform is known
// to answer once it is fully initialized.

// NewSchemaRegistry expects /config to return the compatibility level.
func NewSchemaRegistry(host string, port int, timeout time.Duration, opts HTTPOptions) (*HTTPProbe, error) {
	opts.Path = "config"
	opts.Expect = "compatibilityLevel"

	return NewHTTP("schema-registry", host, port, timeout, opts)
}

// NewKafkaRest expects the topic listing to be served, which exercises the
// proxy's backing cluster connection.
func NewKafkaRest(host string, port int, timeout time.Duration, opts HTTPOptions) (*HTTPProbe, error) {
	opts.Path = "topics"
	opts.Expect = ""

	return NewHTTP("kafka-rest", host, port, timeout, opts)
}

// NewConnect expects the worker root resource, which carries its version.
func NewConnect(host string, port int, timeout time.Duration, opts HTTPOptions) (*HTTPProbe, error) {
	opts.Path = ""
	opts.Expect = "version"

	return NewHTTP("connect", host, port, timeout, opts)
}

// NewKSQL expects /info to identify the KSQL server, distinguishing it from
// any generic HTTP listener on the same port.
func NewKSQL(host string, port int, timeout time.Duration, opts HTTPOptions) (*HTTPProbe, error) {
	opts.Path = "info"
	opts.Expect = "Ksql"

	return NewHTTP("ksql-server", host, port, timeout, opts)
}

// NewControlCenter expects the UI root to carry the product name.
func NewControlCenter(host string, port int, timeout time.Duration, opts HTTPOptions) (*HTTPProbe, error) {
	opts.Path = ""
	opts.Expect = "Control Center"

	return NewHTTP("control-center", host, port, timeout, opts)
}
