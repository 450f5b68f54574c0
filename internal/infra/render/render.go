// Package render fills entrypoint configuration templates from the process
// environment.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
)

// Render writes the rendered template text to w, using env as context.
//
// Default mode is Go template syntax with the environment as the dot value
// plus an env helper function; unknown keys render empty so entrypoint
// templates tolerate unset optional variables. Dollar-only mode performs
// plain $VAR / ${VAR} substitution and leaves everything else untouched,
// which is safer for config formats that use braces themselves.
func Render(w io.Writer, name, text string, env map[string]string, dollarOnly bool) error {
	if dollarOnly {
		expanded := os.Expand(text, func(key string) string {
			return env[key]
		})

		if _, err := io.WriteString(w, expanded); err != nil {
			return fmt.Errorf("write rendered template %s: %w", name, err)
		}

		return nil
	}

	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(template.FuncMap{
			"env": func(key string) string {
				return env[key]
			},
		}).
		Parse(text)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}

	if err := tmpl.Execute(w, env); err != nil {
		return fmt.Errorf("render template %s: %w", name, err)
	}

	return nil
}

// File renders src into dst, creating or truncating dst.
func File(src, dst string, env map[string]string, dollarOnly bool) error {
	text, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := Render(out, src, string(text), env, dollarOnly); err != nil {
		_ = out.Close()

		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	return nil
}

// Environ captures the process environment as a map for template context.
func Environ() map[string]string {
	env := make(map[string]string)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return env
}
