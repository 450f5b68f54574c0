// Command dub is the docker utility belt used by container entrypoints:
// template rendering from the environment, environment assertions, path
// checks and waits, and hand-off to the service process.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/opsbelt/dockerbelt/internal/config"
	"github.com/opsbelt/dockerbelt/internal/infra/logging"
	"github.com/opsbelt/dockerbelt/internal/infra/probe"
	"github.com/opsbelt/dockerbelt/internal/infra/render"
	"github.com/opsbelt/dockerbelt/internal/logic/waiter"
)

const usage = `usage: dub <action> [arguments]

Actions:
  template <src> <dst> [--dollar-only]   render src to dst with env as context
  ensure <env_var>                       fail unless the variable is set non-empty
  path <path> <mode>                     check path (exists|readable|writable|executable)
  path-wait <path> [timeout]             wait for the path to exist
  exec <command> [args...]               replace this process with the command
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dub:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)

		return errors.New("no action given")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	action, rest := args[0], args[1:]

	switch action {
	case "template":
		return runTemplate(rest)
	case "ensure":
		return runEnsure(rest)
	case "path":
		return runPath(rest)
	case "path-wait":
		return runPathWait(ctx, logger, cfg, rest)
	case "exec":
		return runExec(rest)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usage)

		return nil
	default:
		fmt.Fprint(os.Stderr, usage)

		return fmt.Errorf("unknown action %q", action)
	}
}

func runTemplate(args []string) error {
	var (
		dollarOnly  bool
		positionals []string
	)

	for _, arg := range args {
		if arg == "--dollar-only" || arg == "-dollar-only" {
			dollarOnly = true

			continue
		}

		positionals = append(positionals, arg)
	}

	if len(positionals) != 2 {
		return errors.New("usage: dub template <src> <dst> [--dollar-only]")
	}

	return render.File(positionals[0], positionals[1], render.Environ(), dollarOnly)
}

func runEnsure(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: dub ensure <env_var>")
	}

	if os.Getenv(args[0]) == "" {
		return fmt.Errorf("%s is required", args[0])
	}

	return nil
}

func runPath(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: dub path <path> <exists|readable|writable|executable>")
	}

	path, mode := args[0], args[1]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s does not exist", path)
	}

	switch mode {
	case "exists":
		return nil
	case "readable":
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%s is not readable", path)
		}

		_ = f.Close()

		return nil
	case "writable":
		if info.IsDir() {
			probeFile, err := os.CreateTemp(path, ".dub-write-check-*")
			if err != nil {
				return fmt.Errorf("%s is not writable", path)
			}

			_ = probeFile.Close()
			_ = os.Remove(probeFile.Name())

			return nil
		}

		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("%s is not writable", path)
		}

		_ = f.Close()

		return nil
	case "executable":
		if info.Mode()&0o111 == 0 {
			return fmt.Errorf("%s is not executable", path)
		}

		return nil
	default:
		return fmt.Errorf("unknown path mode %q", mode)
	}
}

func runPathWait(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: dub path-wait <path> [timeout]")
	}

	timeout := 10 * time.Second

	if len(args) == 2 {
		parsed, err := parseTimeoutSeconds(args[1])
		if err != nil {
			return err
		}

		timeout = parsed
	}

	file, err := probe.NewFile(args[0])
	if err != nil {
		return err
	}

	policy := waiter.Policy{
		MaxWait:        timeout,
		Interval:       cfg.PollInterval,
		AttemptTimeout: cfg.AttemptTimeout,
	}

	_, err = waiter.WaitFor(ctx, logger, file, policy)

	return err
}

func parseTimeoutSeconds(arg string) (time.Duration, error) {
	seconds, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("parse timeout %q: %w", arg, err)
	}

	if seconds < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %d", seconds)
	}

	return time.Duration(seconds) * time.Second, nil
}

// runExec replaces the dub process with the service command so signals reach
// it directly (PID semantics matter to the container runtime).
func runExec(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: dub exec <command> [args...]")
	}

	binary, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("find %s: %w", args[0], err)
	}

	if err := syscall.Exec(binary, args, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", binary, err)
	}

	return nil
}
