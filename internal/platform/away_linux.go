package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// idleQuery is a command that prints the time since last input, and the
// parser for what it prints.
type idleQuery struct {
	args  []string
	parse func(string) (uint64, error)
}

// idleQueries are tried in order; the first whose binary is on PATH wins.
var idleQueries = []idleQuery{
	{args: []string{"xprintidle"}, parse: parsePlainMillis},
	{
		args: []string{"gdbus", "call", "--session",
			"--dest", "org.gnome.Mutter.IdleMonitor",
			"--object-path", "/org/gnome/Mutter/IdleMonitor/Core",
			"--method", "org.gnome.Mutter.IdleMonitor.GetIdletime"},
		parse: parseVariantMillis,
	},
}

type awayProvider struct {
	query idleQuery
	run   func(name string, args ...string) ([]byte, error)
}

func newAwayProvider() AwayProvider {
	return lookIdleQuery(exec.LookPath, func(name string, args ...string) ([]byte, error) {
		return exec.Command(name, args...).Output()
	})
}

func lookIdleQuery(lookPath func(string) (string, error), run func(string, ...string) ([]byte, error)) AwayProvider {
	for _, query := range idleQueries {
		path, err := lookPath(query.args[0])
		if err != nil {
			continue
		}
		resolved := query
		resolved.args = append([]string{path}, query.args[1:]...)
		return &awayProvider{query: resolved, run: run}
	}
	return AwayProviderFunc(func() (time.Duration, error) { return 0, ErrAwayUnsupported })
}

func (provider *awayProvider) IdleDuration() (time.Duration, error) {
	output, err := provider.run(provider.query.args[0], provider.query.args[1:]...)
	if err != nil {
		return 0, fmt.Errorf("query idle time: %w", err)
	}
	millis, err := provider.query.parse(string(output))
	if err != nil {
		return 0, err
	}
	return time.Duration(millis) * time.Millisecond, nil
}

// parsePlainMillis reads a bare integer such as "123456\n".
func parsePlainMillis(output string) (uint64, error) {
	value := strings.TrimSpace(output)
	if strings.HasPrefix(value, "-") {
		return 0, nil
	}
	millis, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle time %q: %w", value, err)
	}
	return millis, nil
}

// parseVariantMillis reads gdbus output such as "(uint64 123456,)".
func parseVariantMillis(output string) (uint64, error) {
	value := strings.TrimSpace(output)
	value = strings.TrimSuffix(strings.TrimPrefix(value, "("), ")")
	value = strings.TrimSuffix(strings.TrimSpace(value), ",")
	value = strings.TrimPrefix(value, "uint64 ")
	return parsePlainMillis(value)
}
