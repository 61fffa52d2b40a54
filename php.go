package webserver

import (
	"errors"
	"os/exec"
	"regexp"

	"github.com/rs/zerolog"
)

// runPHP executes the script at path with the system php interpreter and
// returns its standard output. The interpreter must be on PATH.
func runPHP(path string, logger zerolog.Logger) (string, error) {
	out, err := exec.Command("php", path).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Error().Str("stderr", string(exitErr.Stderr)).Msg("php interpreter reported an error")
			return "", ErrPHPScript
		}
		return "", ErrPHPExecFailed
	}
	return string(out), nil
}

// phpVersionPattern matches the version printed by php -v.
var phpVersionPattern = regexp.MustCompile(`PHP (\d+\.\d+\.\d+-\dubuntu\d+\.\d+)`)

// DetectPHP probes for a php interpreter and returns its version string.
// ErrPHPExecFailed means no interpreter could be started at all; the
// version comes back empty when the output has no recognizable version
// line.
func DetectPHP() (string, error) {
	out, err := exec.Command("php", "-v").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", err
		}
		return "", ErrPHPExecFailed
	}
	match := phpVersionPattern.FindSubmatch(out)
	if match == nil {
		return "", nil
	}
	return string(match[1]), nil
}
