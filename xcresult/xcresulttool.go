package xcresult

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/errorutil"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Xcode 16 beta1 ships xcresulttool version 23000, it needs the --legacy flag for the object graph commands.
const legacyFlagMinVersion = 23_000

var versionRegexp = regexp.MustCompile("xcresulttool version ([0-9]+)")

type xcresulttool struct {
	commandFactory command.Factory
	logger         log.Logger
}

func (t xcresulttool) version() (int, error) {
	cmd := t.commandFactory.Create("xcrun", []string{"xcresulttool", "version"}, nil)
	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		if errorutil.IsExitStatusError(err) {
			return 0, fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), out)
		}
		return 0, fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), err)
	}

	return parseVersion(out)
}

// parseVersion parses outputs like: xcresulttool version 23025, format version 3.53 (current)
func parseVersion(out string) (int, error) {
	matches := versionRegexp.FindStringSubmatch(out)
	if len(matches) < 2 {
		return 0, fmt.Errorf("no version matches found in output: %s", out)
	}

	version, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("failed to convert version: %s", matches[1])
	}
	return version, nil
}

func getArgs(xcresultPth, id string, useLegacyFlag bool) []string {
	args := []string{"xcresulttool", "get", "--format", "json"}
	if useLegacyFlag {
		args = append(args, "--legacy")
	}

	args = append(args, "--path", xcresultPth)
	if id != "" {
		args = append(args, "--id", id)
	}
	return args
}

func exportArgs(xcresultPth, id, outputPth string, useLegacyFlag bool) []string {
	args := []string{"xcresulttool", "export", "--type", "file"}
	if useLegacyFlag {
		args = append(args, "--legacy")
	}

	return append(args, "--path", xcresultPth, "--output-path", outputPth, "--id", id)
}

func coverageArgs(xcresultPth string) []string {
	return []string{"xccov", "view", "--report", "--json", xcresultPth}
}

// get performs xcrun xcresulttool get with --id flag defined if id provided and unmarshals the output into v.
func (t xcresulttool) get(xcresultPth, id string, useLegacyFlag bool, v interface{}) error {
	return t.runJSON(getArgs(xcresultPth, id, useLegacyFlag), v)
}

// export writes the payload with the given id to outputPth.
func (t xcresulttool) export(xcresultPth, id, outputPth string, useLegacyFlag bool) error {
	cmd := t.commandFactory.Create("xcrun", exportArgs(xcresultPth, id, outputPth, useLegacyFlag), nil)
	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		if errorutil.IsExitStatusError(err) {
			return fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), out)
		}
		return fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), err)
	}
	return nil
}

// coverage reads the line and function coverage report of the bundle with xccov.
func (t xcresulttool) coverage(xcresultPth string, v interface{}) error {
	return t.runJSON(coverageArgs(xcresultPth), v)
}

func (t xcresulttool) runJSON(args []string, v interface{}) error {
	var outBuffer, errBuffer, combinedBuffer bytes.Buffer
	outWriter := io.MultiWriter(&outBuffer, &combinedBuffer)
	errWriter := io.MultiWriter(&errBuffer, &combinedBuffer)

	cmd := t.commandFactory.Create("xcrun", args, &command.Opts{
		Stdout: outWriter,
		Stderr: errWriter,
	})
	if err := cmd.Run(); err != nil {
		if errorutil.IsExitStatusError(err) {
			return fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), combinedBuffer.String())
		}
		return fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), err)
	}
	if stdErr := errBuffer.String(); stdErr != "" {
		t.logger.Warnf("%s: %s", cmd.PrintableCommandArgs(), stdErr)
	}

	stdout := outBuffer.Bytes()
	if err := json.Unmarshal(stdout, v); err != nil {
		t.logger.Warnf("Failed to parse %s command output, first lines:\n%s", cmd.PrintableCommandArgs(), firstLines(string(stdout), 10))
		return err
	}
	return nil
}

func firstLines(out string, count int) string {
	if count < 1 {
		return ""
	}

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) >= count {
			break
		}
	}
	return strings.Join(lines, "\n")
}
