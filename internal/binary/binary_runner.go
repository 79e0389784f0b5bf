package binary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	. "github.com/cricklet/duckchess/internal/helpers"
)

var ErrTimeout = errors.New("timed out")
var ErrExited = errors.New("process exited")

// BinaryRunner drives a line-oriented child process such as a UCI engine.
type BinaryRunner struct {
	cmdPath string
	cmd     *exec.Cmd

	stdin  io.WriteCloser
	stdout *lineBuffer

	recordLock sync.Mutex
	record     []string

	Logger Logger
}

type BinaryRunnerOption func(*BinaryRunner)

func WithLogger(logger Logger) BinaryRunnerOption {
	return func(u *BinaryRunner) {
		u.Logger = logger
	}
}

func (u *BinaryRunner) CmdPath() string {
	return u.cmdPath
}

func (u *BinaryRunner) appendRecord(line string) {
	u.recordLock.Lock()
	defer u.recordLock.Unlock()
	u.record = append(u.record, line)
}

func (u *BinaryRunner) flush(indent string) string {
	u.recordLock.Lock()
	defer u.recordLock.Unlock()
	return Indent(strings.Join(u.record, "\n"), indent)
}

// Flush returns everything written to and read from the process so far.
func (u *BinaryRunner) Flush() string {
	return "> " + u.flush("> ")
}

func wrapError(u *BinaryRunner, err error) Error {
	if !IsNil(err) {
		return Wrap(fmt.Errorf("%w\n.  %v\n", err, u.flush(".  ")))
	}
	return NilError
}

// avoidSpam filters the search progress lines engines print many times a second.
func avoidSpam(line string) bool {
	if strings.Contains(line, "multipv") && !strings.Contains(line, "multipv 1 ") {
		return true
	}
	return strings.Contains(line, "currmove")
}

func SetupBinaryRunner(cmdPath string, args []string, options ...BinaryRunnerOption) (*BinaryRunner, Error) {
	u := &BinaryRunner{
		cmdPath: cmdPath,
		stdout:  newLineBuffer(),
	}

	for _, option := range options {
		option(u)
	}

	if u.Logger == nil {
		u.Logger = &DefaultLogger
	}

	u.Logger.Println(cmdPath, args)
	cmd := exec.Command(cmdPath, args...)

	var err error
	u.stdin, err = cmd.StdinPipe()
	if !IsNil(err) {
		return nil, wrapError(u, err)
	}

	stdout, err := cmd.StdoutPipe()
	if !IsNil(err) {
		return nil, wrapError(u, err)
	}
	stderr, err := cmd.StderrPipe()
	if !IsNil(err) {
		return nil, wrapError(u, err)
	}

	err = cmd.Start()
	if !IsNil(err) {
		return nil, wrapError(u, err)
	}
	u.cmd = cmd

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if !avoidSpam(line) {
				u.Logger.Println("stdout: ", Ellipses(line, 140))
			}
			u.appendRecord("out: " + line)
			u.stdout.Push(line)
		}
		u.stdout.Close()
	}()

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			u.appendRecord("err: " + scanner.Text())
		}
	}()

	return u, NilError
}

func (u *BinaryRunner) RunAsync(input string) Error {
	if u.cmd == nil {
		return wrapError(u, fmt.Errorf("%w: %v", ErrExited, u.cmdPath))
	}

	u.Logger.Println("stdin: ", input)
	u.appendRecord("in:  " + strings.TrimSpace(input))

	_, err := io.WriteString(u.stdin, input+"\n")
	if !IsNil(err) {
		return wrapError(u, err)
	}

	return NilError
}

// RunSync writes input and feeds each following stdout line to callback until it
// returns LoopBreak. Lines after the break stay buffered for the next call.
func (u *BinaryRunner) RunSync(input string, callback func(string) (LoopResult, Error), timeout time.Duration) Error {
	err := u.RunAsync(input)
	if !IsNil(err) {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		lines, closed := u.stdout.Drain()
		for i, line := range lines {
			result, err := callback(line)
			if !IsNil(err) {
				u.stdout.Unread(lines[i+1:])
				return err
			}
			if result == LoopBreak {
				u.stdout.Unread(lines[i+1:])
				return NilError
			}
		}

		if closed {
			return wrapError(u, fmt.Errorf("%w while waiting on %q", ErrExited, input))
		}

		select {
		case <-u.stdout.Wait():
		case <-timer.C:
			return wrapError(u, fmt.Errorf("%w after %v waiting on %q", ErrTimeout, timeout, input))
		}
	}
}

// Run writes input and collects output until a line containing waitFor. Without
// waitFor it collects whatever arrives before the timeout.
func (u *BinaryRunner) Run(input string, waitFor Optional[string], timeout time.Duration) ([]string, Error) {
	result := []string{}

	err := u.RunSync(input, func(line string) (LoopResult, Error) {
		result = append(result, line)
		if waitFor.HasValue() && strings.Contains(line, waitFor.Value()) {
			return LoopBreak, NilError
		}
		return LoopContinue, NilError
	}, timeout)

	if waitFor.IsEmpty() && errors.Is(err, ErrTimeout) {
		return result, NilError
	}

	return result, err
}

func (u *BinaryRunner) Close() {
	if u.cmd != nil {
		_ = u.stdin.Close()
		_ = u.cmd.Process.Kill()
		_ = u.cmd.Wait()
		u.cmd = nil
	}
}
