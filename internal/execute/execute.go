// Package execute runs a fully-resolved shell command through the platform
// shell, streaming combined output to the terminal while capturing it for
// session context.
package execute

import (
	"io"
	"os"
	"os/exec"
	"runtime"

	"shellsage/internal/logging"
)

// MaxCaptureBytes bounds the captured output. The ceiling exists because
// captured output becomes conversational context, not a user-facing log.
const MaxCaptureBytes = 2000

// truncationMarker is appended when the capture was cut at the ceiling.
const truncationMarker = "\n... [output truncated]"

// ExitUnknown is the exit code reported when the process cannot be spawned
// or its status cannot be determined.
const ExitUnknown = -1

// Result holds the child's exit status and the captured combined output.
type Result struct {
	ExitCode int
	Output   string
}

// Truncated reports whether the captured output hit the ceiling.
func (r Result) Truncated() bool {
	return len(r.Output) > MaxCaptureBytes
}

// Run spawns the command through the platform shell with stderr merged into
// stdout, writing output to w as it is produced. No timeout is enforced:
// the call blocks until the child exits. Spawn failures are reported in the
// Result, not as an error.
func Run(command string, w io.Writer) Result {
	timer := logging.StartTimer(logging.CategoryExec, "command execution")
	defer timer.Stop()

	logging.Exec("executing: %s", command)

	if w == nil {
		w = os.Stdout
	}

	shell, flag := platformShell()
	cmd := exec.Command(shell, flag, command)

	var capture limitWriter
	out := io.MultiWriter(w, &capture)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		logging.ExecError("spawn failed: %v", err)
		return Result{ExitCode: ExitUnknown, Output: "Failed to execute command: " + err.Error()}
	}

	err := cmd.Wait()

	exitCode := ExitUnknown
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && exitCode == ExitUnknown {
		logging.ExecError("wait failed: %v", err)
	}

	output := capture.String()
	logging.Exec("completed: exit=%d captured=%d bytes truncated=%v",
		exitCode, len(output), capture.truncated)

	return Result{ExitCode: exitCode, Output: output}
}

func platformShell() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "sh", "-c"
}

// limitWriter accumulates up to MaxCaptureBytes, then discards the rest and
// remembers that truncation happened.
type limitWriter struct {
	buf       []byte
	truncated bool
}

func (l *limitWriter) Write(p []byte) (int, error) {
	room := MaxCaptureBytes - len(l.buf)
	if room > 0 {
		if len(p) <= room {
			l.buf = append(l.buf, p...)
		} else {
			l.buf = append(l.buf, p[:room]...)
			l.truncated = true
		}
	} else if len(p) > 0 {
		l.truncated = true
	}
	return len(p), nil
}

func (l *limitWriter) String() string {
	if l.truncated {
		return string(l.buf) + truncationMarker
	}
	return string(l.buf)
}
