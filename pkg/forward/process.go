package forward

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"ec2tui/pkg/logging"
)

// Grace periods for the escalating termination sequence: SIGTERM, wait,
// SIGKILL, wait, abandon.
const (
	termGracePeriod = 3 * time.Second
	killGracePeriod = 2 * time.Second
)

// startProcessFn can be swapped in tests to avoid spawning real commands.
var startProcessFn = startProcess

// process supervises one detached child. The child runs in its own process
// group so it survives the interactive session and can be signaled as a
// group, taking any grandchildren with it.
type process struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func startProcess(args []string) (*process, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	cmd := exec.Command(args[0], args[1:]...)
	// Stdin/Stdout/Stderr stay nil: the tunnel child reads and writes nothing
	// we care about, and it must not touch the TUI's terminal.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &process{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func (p *process) pid() int {
	return p.cmd.Process.Pid
}

// exited is a non-blocking liveness check.
func (p *process) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// waitExit blocks until the process exits or the timeout elapses.
func (p *process) waitExit(timeout time.Duration) bool {
	select {
	case <-p.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// signal delivers sig to the whole process group, falling back to the
// process alone when group signaling is unavailable.
func (p *process) signal(sig syscall.Signal) {
	if err := syscall.Kill(-p.pid(), sig); err != nil {
		logging.LogDebug("Group signal %v to pgid %d failed (%v); signaling process directly", sig, p.pid(), err)
		if err := p.cmd.Process.Signal(sig); err != nil {
			logging.LogDebug("Signal %v to pid %d failed: %v", sig, p.pid(), err)
		}
	}
}

// exitResult describes how a process ended, as far as we observed it.
type exitResult struct {
	observed bool           // an exit was actually seen
	signaled bool           // killed by a signal rather than exiting
	sig      syscall.Signal // the fatal signal when signaled
	code     int            // the exit code when not signaled
}

func (r exitResult) describe() string {
	switch {
	case !r.observed:
		return "exit=?"
	case r.signaled:
		return fmt.Sprintf("signal=%v", r.sig)
	default:
		return fmt.Sprintf("exit=%d", r.code)
	}
}

// exitStatus reports the exit outcome. Only meaningful once exited() is true.
func (p *process) exitStatus() exitResult {
	state := p.cmd.ProcessState
	if state == nil {
		return exitResult{}
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return exitResult{observed: true, signaled: true, sig: ws.Signal()}
	}
	return exitResult{observed: true, code: state.ExitCode()}
}

// terminate runs the escalating shutdown: graceful signal with a bounded
// wait, then a forceful kill with a shorter bounded wait, then give up. A
// process that survives SIGKILL is abandoned rather than retried forever.
func (p *process) terminate() exitResult {
	if p.exited() {
		return p.exitStatus()
	}

	p.signal(syscall.SIGTERM)
	if p.waitExit(termGracePeriod) {
		return p.exitStatus()
	}

	p.signal(syscall.SIGKILL)
	if !p.waitExit(killGracePeriod) {
		logging.LogError("Process %d still alive after SIGKILL; abandoning it", p.pid())
		return exitResult{}
	}
	return p.exitStatus()
}

// stoppedCleanly reports whether an exit observed right after a requested
// stop should count as a clean stop: a zero code, no observed exit at all,
// or death by one of the signals the termination sequence sends.
func stoppedCleanly(r exitResult) bool {
	if !r.observed {
		return true
	}
	if r.signaled {
		return r.sig == syscall.SIGTERM || r.sig == syscall.SIGKILL
	}
	return r.code == 0
}
