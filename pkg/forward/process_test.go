package forward

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellJoin(t *testing.T) {
	assert.Equal(t, "aws ssm start-session --target i-0abc",
		shellJoin([]string{"aws", "ssm", "start-session", "--target", "i-0abc"}))

	// Arguments with whitespace or quotes get quoted
	assert.Equal(t, `aws --parameters "{\"portNumber\":[\"80\"]}"`,
		shellJoin([]string{"aws", "--parameters", `{"portNumber":["80"]}`}))
	assert.Equal(t, `echo "hello world" ""`,
		shellJoin([]string{"echo", "hello world", ""}))
}

func TestProcessExitObservation(t *testing.T) {
	p, err := startProcess([]string{"true"})
	require.NoError(t, err)

	assert.True(t, p.waitExit(5*time.Second))
	assert.True(t, p.exited())

	result := p.exitStatus()
	assert.True(t, result.observed)
	assert.False(t, result.signaled)
	assert.Equal(t, 0, result.code)
	assert.Equal(t, "exit=0", result.describe())
}

func TestTerminateEscalation(t *testing.T) {
	p, err := startProcess([]string{"sleep", "30"})
	require.NoError(t, err)
	assert.False(t, p.exited())

	result := p.terminate()
	assert.True(t, p.exited())
	assert.True(t, result.observed)
	assert.True(t, result.signaled)
	assert.Equal(t, syscall.SIGTERM, result.sig)
	assert.Equal(t, "signal=terminated", result.describe())
}

func TestTerminateAfterExitIsANoop(t *testing.T) {
	p, err := startProcess([]string{"false"})
	require.NoError(t, err)
	require.True(t, p.waitExit(5*time.Second))

	result := p.terminate()
	assert.True(t, result.observed)
	assert.Equal(t, 1, result.code)
}

func TestStoppedCleanly(t *testing.T) {
	assert.True(t, stoppedCleanly(exitResult{}))
	assert.True(t, stoppedCleanly(exitResult{observed: true, code: 0}))
	assert.False(t, stoppedCleanly(exitResult{observed: true, code: 1}))
	assert.True(t, stoppedCleanly(exitResult{observed: true, signaled: true, sig: syscall.SIGTERM}))
	assert.True(t, stoppedCleanly(exitResult{observed: true, signaled: true, sig: syscall.SIGKILL}))
	assert.False(t, stoppedCleanly(exitResult{observed: true, signaled: true, sig: syscall.SIGSEGV}))
}

func TestStartProcessEmptyCommand(t *testing.T) {
	_, err := startProcess(nil)
	assert.Error(t, err)
}
