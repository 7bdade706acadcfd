package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellCommand(t *testing.T) {
	inst := Instance{InstanceID: "i-0abc", Profile: "prod", Region: "eu-west-1"}
	assert.Equal(t, []string{
		"aws", "ssm", "start-session",
		"--target", "i-0abc",
		"--profile", "prod",
		"--region", "eu-west-1",
	}, inst.ShellCommand())
}

func TestShellCommandDefaults(t *testing.T) {
	inst := Instance{InstanceID: "i-0abc"}
	cmd := inst.ShellCommand()
	assert.Contains(t, cmd, DefaultProfile)
	assert.Contains(t, cmd, DefaultRegion)
}

func TestPortForwardCommand(t *testing.T) {
	inst := Instance{InstanceID: "i-0abc", Profile: "prod", Region: "eu-west-1"}
	cmd := inst.PortForwardCommand(80, 8080)

	require.GreaterOrEqual(t, len(cmd), 12)
	assert.Equal(t, []string{
		"aws", "ssm", "start-session",
		"--target", "i-0abc",
		"--profile", "prod",
		"--region", "eu-west-1",
	}, cmd[:9])
	assert.Equal(t, "--document-name", cmd[9])
	assert.Equal(t, "AWS-StartPortForwardingSession", cmd[10])
	assert.Equal(t, "--parameters", cmd[11])
	assert.JSONEq(t, `{"portNumber":["80"],"localPortNumber":["8080"]}`, cmd[12])
}

func TestMockInstances(t *testing.T) {
	instances := MockInstances("us-west-1")
	require.NotEmpty(t, instances)
	for _, inst := range instances {
		assert.NotEmpty(t, inst.InstanceID)
		assert.NotEmpty(t, inst.Name)
		assert.Contains(t, inst.AvailabilityZone, "us-west-1")
	}
}
