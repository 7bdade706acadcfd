package aws

import (
	"encoding/json"
	"os/exec"
	"strconv"
)

const (
	DefaultProfile = "default"
	DefaultRegion  = "us-west-1"
)

// CLIAvailable reports whether the aws CLI is on PATH. Checked once at
// startup; a false answer puts the whole application into simulated mode.
func CLIAvailable() bool {
	_, err := exec.LookPath("aws")
	return err == nil
}

// Instance addresses one EC2 instance for SSM command construction.
type Instance struct {
	InstanceID string
	Profile    string
	Region     string
}

// ShellCommand returns the argument list for an interactive SSM session.
func (i Instance) ShellCommand() []string {
	return i.baseStartSessionCommand()
}

// PortForwardCommand returns the argument list for an SSM port-forwarding
// session from localPort to remotePort on the instance.
func (i Instance) PortForwardCommand(remotePort, localPort int) []string {
	parameters, _ := json.Marshal(map[string][]string{
		"portNumber":      {strconv.Itoa(remotePort)},
		"localPortNumber": {strconv.Itoa(localPort)},
	})
	return append(i.baseStartSessionCommand(),
		"--document-name", "AWS-StartPortForwardingSession",
		"--parameters", string(parameters),
	)
}

func (i Instance) baseStartSessionCommand() []string {
	profile := i.Profile
	if profile == "" {
		profile = DefaultProfile
	}
	region := i.Region
	if region == "" {
		region = DefaultRegion
	}
	return []string{
		"aws", "ssm", "start-session",
		"--target", i.InstanceID,
		"--profile", profile,
		"--region", region,
	}
}
