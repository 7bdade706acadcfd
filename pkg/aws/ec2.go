package aws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"ec2tui/pkg/logging"
)

// InstanceSummary is one row of the instance directory. All identifiers are
// opaque to the rest of the application.
type InstanceSummary struct {
	InstanceID       string
	Name             string
	State            string
	InstanceType     string
	PrivateIP        string
	PublicIP         string
	AvailabilityZone string
}

// DisplayName prefers the Name tag and falls back to the instance ID.
func (s InstanceSummary) DisplayName() string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	return s.InstanceID
}

// describeInstancesOutput mirrors the JSON shape of
// `aws ec2 describe-instances --output json`.
type describeInstancesOutput struct {
	Reservations []struct {
		Instances []struct {
			InstanceId       string `json:"InstanceId"`
			InstanceType     string `json:"InstanceType"`
			PrivateIpAddress string `json:"PrivateIpAddress"`
			PublicIpAddress  string `json:"PublicIpAddress"`
			State            struct {
				Name string `json:"Name"`
			} `json:"State"`
			Placement struct {
				AvailabilityZone string `json:"AvailabilityZone"`
			} `json:"Placement"`
			Tags []struct {
				Key   string `json:"Key"`
				Value string `json:"Value"`
			} `json:"Tags"`
		} `json:"Instances"`
	} `json:"Reservations"`
}

// ListInstances shells out to the aws CLI and returns the instances in the
// given profile/region, running instances first, then by display name.
func ListInstances(profile, region string) ([]InstanceSummary, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	if region == "" {
		region = DefaultRegion
	}

	cmd := exec.Command("aws", "ec2", "describe-instances",
		"--profile", profile,
		"--region", region,
		"--filters", "Name=instance-state-name,Values=pending,running,stopping,stopped",
		"--output", "json",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.LogDebug("Listing instances: aws ec2 describe-instances --profile %s --region %s", profile, region)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("aws ec2 describe-instances failed: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("aws ec2 describe-instances failed: %w", err)
	}

	var output describeInstancesOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("failed to parse describe-instances output: %w", err)
	}

	var summaries []InstanceSummary
	for _, reservation := range output.Reservations {
		for _, inst := range reservation.Instances {
			summary := InstanceSummary{
				InstanceID:       inst.InstanceId,
				State:            inst.State.Name,
				InstanceType:     inst.InstanceType,
				PrivateIP:        inst.PrivateIpAddress,
				PublicIP:         inst.PublicIpAddress,
				AvailabilityZone: inst.Placement.AvailabilityZone,
			}
			if summary.State == "" {
				summary.State = "unknown"
			}
			if summary.InstanceType == "" {
				summary.InstanceType = "unknown"
			}
			for _, tag := range inst.Tags {
				if tag.Key == "Name" {
					summary.Name = tag.Value
				}
			}
			summaries = append(summaries, summary)
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		iRunning := summaries[i].State == "running"
		jRunning := summaries[j].State == "running"
		if iRunning != jRunning {
			return iRunning
		}
		return strings.ToLower(summaries[i].DisplayName()) < strings.ToLower(summaries[j].DisplayName())
	})
	return summaries, nil
}

// MockInstances is the simulated-mode instance directory, used when the aws
// CLI is not installed.
func MockInstances(region string) []InstanceSummary {
	if region == "" {
		region = DefaultRegion
	}
	shortRegion := strings.ReplaceAll(region, "-", "")
	return []InstanceSummary{
		{
			InstanceID:       fmt.Sprintf("i-%sa1b2c3d4e5f6", shortRegion),
			Name:             "demo-bastion",
			State:            "running",
			InstanceType:     "t3.micro",
			PrivateIP:        "10.0.1.21",
			PublicIP:         "54.10.10.21",
			AvailabilityZone: region + "a",
		},
		{
			InstanceID:       fmt.Sprintf("i-%s112233445566", shortRegion),
			Name:             "demo-app-01",
			State:            "running",
			InstanceType:     "t3.small",
			PrivateIP:        "10.0.2.34",
			AvailabilityZone: region + "b",
		},
		{
			InstanceID:       fmt.Sprintf("i-%s998877665544", shortRegion),
			Name:             "demo-rabbitmq",
			State:            "stopped",
			InstanceType:     "t3.medium",
			PrivateIP:        "10.0.3.10",
			AvailabilityZone: region + "c",
		},
	}
}
