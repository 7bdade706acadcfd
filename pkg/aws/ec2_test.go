package aws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "web-01", InstanceSummary{InstanceID: "i-0abc", Name: "web-01"}.DisplayName())
	assert.Equal(t, "i-0abc", InstanceSummary{InstanceID: "i-0abc"}.DisplayName())
	assert.Equal(t, "i-0abc", InstanceSummary{InstanceID: "i-0abc", Name: "   "}.DisplayName())
}

func TestDescribeInstancesOutputShape(t *testing.T) {
	payload := `{
		"Reservations": [
			{
				"Instances": [
					{
						"InstanceId": "i-0abc",
						"InstanceType": "t3.micro",
						"PrivateIpAddress": "10.0.0.5",
						"State": {"Name": "running"},
						"Placement": {"AvailabilityZone": "us-west-1a"},
						"Tags": [
							{"Key": "env", "Value": "prod"},
							{"Key": "Name", "Value": "web-01"}
						]
					}
				]
			}
		]
	}`

	var output describeInstancesOutput
	require.NoError(t, json.Unmarshal([]byte(payload), &output))
	require.Len(t, output.Reservations, 1)
	require.Len(t, output.Reservations[0].Instances, 1)

	inst := output.Reservations[0].Instances[0]
	assert.Equal(t, "i-0abc", inst.InstanceId)
	assert.Equal(t, "running", inst.State.Name)
	assert.Equal(t, "us-west-1a", inst.Placement.AvailabilityZone)
	require.Len(t, inst.Tags, 2)
	assert.Equal(t, "Name", inst.Tags[1].Key)
}
