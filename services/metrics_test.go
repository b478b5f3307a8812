// file: services/metrics_test.go
package services

import (
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	cloudwatchiface.CloudWatchAPI
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(in *cloudwatch.PutMetricDataInput) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestCloudWatchPublisher_Success(t *testing.T) {
	cw := &fakeCloudWatch{}
	p := NewCloudWatchPublisherWithClient(cw)
	p.PublishRequest(CreateMeeting, 150*time.Millisecond, true)

	require.Len(t, cw.inputs, 1)
	in := cw.inputs[0]
	assert.Equal(t, "FacilitiesAdmin", aws.StringValue(in.Namespace))
	datum := in.MetricData[0]
	assert.Equal(t, "BackendLatencyMs", aws.StringValue(datum.MetricName))
	assert.Equal(t, 150.0, aws.Float64Value(datum.Value))
	assert.Equal(t, "Endpoint", aws.StringValue(datum.Dimensions[0].Name))
	assert.Equal(t, CreateMeeting, aws.StringValue(datum.Dimensions[0].Value))
}

func TestCloudWatchPublisher_FailureCounted(t *testing.T) {
	cw := &fakeCloudWatch{err: errors.New("throttled")}
	p := NewCloudWatchPublisherWithClient(cw)
	p.PublishRequest("listUsers", time.Millisecond, false)

	require.Len(t, cw.inputs, 2, "errors from CloudWatch are only logged")
	assert.Equal(t, "BackendFailures", aws.StringValue(cw.inputs[1].MetricData[0].MetricName))
}
