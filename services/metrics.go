// Package services - services/metrics.go
// file: services/metrics.go
package services

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"go-facilities-admin/logger"
)

// metricsNamespace groups all backend request metrics.
const metricsNamespace = "FacilitiesAdmin"

// MetricsPublisher records the outcome of backend requests.
type MetricsPublisher interface {
	PublishRequest(endpoint string, latency time.Duration, ok bool)
}

// NoopMetrics discards every metric.
type NoopMetrics struct{}

// PublishRequest implements MetricsPublisher.
func (NoopMetrics) PublishRequest(string, time.Duration, bool) {}

// CloudWatchPublisher pushes request latency and failures to CloudWatch.
type CloudWatchPublisher struct {
	client cloudwatchiface.CloudWatchAPI
	now    func() time.Time
}

// NewCloudWatchPublisher builds a publisher from the default AWS session.
func NewCloudWatchPublisher() (*CloudWatchPublisher, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return NewCloudWatchPublisherWithClient(cloudwatch.New(sess)), nil
}

// NewCloudWatchPublisherWithClient wraps an existing CloudWatch client.
func NewCloudWatchPublisherWithClient(client cloudwatchiface.CloudWatchAPI) *CloudWatchPublisher {
	return &CloudWatchPublisher{client: client, now: time.Now}
}

// PublishRequest pushes BackendLatencyMs and, for failures, BackendFailures.
func (p *CloudWatchPublisher) PublishRequest(endpoint string, latency time.Duration, ok bool) {
	p.putMetric("BackendLatencyMs", float64(latency.Milliseconds()), cloudwatch.StandardUnitMilliseconds, endpoint)
	if !ok {
		p.putMetric("BackendFailures", 1, cloudwatch.StandardUnitCount, endpoint)
	}
}

// putMetric sends one datum. Failures are logged and otherwise ignored.
func (p *CloudWatchPublisher) putMetric(metricName string, value float64, unit string, endpoint string) {
	_, err := p.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("Endpoint"),
						Value: aws.String(endpoint),
					},
				},
				Timestamp: aws.Time(p.now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})
	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
