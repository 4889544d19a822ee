package aws

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const metricsNamespace = "AccountOpening"

// MetricsEmitter publishes per-stage pipeline metrics to CloudWatch.
// Emission is best-effort: a metrics failure must never fail a pipeline run.
type MetricsEmitter struct {
	client  CloudWatchAPI
	nowFunc func() time.Time
}

// NewMetricsEmitter returns an emitter bound to a CloudWatch client.
func NewMetricsEmitter(client CloudWatchAPI) *MetricsEmitter {
	return &MetricsEmitter{
		client:  client,
		nowFunc: time.Now,
	}
}

// EmitStageOutcome records one data point for a stage verdict.
// outcome is "approved", "rejected" or "failed".
func (m *MetricsEmitter) EmitStageOutcome(ctx context.Context, stage, outcome string) {
	if m == nil || m.client == nil {
		return
	}
	now := m.nowFunc()
	one := 1.0
	input := &cloudwatch.PutMetricDataInput{
		Namespace: awsString(metricsNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("StageOutcome"),
				Timestamp:  &now,
				Value:      &one,
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: awsString("Stage"), Value: &stage},
					{Name: awsString("Outcome"), Value: &outcome},
				},
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		log.Printf("[metrics] put metric data failed: stage=%s outcome=%s err=%v", stage, outcome, err)
	}
}

// awsString helper
func awsString(s string) *string { return &s }
