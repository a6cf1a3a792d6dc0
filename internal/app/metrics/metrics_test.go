package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordOutcome(OutcomeSuccess)
	m.RecordOutcome(OutcomeSuccess)
	m.RecordOutcome(OutcomeNoAudio)
	m.RecordStageFailure(StageUpload)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Uploads.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Uploads.WithLabelValues(OutcomeNoAudio)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StageFailures.WithLabelValues(StageUpload)))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.ObserveStage(StageRecognition, 1.5)

	families, err := b.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "relay_stage_duration_seconds" {
			t.Fatalf("registry b should not see observations made on a")
		}
	}
}
