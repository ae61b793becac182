package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/cuongbtq/vtryon/internal/tryon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryOn_Observer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTryOn(reg)

	m.Submitted("abc")
	m.Polled("abc", 1, tryon.StatusPending)
	m.PollFailed("abc", 2, errors.New("reset"))
	m.Polled("abc", 3, tryon.StatusCompleted)
	m.Finished(tryon.Outcome{Success: true, ID: "abc", Kind: tryon.KindSucceeded}, 6*time.Second)

	m.Finished(tryon.Outcome{Error: "FASHN_API_KEY is not configured", Kind: tryon.KindConfigurationError}, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusQueries.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusQueries.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("succeeded", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("configuration_error", "false")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))

	count, err := testutil.GatherAndCount(reg, "vtryon_session_duration_seconds", "vtryon_terminal_status_attempt")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTryOn_InFlightWithoutID(t *testing.T) {
	m := NewTryOn(prometheus.NewRegistry())

	m.Submitted("")
	m.Finished(tryon.Outcome{Error: "x", Kind: tryon.KindRemoteJobError}, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsSubmitted))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))

	m.Submitted("abc")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
	m.Finished(tryon.Outcome{Error: tryon.MessageProcessingFailed, ID: "abc", Kind: tryon.KindProcessingFailure}, time.Second)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}
