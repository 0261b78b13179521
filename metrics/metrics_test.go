package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(LedgerOperationsTotal.WithLabelValues("approve_submission", "error"))
	ObserveOperation("approve_submission", errors.New("not pending"))
	ObserveOperation("approve_submission", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(LedgerOperationsTotal.WithLabelValues("approve_submission", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(LedgerOperationsTotal.WithLabelValues("approve_submission", "ok")), 1.0)
}
