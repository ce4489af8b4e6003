package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopfloor/internal/adapters/out/metrics"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/domain/services"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_OnTransition(t *testing.T) {
	r := metrics.NewRecorder()

	r.OnTransition(context.Background(), workorder.Transition{Kind: scantoken.Start, WorkOrderStatus: workorder.InProgress})
	r.OnTransition(context.Background(), workorder.Transition{Kind: scantoken.End, WorkOrderStatus: workorder.InProgress})
	r.OnTransition(context.Background(), workorder.Transition{Kind: scantoken.End, WorkOrderStatus: workorder.Completed})

	count, err := testutil.GatherAndCount(r.Registry(), "shopfloor_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per kind")

	completed, err := testutil.GatherAndCount(r.Registry(), "shopfloor_work_orders_completed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
}

func TestRejectionReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: S.x", scantoken.ErrUnknownToken), "unknown_token"},
		{&workorder.TransitionError{Reason: workorder.ErrOutOfSequence}, "out_of_sequence"},
		{&workorder.TransitionError{Reason: workorder.ErrAlreadyStarted}, "already_started"},
		{&workorder.TransitionError{Reason: workorder.ErrAlreadyCompleted}, "already_completed"},
		{&workorder.TransitionError{Reason: workorder.ErrNotStarted}, "not_started"},
		{&workorder.TransitionError{Reason: workorder.ErrInstanceNotFound}, "instance_not_found"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.RejectionReason(tt.err))
		})
	}
}

func TestRecorder_SetSnapshot(t *testing.T) {
	r := metrics.NewRecorder()
	r.SetSnapshot([]services.Progress{
		{WorkOrderNumber: "WO-1", Status: workorder.InProgress, Percentage: 40},
		{WorkOrderNumber: "WO-2", Status: workorder.Completed, Percentage: 100},
	})
	r.SetStalledSteps(3)
	r.ObserveRejection(workorder.ErrOutOfSequence)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `shopfloor_work_order_progress_percent{work_order="WO-1"} 40`)
	assert.NotContains(t, body, `work_order="WO-2"`)
	assert.Contains(t, body, `shopfloor_work_orders{status="completed"} 1`)
	assert.Contains(t, body, `shopfloor_work_orders{status="blocked"} 0`)
	assert.Contains(t, body, "shopfloor_stalled_steps 3")
	assert.Contains(t, body, `shopfloor_scan_rejections_total{reason="out_of_sequence"} 1`)
}
