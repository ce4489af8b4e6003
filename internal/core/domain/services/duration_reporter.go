package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/pkg/errs"
)

// DurationOrder selects the ordering of duration records.
type DurationOrder string

const (
	// StartAscending orders records by start timestamp, oldest first.
	StartAscending DurationOrder = "start_asc"

	// EndDescending orders records by end timestamp, most recent first.
	EndDescending DurationOrder = "end_desc"
)

// ParseDurationOrder accepts "" (StartAscending), "start_asc" or "end_desc".
func ParseDurationOrder(s string) (DurationOrder, error) {
	switch o := DurationOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return StartAscending, nil
	case StartAscending, EndDescending:
		return o, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("%q is not start_asc or end_desc", s))
	}
}

// DurationRecord describes one completed step.
type DurationRecord struct {
	ProjectID       kernel.UUID
	ProjectName     string
	WorkOrderID     kernel.UUID
	WorkOrderNumber string
	StepIndex       int
	StepName        string
	Operator        string
	StartedAt       time.Time
	EndedAt         time.Time
	Duration        time.Duration
	Minutes         float64
}

// DurationReporter projects completed instances into duration records.
type DurationReporter struct{}

func NewDurationReporter() DurationReporter {
	return DurationReporter{}
}

// Records returns one record per completed instance of workOrders. projectNames
// resolves project identifiers to display names; unknown projects get an empty
// name. The inputs are not modified.
func (DurationReporter) Records(
	workOrders []*workorder.WorkOrder,
	projectNames map[kernel.UUID]string,
	order DurationOrder,
) []DurationRecord {
	records := make([]DurationRecord, 0)
	for _, wo := range workOrders {
		if wo.Validate() != nil {
			continue
		}
		for _, pi := range wo.Instances() {
			d, ok := pi.Duration()
			if !ok {
				continue
			}
			records = append(records, DurationRecord{
				ProjectID:       wo.ProjectID(),
				ProjectName:     projectNames[wo.ProjectID()],
				WorkOrderID:     wo.ID(),
				WorkOrderNumber: wo.Number(),
				StepIndex:       pi.StepIndex(),
				StepName:        pi.StepName(),
				Operator:        pi.Operator(),
				StartedAt:       *pi.StartedAt(),
				EndedAt:         *pi.EndedAt(),
				Duration:        d,
				Minutes:         d.Minutes(),
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if order == EndDescending {
			if !a.EndedAt.Equal(b.EndedAt) {
				return a.EndedAt.After(b.EndedAt)
			}
		} else if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.Before(b.StartedAt)
		}
		if a.WorkOrderNumber != b.WorkOrderNumber {
			return a.WorkOrderNumber < b.WorkOrderNumber
		}
		return a.StepIndex < b.StepIndex
	})

	return records
}
