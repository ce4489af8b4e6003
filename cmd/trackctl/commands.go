package main

import (
	"fmt"
	"strconv"
	"time"

	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"

	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ctx.ensureRoot(cmd.Context())
			if err != nil {
				return err
			}
			if err = root.Migrate(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return err
		},
	}
}

type transitionView struct {
	WorkOrder       string `json:"workOrder"`
	StepIndex       int    `json:"stepIndex"`
	StepName        string `json:"stepName"`
	Kind            string `json:"transitionKind"`
	Status          string `json:"status"`
	Operator        string `json:"operator"`
	At              string `json:"at"`
	WorkOrderStatus string `json:"workOrderStatus"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var operator, kind string

	cmd := &cobra.Command{
		Use:   "scan <token>",
		Short: "Apply a start or end scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scan, err := commands.NewApplyScanCommand(args[0], operator, kind)
			if err != nil {
				return err
			}

			root, err := ctx.ensureRoot(cmd.Context())
			if err != nil {
				return err
			}
			tr, err := root.CreateApplyScanCommandHandler().Handle(cmd.Context(), scan)
			if err != nil {
				return err
			}

			view := transitionView{
				WorkOrder:       tr.WorkOrderNumber,
				StepIndex:       tr.StepIndex,
				StepName:        tr.StepName,
				Kind:            tr.Kind.String(),
				Status:          tr.Status.String(),
				Operator:        tr.Operator,
				At:              tr.At.Format(time.RFC3339),
				WorkOrderStatus: tr.WorkOrderStatus.String(),
			}
			if ctx.jsonOutput {
				return writeJSON(cmd, view)
			}
			colorize := shouldColorize(cmd.OutOrStdout())
			return writeTable(cmd,
				[]string{"Work order", "Step", "Name", "Scan", "Step status", "Work order status", "Operator", "At"},
				[][]string{{
					view.WorkOrder,
					strconv.Itoa(view.StepIndex),
					view.StepName,
					view.Kind,
					statusLabel(tr.Status, colorize),
					statusLabel(tr.WorkOrderStatus, colorize),
					view.Operator,
					view.At,
				}},
				[]columnAlignment{alignLeft, alignRight})
		},
	}

	cmd.Flags().StringVarP(&operator, "operator", "o", "", "Operator identity (required)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Expected transition kind: start or end")
	_ = cmd.MarkFlagRequired("operator")
	return cmd
}

type progressView struct {
	WorkOrderID string `json:"workOrderId"`
	WorkOrder   string `json:"workOrder"`
	Project     string `json:"project"`
	Status      string `json:"status"`
	CurrentStep string `json:"currentStep,omitempty"`
	Completed   int    `json:"completed"`
	Total       int    `json:"total"`
	Percentage  int    `json:"percentage"`
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var projectFlag, statusFlag string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show the progress of every work order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseOptionalID("project", projectFlag)
			if err != nil {
				return err
			}
			status := workorder.Unknown
			if statusFlag != "" {
				if status, err = workorder.ParseStatus(statusFlag); err != nil {
					return err
				}
			}
			query, err := queries.NewGetDashboardOverviewQuery(projectID, status)
			if err != nil {
				return err
			}

			root, err := ctx.ensureRoot(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := root.CreateGetDashboardOverviewQueryHandler().Handle(cmd.Context(), query)
			if err != nil {
				return err
			}

			views := make([]progressView, 0, len(rows))
			for _, row := range rows {
				views = append(views, progressView{
					WorkOrderID: row.WorkOrderID.String(),
					WorkOrder:   row.WorkOrderNumber,
					Project:     row.ProjectName,
					Status:      row.Status.String(),
					CurrentStep: row.CurrentStepName,
					Completed:   row.CompletedCount,
					Total:       row.TotalSteps,
					Percentage:  row.Percentage,
				})
			}
			if ctx.jsonOutput {
				return writeJSON(cmd, views)
			}

			colorize := shouldColorize(cmd.OutOrStdout())
			table := make([][]string, 0, len(views))
			for i, v := range views {
				table = append(table, []string{
					v.WorkOrder,
					v.Project,
					statusLabel(rows[i].Status, colorize),
					v.CurrentStep,
					fmt.Sprintf("%d/%d", v.Completed, v.Total),
					fmt.Sprintf("%d%%", v.Percentage),
				})
			}
			return writeTable(cmd, []string{"Work order", "Project", "Status", "Current step", "Steps", "Progress"}, table,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight})
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Only work orders of this project ID")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Only work orders in this status")
	return cmd
}

type durationView struct {
	Project   string  `json:"project"`
	WorkOrder string  `json:"workOrder"`
	StepIndex int     `json:"stepIndex"`
	Step      string  `json:"step"`
	Operator  string  `json:"operator"`
	StartedAt string  `json:"startedAt"`
	EndedAt   string  `json:"endedAt"`
	Minutes   float64 `json:"durationMinutes"`
}

func newDurationsCommand(ctx *commandContext) *cobra.Command {
	var projectFlag, workOrderFlag, order string

	cmd := &cobra.Command{
		Use:   "durations",
		Short: "Report how long completed steps took",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseOptionalID("project", projectFlag)
			if err != nil {
				return err
			}
			workOrderID, err := parseOptionalID("work-order", workOrderFlag)
			if err != nil {
				return err
			}
			query, err := queries.NewListDurationsQuery(projectID, workOrderID, order)
			if err != nil {
				return err
			}

			root, err := ctx.ensureRoot(cmd.Context())
			if err != nil {
				return err
			}
			records, err := root.CreateListDurationsQueryHandler().Handle(cmd.Context(), query)
			if err != nil {
				return err
			}

			views := make([]durationView, 0, len(records))
			for _, r := range records {
				views = append(views, durationView{
					Project:   r.ProjectName,
					WorkOrder: r.WorkOrderNumber,
					StepIndex: r.StepIndex,
					Step:      r.StepName,
					Operator:  r.Operator,
					StartedAt: r.StartedAt.Format(time.RFC3339),
					EndedAt:   r.EndedAt.Format(time.RFC3339),
					Minutes:   roundMinutes(r.Minutes),
				})
			}
			if ctx.jsonOutput {
				return writeJSON(cmd, views)
			}

			table := make([][]string, 0, len(views))
			for _, v := range views {
				table = append(table, []string{
					v.Project, v.WorkOrder, v.Step, v.Operator, v.StartedAt, v.EndedAt,
					strconv.FormatFloat(v.Minutes, 'f', 2, 64),
				})
			}
			return writeTable(cmd, []string{"Project", "Work order", "Step", "Operator", "Started", "Ended", "Minutes"}, table,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight})
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Only steps of this project ID")
	cmd.Flags().StringVar(&workOrderFlag, "work-order", "", "Only steps of this work order ID")
	cmd.Flags().StringVar(&order, "order", "", "start_asc (default) or end_desc")
	return cmd
}

type sheetStepView struct {
	StepIndex  int    `json:"stepIndex"`
	StepName   string `json:"stepName"`
	Status     string `json:"status"`
	StartToken string `json:"startToken"`
	EndToken   string `json:"endToken"`
}

type sheetView struct {
	WorkOrderID string          `json:"workOrderId"`
	WorkOrder   string          `json:"workOrder"`
	Project     string          `json:"project"`
	Steps       []sheetStepView `json:"steps"`
}

func toSheetView(sheet queries.ScanSheet) sheetView {
	view := sheetView{
		WorkOrderID: sheet.WorkOrderID.String(),
		WorkOrder:   sheet.WorkOrderNumber,
		Project:     sheet.ProjectName,
		Steps:       make([]sheetStepView, 0, len(sheet.Steps)),
	}
	for _, step := range sheet.Steps {
		view.Steps = append(view.Steps, sheetStepView{
			StepIndex:  step.StepIndex,
			StepName:   step.StepName,
			Status:     step.Status.String(),
			StartToken: step.StartToken,
			EndToken:   step.EndToken,
		})
	}
	return view
}

func newSheetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sheet <work-order-id>",
		Short: "Print the scan tokens of a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := kernel.UUIDFromString(args[0])
			if err != nil {
				return err
			}
			query, err := queries.NewGetScanSheetQuery(id)
			if err != nil {
				return err
			}

			root, err := ctx.ensureRoot(cmd.Context())
			if err != nil {
				return err
			}
			sheet, err := root.CreateGetScanSheetQueryHandler().Handle(cmd.Context(), query)
			if err != nil {
				return err
			}

			if ctx.jsonOutput {
				return writeJSON(cmd, toSheetView(sheet))
			}

			out := cmd.OutOrStdout()
			if _, err = fmt.Fprintf(out, "%s (%s)\n", sheet.WorkOrderNumber, sheet.ProjectName); err != nil {
				return err
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(sheet.Steps))
			for _, step := range sheet.Steps {
				rows = append(rows, []string{
					strconv.Itoa(step.StepIndex),
					step.StepName,
					statusLabel(step.Status, colorize),
					step.StartToken,
					step.EndToken,
				})
			}
			return writeTable(cmd, []string{"#", "Step", "Status", "Start token", "End token"}, rows,
				[]columnAlignment{alignRight})
		},
	}
}

func parseOptionalID(flag, value string) (*kernel.UUID, error) {
	if value == "" {
		return nil, nil //nolint:nilnil // flag not given
	}
	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &id, nil
}

func roundMinutes(minutes float64) float64 {
	return float64(int64(minutes*100+0.5)) / 100
}
