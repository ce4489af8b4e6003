package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	appcmd "shopfloor/cmd"
	"shopfloor/internal/adapters/out/postgres"
	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/domain/model/kernel"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by "trackctl seed".
//
//	projects:
//	  - name: Gearbox
//	    defaultSteps: [Cut, Weld, Paint]
//	    workOrders:
//	      - number: WO-1001
//	        useProjectSteps: true
//	      - number: WO-1002
//	        steps: [Cut, Inspect]
type seedFile struct {
	Projects []seedProject `yaml:"projects"`
}

type seedProject struct {
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	DefaultSteps []string        `yaml:"defaultSteps"`
	WorkOrders   []seedWorkOrder `yaml:"workOrders"`
}

type seedWorkOrder struct {
	Number          string   `yaml:"number"`
	Steps           []string `yaml:"steps"`
	UseProjectSteps bool     `yaml:"useProjectSteps"`
}

type seededWorkOrder struct {
	Project     string `json:"project"`
	WorkOrderID string `json:"workOrderId"`
	Number      string `json:"number"`
	Steps       int    `json:"steps"`
}

func parseSeedFile(raw []byte) (seedFile, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return seedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	if len(file.Projects) == 0 {
		return seedFile{}, fmt.Errorf("seed file has no projects")
	}
	return file, nil
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create projects and work orders from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			file, err := parseSeedFile(raw)
			if err != nil {
				return err
			}

			root, err := ctx.ensureRoot(cmd.Context())
			if err != nil {
				return err
			}
			if reset {
				if err = resetStorage(root); err != nil {
					return err
				}
			}

			seeded, err := seed(cmd.Context(), root, file)
			if err != nil {
				return err
			}

			if ctx.jsonOutput {
				return writeJSON(cmd, seeded)
			}
			rows := make([][]string, 0, len(seeded))
			for _, s := range seeded {
				rows = append(rows, []string{s.Project, s.Number, strconv.Itoa(s.Steps), s.WorkOrderID})
			}
			return writeTable(cmd, []string{"Project", "Work order", "Steps", "ID"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Delete all existing data first (postgres only)")
	return cmd
}

func resetStorage(root *appcmd.CompositionRoot) error {
	db := root.GormDB()
	if db == nil {
		return nil
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	return postgres.Truncate(db)
}

func seed(ctx context.Context, root *appcmd.CompositionRoot, file seedFile) ([]seededWorkOrder, error) {
	createProject := root.CreateCreateProjectCommandHandler()
	createWorkOrder := root.CreateCreateWorkOrderCommandHandler()

	var seeded []seededWorkOrder
	for _, sp := range file.Projects {
		projectCmd, err := commands.NewCreateProjectCommand(kernel.NewUUID(), sp.Name, sp.Description, sp.DefaultSteps)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", sp.Name, err)
		}
		p, err := createProject.Handle(ctx, projectCmd)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", sp.Name, err)
		}

		for _, sw := range sp.WorkOrders {
			woCmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), sw.Number, p.ID(), sw.Steps, sw.UseProjectSteps)
			if err != nil {
				return nil, fmt.Errorf("work order %q: %w", sw.Number, err)
			}
			wo, err := createWorkOrder.Handle(ctx, woCmd)
			if err != nil {
				return nil, fmt.Errorf("work order %q: %w", sw.Number, err)
			}
			seeded = append(seeded, seededWorkOrder{
				Project:     p.Name(),
				WorkOrderID: wo.ID().String(),
				Number:      wo.Number(),
				Steps:       wo.TotalSteps(),
			})
		}
	}
	return seeded, nil
}
