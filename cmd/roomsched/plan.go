package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnavshah/room-scheduler-api/pkg/render"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		output string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Assign sessions to rooms and print the schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "text" && output != "csv" {
				return fmt.Errorf("unknown output %q (want text or csv)", output)
			}

			input, err := in.load()
			if err != nil {
				return err
			}
			days, policy, err := a.settings(input)
			if err != nil {
				return err
			}

			grid := a.cfg.Grid()
			s := scheduler.NewScheduler(grid,
				scheduler.WithPolicy(policy),
				scheduler.WithLogger(a.logger))

			start := time.Now()
			plan, err := s.Plan(input.Sessions, input.Rooms, days)
			if err != nil {
				return err
			}
			a.logger.Info().
				Int("sessions", len(input.Sessions)).
				Int("rooms_used", plan.RoomsUsed()).
				Int("unscheduled", len(plan.Unscheduled)).
				Dur("elapsed", time.Since(start)).
				Msg("plan finished")

			for _, d := range plan.Diagnostics {
				a.logger.Warn().Msg(d)
			}

			if output == "csv" {
				err = render.CSV(cmd.OutOrStdout(), grid, plan)
			} else {
				err = render.Text(cmd.OutOrStdout(), grid, plan)
			}
			if err != nil {
				return err
			}

			if strict && len(plan.Unscheduled) > 0 {
				return &exitError{code: 2, err: fmt.Errorf("%d session(s) unscheduled", len(plan.Unscheduled))}
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or csv")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 2 when any session is unscheduled")
	return cmd
}
