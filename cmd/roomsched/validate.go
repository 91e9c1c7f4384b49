package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check rooms and sessions without planning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := in.load()
			if err != nil {
				return err
			}

			var problems []string
			if _, _, err := a.settings(input); err != nil {
				problems = append(problems, err.Error())
			}
			problems = append(problems, a.cfg.Grid().Check(input.Sessions, input.Rooms)...)

			out := cmd.OutOrStdout()
			if len(problems) > 0 {
				for _, p := range problems {
					_, _ = fmt.Fprintln(out, p)
				}
				return fmt.Errorf("input has %d problem(s)", len(problems))
			}

			_, err = fmt.Fprintf(out, "ok: %d rooms, %d sessions\n", len(input.Rooms), len(input.Sessions))
			return err
		},
	}

	in.register(cmd)
	return cmd
}
