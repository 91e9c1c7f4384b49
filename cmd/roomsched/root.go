package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arnavshah/room-scheduler-api/pkg/config"
	"github.com/arnavshah/room-scheduler-api/pkg/logging"
	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/records"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

// exitError carries a process exit status other than 1.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "roomsched",
		Short:         "Plan conference sessions into rooms",
		Long:          "roomsched reads rooms and sessions from CSV files or a YAML bundle, assigns sessions to room time slots day by day and prints the resulting grid or a CSV export.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.logger = logging.SetupWithWriter(cfg.Environment, cfg.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newPlanCmd(a),
		newValidateCmd(a),
	)
	return rootCmd
}

// inputFlags selects the record sources shared by plan and validate.
type inputFlags struct {
	rooms    string
	sessions string
	bundle   string
	days     int
	policy   string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rooms, "rooms", "", "rooms CSV file")
	cmd.Flags().StringVar(&f.sessions, "sessions", "", "sessions CSV file")
	cmd.Flags().StringVar(&f.bundle, "bundle", "", "YAML planning bundle with days, rooms and sessions")
	cmd.Flags().IntVar(&f.days, "days", 0, "number of days to plan (default: bundle value or 1)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "equipment policy: intersect, subset or exact")
}

// load reads the bundle first, then lets the CSV files and flags replace
// its parts.
func (f *inputFlags) load() (models.ScheduleInput, error) {
	var input models.ScheduleInput
	if f.bundle == "" && (f.rooms == "" || f.sessions == "") {
		return input, errors.New("either --bundle or both --rooms and --sessions are required")
	}

	if f.bundle != "" {
		bundle, err := readFile(f.bundle, records.DecodeBundle)
		if err != nil {
			return input, err
		}
		input = bundle
	}
	if f.rooms != "" {
		rooms, err := readFile(f.rooms, records.ParseRooms)
		if err != nil {
			return input, err
		}
		input.Rooms = rooms
	}
	if f.sessions != "" {
		sessions, err := readFile(f.sessions, records.ParseSessions)
		if err != nil {
			return input, err
		}
		input.Sessions = sessions
	}
	if f.days != 0 {
		input.Days = f.days
	}
	if f.policy != "" {
		input.EquipmentPolicy = f.policy
	}
	if input.Days == 0 {
		input.Days = 1
	}
	return input, nil
}

func readFile[T any](path string, parse func(r io.Reader) (T, error)) (T, error) {
	file, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer file.Close()

	out, err := parse(file)
	if err != nil {
		return out, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// settings resolves the day count and policy against the configuration.
func (a *app) settings(input models.ScheduleInput) (int, scheduler.EquipmentPolicy, error) {
	if input.Days < 1 || input.Days > a.cfg.MaxDays {
		return 0, "", fmt.Errorf("days must be between 1 and %d, got %d", a.cfg.MaxDays, input.Days)
	}
	policy := a.cfg.EquipmentPolicy
	if input.EquipmentPolicy != "" {
		var err error
		if policy, err = scheduler.ParseEquipmentPolicy(input.EquipmentPolicy); err != nil {
			return 0, "", err
		}
	}
	return input.Days, policy, nil
}
