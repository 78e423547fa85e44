package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pinguard/internal/pinpolicy"
)

type checkOptions struct {
	dobSelf     string
	dobSpouse   string
	anniversary string
	maxStep     int
}

type checkOutput struct {
	Strength string   `json:"strength"`
	Reasons  []string `json:"reasons"`
	Signals  []string `json:"signals"`
}

// newCheckCmd classifies a PIN locally without calling the service.
func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check PIN",
		Short: "Classify a PIN locally",
		Long: `Classify a PIN with the same rules the service applies.

Dates use the YYYY-MM-DD layout. An impossible date is accepted and never matches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.dobSelf, "dob-self", "", "date of birth of the account holder")
	cmd.Flags().StringVar(&opts.dobSpouse, "dob-spouse", "", "date of birth of the spouse")
	cmd.Flags().StringVar(&opts.anniversary, "anniversary", "", "wedding anniversary")
	cmd.Flags().IntVar(&opts.maxStep, "max-step", pinpolicy.DefaultMaxSequenceStep, "widest stride treated as a sequence (0..5)")
	return cmd
}

func runCheck(cmd *cobra.Command, pin string, opts *checkOptions) error {
	var dates pinpolicy.Dates
	var err error
	if dates.Self, err = parseDateFlag("dob-self", opts.dobSelf); err != nil {
		return err
	}
	if dates.Spouse, err = parseDateFlag("dob-spouse", opts.dobSpouse); err != nil {
		return err
	}
	if dates.Anniversary, err = parseDateFlag("anniversary", opts.anniversary); err != nil {
		return err
	}

	classifier := pinpolicy.NewClassifier(pinpolicy.WithMaxSequenceStep(opts.maxStep))
	verdict, signals := classifier.Evaluate(pin, dates)

	out := checkOutput{
		Strength: string(verdict.Strength),
		Reasons:  verdict.ReasonCodes(),
		Signals:  signals.Names(),
	}
	if out.Signals == nil {
		out.Signals = []string{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parseDateFlag reads YYYY-MM-DD into numeric parts without validating the
// calendar, so impossible dates such as 1999-02-29 reach the classifier.
func parseDateFlag(name, value string) (*pinpolicy.CalendarDate, error) {
	if value == "" {
		return nil, nil
	}
	var d pinpolicy.CalendarDate
	var rest string
	n, _ := fmt.Sscanf(value, "%4d-%2d-%2d%s", &d.Year, &d.Month, &d.Day, &rest)
	if n != 3 || len(value) != len(time.DateOnly) {
		return nil, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", name, value)
	}
	return &d, nil
}
