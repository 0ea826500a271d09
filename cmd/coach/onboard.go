package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-coach/internal/onboarding"
	"github.com/jonathan/career-coach/internal/types"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Walk through the onboarding wizard",
}

var onboardNameCmd = &cobra.Command{
	Use:   "name <full name>",
	Short: "Save step 1: your name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWizard(cmd, func(ctx context.Context, w *onboarding.Wizard) error {
			return w.SaveName(ctx, strings.Join(args, " "))
		})
	},
}

var onboardProfessionCmd = &cobra.Command{
	Use:   "profession <value>",
	Short: "Save step 2: your profession",
	Long:  "Save step 2. Valid values: " + strings.Join(types.Professions(), ", "),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWizard(cmd, func(ctx context.Context, w *onboarding.Wizard) error {
			return w.SaveProfession(ctx, args[0])
		})
	},
}

var onboardCareersCmd = &cobra.Command{
	Use:   "careers <choice,choice,...>",
	Short: "Save step 3: up to three career choices",
	Long:  "Save step 3. Catalog: " + strings.Join(types.CareerCatalog(), ", "),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		choices := strings.Split(args[0], ",")
		for i := range choices {
			choices[i] = strings.TrimSpace(choices[i])
		}
		return withWizard(cmd, func(ctx context.Context, w *onboarding.Wizard) error {
			return w.SaveCareerChoices(ctx, choices)
		})
	},
}

var (
	onboardCollege      string
	onboardCollegeEmail string
)

var onboardUniversityCmd = &cobra.Command{
	Use:   "university",
	Short: "Save step 4: university info",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withWizard(cmd, func(ctx context.Context, w *onboarding.Wizard) error {
			return w.SaveUniversity(ctx, onboardCollege, onboardCollegeEmail)
		})
	},
}

var onboardCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Finalize onboarding",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withWizard(cmd, func(ctx context.Context, w *onboarding.Wizard) error {
			if err := w.Complete(ctx); err != nil {
				return err
			}
			fmt.Println("Onboarding complete")
			return nil
		})
	},
}

var onboardResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the in-progress wizard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withWizard(cmd, func(ctx context.Context, w *onboarding.Wizard) error {
			return w.Reset(ctx)
		})
	},
}

var onboardStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wizard's current step and record",
	RunE:  runOnboardStatus,
}

func init() {
	onboardUniversityCmd.Flags().StringVar(&onboardCollege, "college", "", "College name (required)")
	onboardUniversityCmd.Flags().StringVar(&onboardCollegeEmail, "email", "", "College email (optional)")
	if err := onboardUniversityCmd.MarkFlagRequired("college"); err != nil {
		panic(fmt.Sprintf("failed to mark college flag as required: %v", err))
	}

	onboardCmd.AddCommand(onboardNameCmd)
	onboardCmd.AddCommand(onboardProfessionCmd)
	onboardCmd.AddCommand(onboardCareersCmd)
	onboardCmd.AddCommand(onboardUniversityCmd)
	onboardCmd.AddCommand(onboardCompleteCmd)
	onboardCmd.AddCommand(onboardResetCmd)
	onboardCmd.AddCommand(onboardStatusCmd)
	rootCmd.AddCommand(onboardCmd)
}

// withWizard wires the app, resolves the identity, loads the wizard, runs fn,
// and reports the resulting step.
func withWizard(cmd *cobra.Command, fn func(ctx context.Context, w *onboarding.Wizard) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	identity, err := a.identity()
	if err != nil {
		return err
	}

	w, err := a.wizard(ctx, identity)
	if err != nil {
		return err
	}

	if err := fn(ctx, w); err != nil {
		return err
	}

	fmt.Printf("Saved. Current step: %d\n", w.CurrentStep())
	return nil
}

func runOnboardStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	identity, err := a.identity()
	if err != nil {
		return err
	}

	w, err := a.wizard(ctx, identity)
	if err != nil {
		return err
	}

	done, err := w.Completed(ctx)
	if err != nil {
		return err
	}
	if done {
		fmt.Println("Onboarding: complete")
		return nil
	}

	record := w.Record()
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("Current step: %d\n%s\n", w.CurrentStep(), data)
	return nil
}
