package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Recompute profile progress and claim any newly crossed milestones",
	RunE:  runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, _ []string) error {
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

	snapshot := a.aggregator().Snapshot(ctx)
	a.printer.PrintProgress(snapshot)

	result, err := a.evaluator(identity).Evaluate(ctx, identity, snapshot)
	if err != nil {
		return fmt.Errorf("failed to evaluate milestones: %w", err)
	}
	a.printer.PrintRewards(result.Granted, result.TotalXP)

	return nil
}
