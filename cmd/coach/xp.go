package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var xpCmd = &cobra.Command{
	Use:   "xp",
	Short: "Show or grant experience points",
	RunE:  runXPShow,
}

var xpAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Grant experience points from a source",
	RunE:  runXPAdd,
}

var (
	xpAmount int
	xpSource string
)

func init() {
	xpAddCmd.Flags().IntVar(&xpAmount, "amount", 0, "XP amount (required, positive)")
	xpAddCmd.Flags().StringVar(&xpSource, "source", "", "Gain source label (required)")
	if err := xpAddCmd.MarkFlagRequired("amount"); err != nil {
		panic(fmt.Sprintf("failed to mark amount flag as required: %v", err))
	}
	if err := xpAddCmd.MarkFlagRequired("source"); err != nil {
		panic(fmt.Sprintf("failed to mark source flag as required: %v", err))
	}

	xpCmd.AddCommand(xpAddCmd)
	rootCmd.AddCommand(xpCmd)
}

func runXPShow(cmd *cobra.Command, _ []string) error {
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

	state, err := a.engine(identity).Load(ctx)
	if err != nil {
		return err
	}

	a.printer.PrintExperience(state)
	return nil
}

func runXPAdd(cmd *cobra.Command, _ []string) error {
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

	if xpAmount <= 0 {
		return fmt.Errorf("amount must be greater than 0, got %d", xpAmount)
	}

	state, err := a.engine(identity).AddXP(ctx, xpAmount, xpSource)
	if err != nil {
		return err
	}

	a.printer.PrintExperience(state)
	return nil
}
