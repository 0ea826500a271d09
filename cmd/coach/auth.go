package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and start a session",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and start a session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and clear cached state for the identity",
	RunE:  runLogout,
}

var (
	authName     string
	authEmail    string
	authPassword string
)

func init() {
	registerCmd.Flags().StringVar(&authName, "name", "", "Full name (required)")
	registerCmd.Flags().StringVar(&authEmail, "email", "", "Email address (required)")
	registerCmd.Flags().StringVar(&authPassword, "password", "", "Password (required)")
	if err := registerCmd.MarkFlagRequired("name"); err != nil {
		panic(fmt.Sprintf("failed to mark name flag as required: %v", err))
	}
	if err := registerCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}
	if err := registerCmd.MarkFlagRequired("password"); err != nil {
		panic(fmt.Sprintf("failed to mark password flag as required: %v", err))
	}

	loginCmd.Flags().StringVar(&authEmail, "email", "", "Email address (required)")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Password (required)")
	if err := loginCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}
	if err := loginCmd.MarkFlagRequired("password"); err != nil {
		panic(fmt.Sprintf("failed to mark password flag as required: %v", err))
	}

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	identity, err := a.session.Register(ctx, authName, authEmail, authPassword, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Registered and logged in as %s\n", identity)
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	identity, err := a.session.Login(ctx, authEmail, authPassword)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", identity)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.Logout(ctx); err != nil {
		return err
	}

	fmt.Println("Logged out")
	return nil
}
