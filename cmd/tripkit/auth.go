package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripwell/tripkit/internal/cli"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate and start a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		app.Session.Hydrate(ctx)

		password, err := cli.ReadPassword("Password: ")
		if err != nil {
			fail("%v", err)
		}

		res := app.Session.Login(ctx, args[0], password)
		if !res.Success {
			fail("%s", cli.FormatResult(res))
		}
		snap := app.Session.Snapshot()
		fmt.Printf("Logged in as %s <%s>\n", snap.User.Name, snap.User.Email)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <name> <email>",
	Short: "Create an account and start a session",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		app.Session.Hydrate(ctx)

		phone, _ := cmd.Flags().GetString("phone")
		password, err := cli.ReadPassword("Password: ")
		if err != nil {
			fail("%v", err)
		}

		res := app.Session.Register(ctx, args[0], args[1], phone, password)
		if !res.Success {
			fail("%s", cli.FormatResult(res))
		}
		snap := app.Session.Snapshot()
		fmt.Printf("Welcome, %s! You are now logged in.\n", snap.User.Name)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		app.Session.Hydrate(ctx)
		app.Session.Logout(ctx)
		fmt.Println("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		snap := app.Session.Hydrate(cmd.Context())
		if !snap.IsAuthenticated() {
			fmt.Println("Not logged in.")
			return
		}
		fmt.Printf("%s <%s>\n", snap.User.Name, snap.User.Email)
		if snap.User.Phone != "" {
			fmt.Printf("Phone: %s\n", snap.User.Phone)
		}
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		msg, err := app.Client.ForgotPassword(cmd.Context(), args[0])
		if err != nil {
			fail("%v", err)
		}
		fmt.Println(msg)
	},
}

func init() {
	registerCmd.Flags().String("phone", "", "Phone number for the new account")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(forgotPasswordCmd)
}
