package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripwell/tripkit/internal/cli"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show, update or refresh your profile",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		snap := app.Session.Hydrate(cmd.Context())
		if !snap.IsAuthenticated() {
			fail("not logged in")
		}
		fmt.Printf("Name:  %s\n", snap.User.Name)
		fmt.Printf("Email: %s\n", snap.User.Email)
		if snap.User.Phone != "" {
			fmt.Printf("Phone: %s\n", snap.User.Phone)
		}
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		if !app.Session.Hydrate(ctx).IsAuthenticated() {
			fail("not logged in")
		}

		fields := map[string]any{}
		for _, name := range []string{"name", "email", "phone"} {
			if cmd.Flags().Changed(name) {
				value, _ := cmd.Flags().GetString(name)
				fields[name] = value
			}
		}
		if len(fields) == 0 {
			fail("nothing to update; pass --name, --email or --phone")
		}

		res := app.Session.UpdateProfile(ctx, fields)
		if !res.Success {
			fail("%s", cli.FormatResult(res))
		}
		fmt.Println("Profile updated.")
	},
}

var profileRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch the profile from the backend",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		app.Session.Hydrate(ctx)

		res := app.Session.RefreshProfile(ctx)
		if !res.Success {
			if !app.Session.Snapshot().IsAuthenticated() {
				fail("session expired, please log in again")
			}
			fail("%s", cli.FormatResult(res))
		}
		snap := app.Session.Snapshot()
		fmt.Printf("Profile refreshed: %s <%s>\n", snap.User.Name, snap.User.Email)
	},
}

func init() {
	profileUpdateCmd.Flags().String("name", "", "New display name")
	profileUpdateCmd.Flags().String("email", "", "New email address")
	profileUpdateCmd.Flags().String("phone", "", "New phone number")

	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileRefreshCmd)
	rootCmd.AddCommand(profileCmd)
}
