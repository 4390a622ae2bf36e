package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tripwell/tripkit/pkg/api"
)

var contactCmd = &cobra.Command{
	Use:   "contact <message...>",
	Short: "Send a message to the TripWell team",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)

		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		subject, _ := cmd.Flags().GetString("subject")

		// A logged-in session fills in the sender automatically.
		if name == "" || email == "" {
			snap := app.Session.Hydrate(cmd.Context())
			if snap.IsAuthenticated() {
				if name == "" {
					name = snap.User.Name
				}
				if email == "" {
					email = snap.User.Email
				}
			}
		}
		if name == "" || email == "" {
			fail("--name and --email are required when not logged in")
		}

		err := app.Client.SendContactMessage(cmd.Context(), api.ContactMessage{
			Name:    name,
			Email:   email,
			Subject: subject,
			Message: strings.Join(args, " "),
		})
		if err != nil {
			fail("%v", err)
		}
		fmt.Println("Message sent.")
	},
}

func init() {
	contactCmd.Flags().String("name", "", "Sender name")
	contactCmd.Flags().String("email", "", "Sender email")
	contactCmd.Flags().String("subject", "", "Message subject")
	rootCmd.AddCommand(contactCmd)
}
