package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tripwell/tripkit/internal/cli"
)

var toursCmd = &cobra.Command{
	Use:   "tours",
	Short: "Browse the tour catalogue",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)

		tours, err := app.Client.ListTours(cmd.Context())
		if err != nil {
			fail("%v", err)
		}

		cli.PrintBanner()
		for _, tour := range tours {
			fmt.Printf("%4d  %-30s %-20s %8.2f\n", tour.ID, tour.Title, tour.Location, tour.Price)
		}
	},
}

var tourShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one tour in detail",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fail("invalid tour id %q", args[0])
		}

		tour, err := app.Client.GetTour(cmd.Context(), id)
		if err != nil {
			fail("%v", err)
		}

		render := cli.NewRenderer()
		out, err := render(cli.TourMarkdown(tour))
		if err != nil {
			// Fall back to raw markdown on rendering trouble.
			out = cli.TourMarkdown(tour)
		}
		fmt.Print(out)
	},
}

func init() {
	toursCmd.AddCommand(tourShowCmd)
	rootCmd.AddCommand(toursCmd)
}
