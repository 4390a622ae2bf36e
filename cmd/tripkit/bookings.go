package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tripwell/tripkit/internal/cli"
	"github.com/tripwell/tripkit/pkg/api"
	"github.com/tripwell/tripkit/pkg/domain"
)

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List and manage your bookings",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		if !app.Session.Hydrate(ctx).IsAuthenticated() {
			fail("not logged in")
		}

		bookings, err := app.Client.MyBookings(ctx)
		if err != nil {
			fail("%v", err)
		}
		if len(bookings) == 0 {
			fmt.Println("No bookings yet.")
			return
		}
		for _, b := range bookings {
			fmt.Printf("%-12s %s  x%-2d %8.2f  %s\n",
				b.Reference, b.Date.Format("2006-01-02"), b.Participants, b.TotalPrice, b.Status)
		}
	},
}

var bookingShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one booking in detail",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		if !app.Session.Hydrate(ctx).IsAuthenticated() {
			fail("not logged in")
		}

		booking, err := app.Client.GetBooking(ctx, parseID(args[0]))
		if err != nil {
			fail("%v", err)
		}

		render := cli.NewRenderer()
		out, err := render(cli.BookingMarkdown(booking))
		if err != nil {
			out = cli.BookingMarkdown(booking)
		}
		fmt.Print(out)
	},
}

var bookingCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a booking",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		if !app.Session.Hydrate(ctx).IsAuthenticated() {
			fail("not logged in")
		}

		booking, err := app.Client.CancelBooking(ctx, parseID(args[0]))
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("Booking %s cancelled.\n", booking.Reference)
	},
}

var bookCmd = &cobra.Command{
	Use:   "book <tour-id>",
	Short: "Book a tour",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		if !app.Session.Hydrate(ctx).IsAuthenticated() {
			fail("not logged in")
		}

		dateStr, _ := cmd.Flags().GetString("date")
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			fail("invalid --date %q, want YYYY-MM-DD", dateStr)
		}
		participants, _ := cmd.Flags().GetInt("participants")
		requests, _ := cmd.Flags().GetString("requests")

		booking, err := app.Client.CreateBooking(ctx, api.BookingRequest{
			TourID:          parseID(args[0]),
			Date:            date,
			Participants:    participants,
			SpecialRequests: requests,
		})
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("Booked! Reference %s, total %.2f (deposit %.2f).\n",
			booking.Reference, booking.TotalPrice, booking.Deposit())
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout <booking-id>",
	Short: "Pay for a booking",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		ctx := cmd.Context()
		if !app.Session.Hydrate(ctx).IsAuthenticated() {
			fail("not logged in")
		}

		id := parseID(args[0])
		deposit, _ := cmd.Flags().GetBool("deposit")
		method, _ := cmd.Flags().GetString("method")

		booking, err := app.Client.GetBooking(ctx, id)
		if err != nil {
			fail("%v", err)
		}

		req := api.PaymentRequest{Type: domain.PaymentFull, Method: method, Amount: booking.TotalPrice}
		if deposit {
			req.Type = domain.PaymentDeposit
			req.Amount = booking.Deposit()
		}

		payment, err := app.Client.ProcessPayment(ctx, id, req)
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("Paid %.2f (%s), transaction %s.\n", payment.Amount, payment.Type, payment.TransactionID)
		if deposit {
			fmt.Printf("Remaining balance: %.2f\n", booking.RemainingBalance())
		}
	},
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fail("invalid id %q", arg)
	}
	return id
}

func init() {
	bookCmd.Flags().String("date", "", "Tour date (YYYY-MM-DD)")
	bookCmd.Flags().Int("participants", 1, "Number of participants")
	bookCmd.Flags().String("requests", "", "Special requests")
	_ = bookCmd.MarkFlagRequired("date")

	checkoutCmd.Flags().Bool("deposit", false, "Pay the deposit instead of the full amount")
	checkoutCmd.Flags().String("method", "card", "Payment method")

	bookingsCmd.AddCommand(bookingShowCmd)
	bookingsCmd.AddCommand(bookingCancelCmd)
	rootCmd.AddCommand(bookingsCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(checkoutCmd)
}
