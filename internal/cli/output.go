package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/tripwell/tripkit/pkg/domain"
)

// NewRenderer returns a function that renders markdown for the terminal.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PrintBanner outputs the ASCII art banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String(" _        _       _    _ _   ").Foreground(p.Color("#38bdf8"))
	s2 := termenv.String("| |_ _ __(_)_ __ | | _(_) |_ ").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String("| __| '__| | '_ \\| |/ / | __|").Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String("| |_| |  | | |_) |   <| | |_ ").Foreground(p.Color("#34d399"))
	s5 := termenv.String(" \\__|_|  |_| .__/|_|\\_\\_|\\__|").Foreground(p.Color("#4ade80"))
	s6 := termenv.String("           |_|               ").Foreground(p.Color("#a3e635"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}

// FormatResult renders an operation result for the terminal, including any
// field-level validation errors.
func FormatResult(res domain.Result) string {
	var b strings.Builder
	if res.Success {
		b.WriteString("OK")
		if res.Message != "" {
			b.WriteString(": ")
			b.WriteString(res.Message)
		}
	} else {
		b.WriteString(res.Message)
		for field, msgs := range res.Errors {
			for _, msg := range msgs {
				fmt.Fprintf(&b, "\n  %s: %s", field, msg)
			}
		}
	}
	return b.String()
}

// TourMarkdown renders a tour as a markdown document for glamour.
func TourMarkdown(tour *domain.Tour) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tour.Title)
	fmt.Fprintf(&b, "**%s** | %.2f per person | rating %.1f\n\n", tour.Location, tour.Price, tour.Rating)
	if tour.Duration != "" {
		fmt.Fprintf(&b, "Duration: %s\n\n", tour.Duration)
	}
	if tour.Description != "" {
		fmt.Fprintf(&b, "%s\n", tour.Description)
	}
	if len(tour.Itinerary) > 0 {
		b.WriteString("\n## Itinerary\n\n")
		for i, step := range tour.Itinerary {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	if len(tour.Reviews) > 0 {
		b.WriteString("\n## Reviews\n\n")
		for _, rev := range tour.Reviews {
			fmt.Fprintf(&b, "- **%s** (%.1f): %s\n", rev.User, rev.Rating, rev.Comment)
		}
	}
	return b.String()
}

// BookingMarkdown renders a booking summary as markdown.
func BookingMarkdown(b *domain.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Booking %s\n\n", b.Reference)
	fmt.Fprintf(&sb, "- Tour: %d\n", b.TourID)
	fmt.Fprintf(&sb, "- Date: %s\n", b.Date.Format("2006-01-02"))
	fmt.Fprintf(&sb, "- Participants: %d\n", b.Participants)
	fmt.Fprintf(&sb, "- Total: %.2f\n", b.TotalPrice)
	fmt.Fprintf(&sb, "- Deposit (%.0f%%): %.2f\n", domain.DepositRate*100, b.Deposit())
	fmt.Fprintf(&sb, "- Status: %s\n", b.Status)
	return sb.String()
}
