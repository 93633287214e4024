package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

const (
	SortByTime      = "time"
	SortByBooker    = "booker"
	SortByAttendees = "attendees"
)

type Summary struct {
	TotalBookings  int     `json:"total_bookings"`
	TotalAttendees int     `json:"total_attendees"`
	TotalDuration  string  `json:"total_duration"`
	AvgAttendees   float64 `json:"avg_attendees"`
}

type listOutput struct {
	Bookings []model.BookingView `json:"bookings"`
	Summary  Summary             `json:"summary"`
}

func (a *App) listCommand(ctx context.Context) *Command {
	var (
		room   string
		sortBy string
	)

	return &Command{
		Name:    "list",
		Summary: "List bookings",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			fs.StringVar(&sortBy, "sort", SortByTime, "order by time, booker or attendees")
			a.commonFlags(fs, &room)
			return fs
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return apperrors.InvalidInput(fmt.Sprintf("unexpected argument %q", args[0]))
			}
			sortBy = strings.ToLower(strings.TrimSpace(sortBy))
			if !slices.Contains([]string{SortByTime, SortByBooker, SortByAttendees}, sortBy) {
				return apperrors.InvalidInput(fmt.Sprintf("invalid sort option %q, use time, booker or attendees", sortBy))
			}

			var (
				views []model.BookingView
				err   error
			)
			if room == "" {
				views, err = a.Service.ListBookings(ctx)
			} else {
				views, err = a.Service.ListRoomBookings(ctx, room)
			}
			if err != nil {
				return err
			}
			sortViews(views, sortBy)
			summary := summarize(views)

			if a.json {
				return a.writeJSON(listOutput{Bookings: views, Summary: summary})
			}
			if len(views) == 0 {
				fmt.Fprintln(a.Out, a.paint(color.FgYellow, "No bookings found!"))
				fmt.Fprintln(a.Out, "The meeting room is currently available for booking.")
				return nil
			}
			a.renderTable(views)
			a.renderSummary(summary)
			return nil
		},
	}
}

// sortViews orders by start time, by booker ignoring case, or by attendee
// count with the largest first. Equal keys keep their order.
func sortViews(views []model.BookingView, sortBy string) {
	switch sortBy {
	case SortByBooker:
		slices.SortStableFunc(views, func(a, b model.BookingView) int {
			return strings.Compare(strings.ToLower(a.Booker), strings.ToLower(b.Booker))
		})
	case SortByAttendees:
		slices.SortStableFunc(views, func(a, b model.BookingView) int {
			return b.Attendees - a.Attendees
		})
	default:
		slices.SortStableFunc(views, func(a, b model.BookingView) int {
			return a.Start.Compare(b.Start)
		})
	}
}

func summarize(views []model.BookingView) Summary {
	totalAttendees := lo.SumBy(views, func(v model.BookingView) int { return v.Attendees })
	totalDuration := lo.SumBy(views, func(v model.BookingView) time.Duration { return v.End.Sub(v.Start) })

	summary := Summary{
		TotalBookings:  len(views),
		TotalAttendees: totalAttendees,
		TotalDuration:  fmt.Sprintf("%dh %dm", int(totalDuration/time.Hour), int((totalDuration%time.Hour)/time.Minute)),
	}
	if len(views) > 0 {
		summary.AvgAttendees = float64(totalAttendees) / float64(len(views))
	}
	return summary
}

func (a *App) renderTable(views []model.BookingView) {
	table := tablewriter.NewWriter(a.Out)
	table.SetHeader([]string{"Booking ID", "Room", "Start Time", "End Time", "Booker", "Attendees", "Duration"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, v := range views {
		table.Append([]string{
			v.ID,
			v.RoomID,
			formatTime(v.Start),
			formatTime(v.End),
			v.Booker,
			strconv.Itoa(v.Attendees),
			formatDuration(v.End.Sub(v.Start)),
		})
	}
	table.Render()
}

func (a *App) renderSummary(s Summary) {
	fmt.Fprintln(a.Out)
	fmt.Fprintln(a.Out, a.paint(color.FgCyan, "Summary:"))
	fmt.Fprintf(a.Out, "  Total Bookings:   %d\n", s.TotalBookings)
	fmt.Fprintf(a.Out, "  Total Attendees:  %d\n", s.TotalAttendees)
	fmt.Fprintf(a.Out, "  Total Duration:   %s\n", s.TotalDuration)
	fmt.Fprintf(a.Out, "  Avg Attendees:    %.1f\n", s.AvgAttendees)
}
