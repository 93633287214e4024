package cli

import (
	"context"
	"fmt"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"

	"github.com/gookit/color"
	"github.com/spf13/pflag"
)

func (a *App) bookCommand(ctx context.Context) *Command {
	var (
		room      string
		start     string
		end       string
		booker    string
		attendees int
	)

	return &Command{
		Name:    "book",
		Summary: "Book a meeting room",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("book", pflag.ContinueOnError)
			fs.StringVar(&start, "start", "", "start time (YYYY-MM-DDTHH:MM or RFC3339, UTC when no zone)")
			fs.StringVar(&end, "end", "", "end time (YYYY-MM-DDTHH:MM or RFC3339, UTC when no zone)")
			fs.StringVar(&booker, "booker", "", "name of the person booking")
			fs.IntVar(&attendees, "attendees", 0, fmt.Sprintf("number of attendees (at least %d)", model.MinAttendees))
			a.commonFlags(fs, &room)
			return fs
		},
		Examples: []Example{
			{Command: ProgramName + " book --start 2030-03-04T10:00 --end 2030-03-04T11:00 --booker Alice --attendees 5"},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return apperrors.InvalidInput(fmt.Sprintf("unexpected argument %q", args[0]))
			}

			startTime, err := parseTime("start", start)
			if err != nil {
				return err
			}
			endTime, err := parseTime("end", end)
			if err != nil {
				return err
			}
			if !startTime.After(a.Now()) {
				return apperrors.InvalidInput("Cannot book in the past, start time must be in the future")
			}

			view, err := a.Service.Book(ctx, &model.BookingRequest{
				RoomID:    room,
				Start:     startTime,
				End:       endTime,
				Booker:    booker,
				Attendees: attendees,
			})
			if err != nil {
				return err
			}

			if a.json {
				return a.writeJSON(view)
			}
			fmt.Fprintln(a.Out, a.paint(color.FgGreen, "Booking created successfully!"))
			fmt.Fprintf(a.Out, "Booking ID: %s\n", view.ID)
			fmt.Fprintf(a.Out, "Room:       %s\n", view.RoomID)
			fmt.Fprintf(a.Out, "Time:       %s - %s\n", formatTime(view.Start), formatTime(view.End))
			fmt.Fprintf(a.Out, "Booker:     %s\n", view.Booker)
			fmt.Fprintf(a.Out, "Attendees:  %d\n", view.Attendees)
			return nil
		},
	}
}
