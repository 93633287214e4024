package cli

import (
	"context"
	"fmt"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"

	"github.com/gookit/color"
	"github.com/spf13/pflag"
)

func (a *App) cancelCommand(ctx context.Context) *Command {
	var (
		room      string
		bookingID string
	)

	return &Command{
		Name:    "cancel",
		Summary: "Cancel a booking",
		Usage:   ProgramName + " cancel --id <booking id> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("cancel", pflag.ContinueOnError)
			fs.StringVar(&bookingID, "id", "", "id of the booking to cancel")
			a.commonFlags(fs, &room)
			return fs
		},
		Run: func(args []string) error {
			// The booking id may also be given positionally.
			if bookingID == "" && len(args) == 1 {
				bookingID = args[0]
			} else if len(args) > 0 {
				return apperrors.InvalidInput(fmt.Sprintf("unexpected argument %q", args[0]))
			}

			req := &model.CancelRequest{RoomID: room, BookingID: bookingID}
			if err := a.Service.Cancel(ctx, req); err != nil {
				return err
			}

			if a.json {
				return a.writeJSON(map[string]string{
					"booking_id": req.BookingID,
					"status":     "cancelled",
				})
			}
			fmt.Fprintln(a.Out, a.paint(color.FgGreen, "Booking cancelled successfully!"))
			fmt.Fprintf(a.Out, "Booking ID: %s\n", req.BookingID)
			return nil
		},
	}
}
