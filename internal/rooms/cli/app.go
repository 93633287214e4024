package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"roombook/internal/rooms/service"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"

	"github.com/gookit/color"
	"github.com/spf13/pflag"
)

const ProgramName = "roombook"

// App runs the roombook commands against a booking service. Command output
// goes to Out, errors and help to Err.
type App struct {
	Service service.BookingService
	Out     io.Writer
	Err     io.Writer
	Log     *logger.Logger

	// Colours enables ANSI colours on status lines.
	Colours bool

	// Now is the clock used to reject bookings in the past.
	Now func() time.Time

	json bool
}

// Run executes args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.Log == nil {
		a.Log = logger.Nop()
	}
	a.json = false

	err := a.Root(ctx).Execute(args, a.Err)
	if err == nil {
		return 0
	}

	a.Log.Debug("Command failed", "args", args, "error", err)
	if a.Colours && !a.json {
		appErr := apperrors.AsAppError(err)
		fmt.Fprintln(a.Err, a.paint(color.FgRed, "error: "+appErr.Message))
		return appErr.ExitCode()
	}
	return apperrors.WriteError(a.Err, err, a.json)
}

func (a *App) Root(ctx context.Context) *Command {
	return &Command{
		Name:    ProgramName,
		Summary: "Meeting room reservation system",
		Subcommands: []*Command{
			a.bookCommand(ctx),
			a.cancelCommand(ctx),
			a.listCommand(ctx),
		},
		Examples: []Example{
			{Description: "Book the default room", Command: ProgramName + " book --start 2030-03-04T10:00 --end 2030-03-04T11:00 --booker Alice --attendees 5"},
			{Description: "Show bookings by attendee count", Command: ProgramName + " list --sort attendees"},
		},
	}
}

// commonFlags adds the flags every command accepts.
func (a *App) commonFlags(fs *pflag.FlagSet, room *string) {
	fs.StringVar(room, "room", "", "meeting room id (defaults to the configured room)")
	fs.BoolVar(&a.json, "json", false, "print results and errors as JSON")
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return apperrors.Internal("Failed to encode output", err)
	}
	return nil
}

func (a *App) paint(c color.Color, s string) string {
	if !a.Colours || s == "" {
		return s
	}
	return color.New(c, color.OpBold).Render(s)
}
