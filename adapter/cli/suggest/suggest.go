package suggest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slotwise/adapter/cli"
	"github.com/felixgeelhaar/slotwise/internal/calendar/infrastructure/ics"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/dto"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/queries"
)

var (
	opts       options
	icsSource  string
	widen      bool
	noCalendar bool
	jsonOutput bool
)

// Cmd is the suggest command
var Cmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest time slots for a task",
	Long: `Suggest up to three time slots for a task, spread over different days
when possible.

Your stored profile (recurring commitments, energy periods, mood) and the
configured calendar are taken into account. --ics reads busy events from an
iCalendar file or URL instead of the configured calendar.

Examples:
  slotwise suggest --duration 60
  slotwise suggest -d 30 --task "appeler la banque" --before 2025-01-10
  slotwise suggest -d 90 --on 2025-01-08 --mood energetic --energy morning
  slotwise suggest -d 45 --ics ~/calendar.ics --widen
  slotwise suggest --request request.json --json`,
	Aliases: []string{"slots", "find"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ComputeSlotsHandler == nil {
			return fmt.Errorf("slot computation is not available: check the database configuration")
		}

		wire, err := buildRequest(opts)
		if err != nil {
			return err
		}
		req, err := wire.ToDomain()
		if err != nil {
			return err
		}

		handler := app.ComputeSlotsHandler
		if icsSource != "" {
			loc := req.Location
			if loc == nil {
				loc = time.Local
			}
			handler = app.ComputeHandlerWith(ics.NewProvider(icsSource, loc, app.Logger))
		}

		widenDays := app.WidenDays
		result, err := handler.Handle(cmd.Context(), queries.ComputeSlotsQuery{
			UserID:       app.CurrentUserID,
			Request:      req,
			WidenOnEmpty: widen,
			WidenDays:    widenDays,
			SkipCalendar: noCalendar,
		})
		if err != nil {
			return fmt.Errorf("failed to compute slots: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		render(cmd.OutOrStdout(), result, cli.Verbose())
		return nil
	},
}

func init() {
	f := Cmd.Flags()
	f.IntVarP(&opts.duration, "duration", "d", 0, "task duration in minutes")
	f.StringVarP(&opts.requestFile, "request", "r", "", "read the request from a JSON file")
	f.StringVarP(&opts.task, "task", "t", "", "task description, used to infer opening hours")
	f.StringVar(&opts.mood, "mood", "", "energetic, neutral or tired")
	f.StringSliceVar(&opts.energy, "energy", nil, "favorable periods: morning, afternoon, evening, night")
	f.StringVar(&opts.timezone, "timezone", "", "IANA time zone (default: profile, then local)")
	f.StringVar(&opts.from, "from", "", "search start")
	f.StringVar(&opts.to, "to", "", "search end")
	f.StringVar(&opts.on, "on", "", "schedule on this day (YYYY-MM-DD)")
	f.StringVar(&opts.at, "at", "", "schedule at or near this time")
	f.StringVar(&opts.before, "before", "", "finish before this time")
	f.StringVar(&opts.after, "after", "", "start at or after this time")
	f.BoolVar(&opts.asap, "asap", false, "prefer the earliest slots")
	f.StringVar(&icsSource, "ics", "", "iCalendar file or URL with busy events")
	f.BoolVar(&widen, "widen", false, "search further ahead when nothing fits")
	f.BoolVar(&noCalendar, "no-calendar", false, "ignore the configured calendar")
	f.BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	Cmd.MarkFlagsMutuallyExclusive("on", "at", "before", "after", "asap")
	Cmd.MarkFlagsMutuallyExclusive("ics", "no-calendar")
}

type jsonResult struct {
	dto.SchedulingResult
	Widened        bool `json:"widened"`
	CalendarEvents int  `json:"calendar_events"`
	ProfileApplied bool `json:"profile_applied"`
}

func writeJSON(w io.Writer, r *queries.ComputeSlotsResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{
		SchedulingResult: dto.FromResult(r.SchedulingResult),
		Widened:          r.Widened,
		CalendarEvents:   r.CalendarEvents,
		ProfileApplied:   r.ProfileApplied,
	})
}

func render(w io.Writer, r *queries.ComputeSlotsResult, verbose bool) {
	if sc := r.ServiceConstraint; sc != nil {
		fmt.Fprintf(w, "Opening hours: %s (%s)\n", sc.OpenHours, sc.Reason)
	}
	if r.Widened {
		fmt.Fprintln(w, "Nothing fit in the default horizon; searched further ahead.")
	}

	if len(r.Candidates) == 0 {
		fmt.Fprintf(w, "No slot found: %s\n", r.Reason)
		return
	}

	fmt.Fprintln(w, "Suggested slots")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for i, c := range r.Candidates {
		fmt.Fprintf(w, "%d. %s  %s - %s  (score %d)\n",
			i+1,
			c.StartTime.Format("Mon Jan 2"),
			c.StartTime.Format("15:04"),
			c.EndTime.Format("15:04"),
			c.Score,
		)
		if c.Reason != "" {
			fmt.Fprintf(w, "   %s\n", c.Reason)
		}
	}

	if verbose {
		fmt.Fprintln(w, strings.Repeat("-", 50))
		fmt.Fprintf(w, "Searched %s to %s, %d candidates evaluated, %d calendar events\n",
			r.EffectiveStart.Format("2006-01-02 15:04"),
			r.EffectiveEnd.Format("2006-01-02 15:04"),
			r.Evaluated,
			r.CalendarEvents,
		)
	}
}
