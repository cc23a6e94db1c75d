package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/rcup/internal/api"
	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/token"
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"event"},
	Short:   "Browse and manage events",
	Long: `Browse events, register for them, and manage the events you organize.

Creating, updating and deleting events requires the sponsor role.
Registering for events requires the sportsman role.

Examples:
  rcup events list --status registration --type hackathon
  rcup events show 3f2a...
  rcup events create --name "Spring Cup" --date "2026-04-01 10:00" --max-participants 50 --image poster.png
  rcup events register 3f2a...
  rcup events mine`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := app.Client.ListEvents(cmd.Context(), api.EventFilter{
			Skip:            eventsFlags.skip,
			Limit:           eventsFlags.limit,
			Status:          api.EventStatus(eventsFlags.status),
			EventType:       api.EventType(eventsFlags.eventType),
			DifficultyLevel: api.DifficultyLevel(eventsFlags.difficulty),
			Search:          eventsFlags.search,
			OrganizerID:     eventsFlags.organizer,
		})
		if err != nil {
			return err
		}
		return app.render(cmd, eventList(events))
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := app.Client.Event(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		event.ImageURL = resolveImage(event.ImageURL)
		return app.render(cmd, eventDetail(*event))
	},
}

var eventsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the events you registered for",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.Guard.Require(ctx); err != nil {
			return err
		}
		events, err := app.Client.MyEvents(ctx, eventsFlags.skip, eventsFlags.limit)
		if err != nil {
			return err
		}
		return app.render(cmd, eventList(events))
	},
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show event statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := app.Client.EventStats(cmd.Context())
		if err != nil {
			return err
		}
		return app.render(cmd, statsView(*stats))
	},
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event (sponsor)",
	Long: `Create an event. Requires the sponsor role.

Dates accept RFC 3339 ("2026-04-01T10:00:00+03:00"), "2026-04-01 10:00"
or "2026-04-01". An --image (jpg, png, gif, webp) is uploaded with the event.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.Guard.Require(ctx, token.RoleSponsor); err != nil {
			return err
		}
		in, closeImage, err := eventInputFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		defer closeImage()

		event, err := app.Client.CreateEvent(ctx, in)
		if err != nil {
			return err
		}
		app.notice(cmd, "Event created")
		event.ImageURL = resolveImage(event.ImageURL)
		return app.render(cmd, eventDetail(*event))
	},
}

var eventsUpdateCmd = &cobra.Command{
	Use:   "update <event-id>",
	Short: "Update an event you organize (sponsor)",
	Long: `Update an event you organize. Only the flags you pass are changed.
Requires the sponsor role.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.Guard.Require(ctx, token.RoleSponsor); err != nil {
			return err
		}
		in, closeImage, err := eventInputFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		defer closeImage()

		event, err := app.Client.UpdateEvent(ctx, args[0], in)
		if err != nil {
			return err
		}
		app.notice(cmd, "Event updated")
		event.ImageURL = resolveImage(event.ImageURL)
		return app.render(cmd, eventDetail(*event))
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <event-id>",
	Short: "Delete an event you organize (sponsor)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.Guard.Require(ctx, token.RoleSponsor); err != nil {
			return err
		}
		if !eventsFlags.yes {
			ok, err := confirm(fmt.Sprintf("Delete event %s?", args[0]), false)
			if err != nil {
				return err
			}
			if !ok {
				return app.render(cmd, actionView{Success: false, Message: "Cancelled."})
			}
		}
		res, err := app.Client.DeleteEvent(ctx, args[0])
		if err != nil {
			return err
		}
		return app.render(cmd, actionView(*res))
	},
}

var eventsRegisterCmd = &cobra.Command{
	Use:   "register <event-id>",
	Short: "Register for an event (sportsman)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.Guard.Require(ctx, token.RoleSportsman); err != nil {
			return err
		}
		res, err := app.Client.RegisterForEvent(ctx, args[0])
		if err != nil {
			return err
		}
		return app.render(cmd, actionView(*res))
	},
}

var eventsUnregisterCmd = &cobra.Command{
	Use:   "unregister <event-id>",
	Short: "Cancel your registration for an event (sportsman)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.Guard.Require(ctx, token.RoleSportsman); err != nil {
			return err
		}
		res, err := app.Client.UnregisterFromEvent(ctx, args[0])
		if err != nil {
			return err
		}
		return app.render(cmd, actionView(*res))
	},
}

var eventsParticipantsCmd = &cobra.Command{
	Use:   "participants <event-id>",
	Short: "List the participants of an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		participants, err := app.Client.Participants(cmd.Context(), args[0], eventsFlags.skip, eventsFlags.limit)
		if err != nil {
			return err
		}
		return app.render(cmd, participantList(participants))
	},
}

var eventsFlags struct {
	skip       int
	limit      int
	status     string
	eventType  string
	difficulty string
	search     string
	organizer  string
	yes        bool
}

// eventInputFlags are the flags shared by create and update.
var eventInputFlags struct {
	name            string
	description     string
	date            string
	deadline        string
	location        string
	online          bool
	maxParticipants int
	eventType       string
	difficulty      string
	status          string
	tags            []string
	image           string
}

func addPagingFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&eventsFlags.skip, "skip", 0, "number of entries to skip")
	cmd.Flags().IntVar(&eventsFlags.limit, "limit", 0, "maximum number of entries (server default when 0)")
}

func addEventInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&eventInputFlags.name, "name", "", "event name")
	f.StringVar(&eventInputFlags.description, "description", "", "event description")
	f.StringVar(&eventInputFlags.date, "date", "", "event start")
	f.StringVar(&eventInputFlags.deadline, "deadline", "", "registration deadline")
	f.StringVar(&eventInputFlags.location, "location", "", "venue")
	f.BoolVar(&eventInputFlags.online, "online", false, "the event is held online")
	f.IntVar(&eventInputFlags.maxParticipants, "max-participants", 0, "participant limit")
	f.StringVar(&eventInputFlags.eventType, "type", "", "hackathon, competition, workshop, meetup, conference, other")
	f.StringVar(&eventInputFlags.difficulty, "difficulty", "", "beginner, medium, advanced, expert")
	f.StringVar(&eventInputFlags.status, "status", "", "draft, registration, active, completed, cancelled")
	f.StringSliceVar(&eventInputFlags.tags, "tag", nil, "tag (repeatable or comma separated)")
	f.StringVar(&eventInputFlags.image, "image", "", "image file to upload")
}

func init() {
	addPagingFlags(eventsListCmd)
	eventsListCmd.Flags().StringVar(&eventsFlags.status, "status", "", "filter by status")
	eventsListCmd.Flags().StringVar(&eventsFlags.eventType, "type", "", "filter by event type")
	eventsListCmd.Flags().StringVar(&eventsFlags.difficulty, "difficulty", "", "filter by difficulty")
	eventsListCmd.Flags().StringVar(&eventsFlags.search, "search", "", "search in name and description")
	eventsListCmd.Flags().StringVar(&eventsFlags.organizer, "organizer", "", "filter by organizer id")

	addPagingFlags(eventsMineCmd)
	addPagingFlags(eventsParticipantsCmd)

	addEventInputFlags(eventsCreateCmd)
	_ = eventsCreateCmd.MarkFlagRequired("name")
	_ = eventsCreateCmd.MarkFlagRequired("date")
	addEventInputFlags(eventsUpdateCmd)

	eventsDeleteCmd.Flags().BoolVarP(&eventsFlags.yes, "yes", "y", false, "do not ask for confirmation")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
	eventsCmd.AddCommand(eventsMineCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsUpdateCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	eventsCmd.AddCommand(eventsRegisterCmd)
	eventsCmd.AddCommand(eventsUnregisterCmd)
	eventsCmd.AddCommand(eventsParticipantsCmd)
	rootCmd.AddCommand(eventsCmd)
}

// eventInputFromFlags builds an EventInput from the flags that were set.
// The returned func closes the image file, if one was opened.
func eventInputFromFlags(flags *pflag.FlagSet) (api.EventInput, func(), error) {
	var in api.EventInput
	noop := func() {}

	in.Name = strings.TrimSpace(eventInputFlags.name)
	in.Description = eventInputFlags.description
	in.Location = eventInputFlags.location
	in.EventType = api.EventType(eventInputFlags.eventType)
	in.DifficultyLevel = api.DifficultyLevel(eventInputFlags.difficulty)
	in.Status = api.EventStatus(eventInputFlags.status)
	in.Tags = eventInputFlags.tags

	if eventInputFlags.date != "" {
		t, err := parseDate("date", eventInputFlags.date)
		if err != nil {
			return in, noop, err
		}
		in.Date = &t
		in.DisplayDate = t.Format(dateLayout)
	}
	if eventInputFlags.deadline != "" {
		t, err := parseDate("deadline", eventInputFlags.deadline)
		if err != nil {
			return in, noop, err
		}
		in.RegistrationDeadline = &t
	}
	if flags.Changed("online") {
		online := eventInputFlags.online
		in.IsOnline = &online
	}
	if flags.Changed("max-participants") {
		n := eventInputFlags.maxParticipants
		in.MaxParticipants = &n
	}

	if eventInputFlags.image == "" {
		return in, noop, nil
	}
	f, err := os.Open(eventInputFlags.image)
	if err != nil {
		return in, noop, rerrors.Wrap(rerrors.ErrCodeEventImage, "cannot open image", err)
	}
	in.Image = &api.ImageUpload{Filename: filepath.Base(eventInputFlags.image), Content: f}
	return in, func() { _ = f.Close() }, nil
}

func parseDate(flag, value string) (time.Time, error) {
	ts, err := api.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, rerrors.NewValidationError("--"+flag, err)
	}
	return ts.Time, nil
}

// resolveImage turns a server-relative image path into an absolute URL.
func resolveImage(path string) string {
	if path == "" {
		return ""
	}
	return app.Client.ResolveImageURL(path)
}
