package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/rcup/internal/api"
	"github.com/felixgeelhaar/rcup/internal/config"
	"github.com/felixgeelhaar/rcup/internal/health"
	"github.com/felixgeelhaar/rcup/internal/session"
	"github.com/felixgeelhaar/rcup/internal/ux"
)

const dateLayout = "2006-01-02 15:04"

func formatTime(ts api.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(dateLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// eventList renders as a table.
type eventList []api.Event

func (l eventList) RenderText(w io.Writer, styles ux.Styles) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, styles.Muted.Render("No events found."))
		return err
	}
	table := ux.NewTable("ID", "NAME", "DATE", "STATUS", "TYPE", "PARTICIPANTS")
	for _, e := range l {
		table.Row(e.ID, e.Name, formatTime(e.Date), e.Status, e.EventType,
			fmt.Sprintf("%d/%d", e.CurrentParticipants, e.MaxParticipants))
	}
	return table.Render(w)
}

// eventDetail renders a single event.
type eventDetail api.Event

func (d eventDetail) RenderText(w io.Writer, styles ux.Styles) error {
	e := api.Event(d)
	where := orDash(e.Location)
	if e.IsOnline {
		where = "online"
	}

	p := ux.NewPrinter(w)
	p.Println(styles.Title.Render(e.Name))
	p.Println(styles.Field("ID", e.ID))
	p.Println(styles.Field("Status", string(e.Status)))
	p.Println(styles.Field("Type", string(e.EventType)))
	p.Println(styles.Field("Difficulty", orDash(string(e.DifficultyLevel))))
	p.Println(styles.Field("Date", formatTime(e.Date)))
	p.Println(styles.Field("Registration until", formatTime(e.RegistrationDeadline)))
	p.Println(styles.Field("Where", where))
	p.Println(styles.Field("Participants", fmt.Sprintf("%d/%d (%d spots left)", e.CurrentParticipants, e.MaxParticipants, e.SpotsLeft())))
	if tags := e.TagNames(); len(tags) > 0 {
		p.Println(styles.Field("Tags", strings.Join(tags, ", ")))
	}
	if e.Organizer != nil {
		org := e.Organizer.FullName
		if e.Organizer.OrganizationName != "" {
			org += " (" + e.Organizer.OrganizationName + ")"
		}
		p.Println(styles.Field("Organizer", org))
	}
	if e.ImageURL != "" {
		p.Println(styles.Field("Image", e.ImageURL))
	}
	if e.Description != "" {
		p.Println()
		p.Println(e.Description)
	}
	return p.Err()
}

type participantList []api.Participant

func (l participantList) RenderText(w io.Writer, styles ux.Styles) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, styles.Muted.Render("No participants yet."))
		return err
	}
	table := ux.NewTable("ID", "NAME", "EMAIL", "STATUS", "REGISTERED")
	for _, pt := range l {
		table.Row(pt.ID, pt.FullName, pt.Email, pt.Status, formatTime(pt.RegisteredAt))
	}
	return table.Render(w)
}

type statsView api.EventStats

func (s statsView) RenderText(w io.Writer, styles ux.Styles) error {
	p := ux.NewPrinter(w)
	p.Println(styles.Title.Render("Event statistics"))
	p.Println(styles.Field("Total", strconv.Itoa(s.TotalEvents)))
	p.Println(styles.Field("Active", strconv.Itoa(s.ActiveEvents)))
	p.Println(styles.Field("Upcoming", strconv.Itoa(s.UpcomingEvents)))
	if len(s.RecentEvents) == 0 {
		return p.Err()
	}
	p.Println()
	p.Println(styles.Header.Render("Recent events"))
	if err := p.Err(); err != nil {
		return err
	}
	return eventList(s.RecentEvents).RenderText(w, styles)
}

type actionView api.ActionResult

func (a actionView) RenderText(w io.Writer, styles ux.Styles) error {
	msg := a.Message
	if msg == "" {
		msg = "Done"
	}
	style := styles.Success
	if !a.Success {
		style = styles.Warning
	}
	_, err := fmt.Fprintln(w, style.Render(msg))
	return err
}

// profileView renders the common fields followed by the role data.
type profileView api.Profile

func (v profileView) RenderText(w io.Writer, styles ux.Styles) error {
	p := ux.NewPrinter(w)
	p.Println(styles.Title.Render(v.FullName))
	p.Println(styles.Field("ID", v.UserID))
	p.Println(styles.Field("Email", v.Email))
	p.Println(styles.Field("Role", string(v.Role)))
	p.Println(styles.Field("Since", formatTime(v.CreatedAt)))

	keys := make([]string, 0, len(v.ProfileData))
	for k := range v.ProfileData {
		if k != "id" && k != "user_id" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return p.Err()
	}
	sort.Strings(keys)

	p.Println()
	p.Println(styles.Header.Render("Profile details"))
	for _, k := range keys {
		s := "-"
		if val := v.ProfileData[k]; val != nil {
			s = fmt.Sprint(val)
		}
		p.Println(styles.Field(k, s))
	}
	return p.Err()
}

// sessionView renders auth status.
type sessionView session.State

func (s sessionView) RenderText(w io.Writer, styles ux.Styles) error {
	p := ux.NewPrinter(w)
	if !s.Authenticated {
		p.Println(styles.Warning.Render("Not logged in.") + " Run 'rcup auth login' to sign in.")
		return p.Err()
	}
	expires := "-"
	if !s.ExpiresAt.IsZero() {
		expires = s.ExpiresAt.Local().Format(dateLayout)
	}
	p.Println(styles.Success.Render("Logged in"))
	p.Println(styles.Field("User", orDash(s.UserID)))
	p.Println(styles.Field("Role", orDash(string(s.Role))))
	p.Println(styles.Field("Expires", expires))
	return p.Err()
}

// ratingsView is a filtered leaderboard with its summary.
type ratingsView struct {
	Summary api.RatingSummary `json:"summary" yaml:"summary"`
	Entries []api.RatingEntry `json:"entries" yaml:"entries"`
}

func (r ratingsView) RenderText(w io.Writer, styles ux.Styles) error {
	p := ux.NewPrinter(w)
	p.Println(styles.Title.Render("Leaderboard"))
	p.Println(styles.Field("Participants", strconv.Itoa(r.Summary.Total)))
	p.Println(styles.Field("Average score", strconv.Itoa(r.Summary.AverageScore)))
	p.Println(styles.Field("Top region", orDash(r.Summary.TopRegion)))
	p.Println()
	if len(r.Entries) == 0 {
		p.Println(styles.Muted.Render("No matching entries."))
		return p.Err()
	}
	if err := p.Err(); err != nil {
		return err
	}

	table := ux.NewTable("#", "NAME", "REGION", "SCORE", "TREND")
	for i, e := range r.Entries {
		table.Row(i+1, e.Name, e.Region, e.Score, trend(e.Trend))
	}
	return table.Render(w)
}

func trend(n int) string {
	switch {
	case n > 0:
		return "+" + strconv.Itoa(n)
	case n < 0:
		return strconv.Itoa(n)
	default:
		return "0"
	}
}

// configView is the effective configuration with secrets masked.
type configView config.Config

func newConfigView(cfg *config.Config) configView {
	v := configView(*cfg)
	if v.Token.RedisPassword != "" {
		v.Token.RedisPassword = "********"
	}
	return v
}

func (c configView) RenderText(w io.Writer, styles ux.Styles) error {
	p := ux.NewPrinter(w)
	field := func(k, v string) { p.Println(styles.Field(k, v)) }

	field("api_url", c.APIURL)
	field("http_timeout", c.HTTPTimeout.String())
	field("output", c.Output)
	field("token.backend", c.Token.Backend)
	switch c.Token.Backend {
	case config.BackendFile:
		field("token.dir", c.Token.Dir)
	case config.BackendRedis:
		field("token.redis_addr", c.Token.RedisAddr)
		field("token.redis_db", strconv.Itoa(c.Token.RedisDB))
		field("token.redis_prefix", orDash(c.Token.RedisPrefix))
	}
	field("log.level", c.Log.Level)
	field("log.format", c.Log.Format)
	return p.Err()
}

// doctorView renders a health report, one line per check.
type doctorView health.Report

func (d doctorView) RenderText(w io.Writer, styles ux.Styles) error {
	p := ux.NewPrinter(w)
	for _, r := range d.Results {
		style := styles.Success
		switch r.Status {
		case health.StatusDegraded:
			style = styles.Warning
		case health.StatusUnhealthy:
			style = styles.Error
		}
		p.Printf("%s %-10s %s\n", style.Render(fmt.Sprintf("%-9s", r.Status)), r.Name, r.Message)

		keys := make([]string, 0, len(r.Details))
		for k := range r.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.Printf("          %s\n", styles.Field(k, fmt.Sprint(r.Details[k])))
		}
	}
	p.Println(styles.Header.Render("Overall: " + string(d.Status)))
	return p.Err()
}
