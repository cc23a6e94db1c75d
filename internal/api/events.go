package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusDraft        EventStatus = "draft"
	StatusRegistration EventStatus = "registration"
	StatusActive       EventStatus = "active"
	StatusCompleted    EventStatus = "completed"
	StatusCancelled    EventStatus = "cancelled"
)

// EventType is the kind of event.
type EventType string

const (
	TypeHackathon   EventType = "hackathon"
	TypeCompetition EventType = "competition"
	TypeWorkshop    EventType = "workshop"
	TypeMeetup      EventType = "meetup"
	TypeConference  EventType = "conference"
	TypeOther       EventType = "other"
)

// DifficultyLevel grades an event.
type DifficultyLevel string

const (
	DifficultyBeginner DifficultyLevel = "beginner"
	DifficultyMedium   DifficultyLevel = "medium"
	DifficultyAdvanced DifficultyLevel = "advanced"
	DifficultyExpert   DifficultyLevel = "expert"
)

func statusValues() []interface{} {
	return []interface{}{StatusDraft, StatusRegistration, StatusActive, StatusCompleted, StatusCancelled}
}

func eventTypeValues() []interface{} {
	return []interface{}{TypeHackathon, TypeCompetition, TypeWorkshop, TypeMeetup, TypeConference, TypeOther}
}

func difficultyValues() []interface{} {
	return []interface{}{DifficultyBeginner, DifficultyMedium, DifficultyAdvanced, DifficultyExpert}
}

// Tag is an event tag. The server sends objects; older payloads send bare
// strings.
type Tag struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// UnmarshalJSON accepts "name" or {"id": ..., "name": ...}.
func (t *Tag) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Name)
	}
	type plain Tag
	return json.Unmarshal(data, (*plain)(t))
}

// Organizer is the organizer summary embedded in event details.
type Organizer struct {
	ID               string `json:"id" yaml:"id"`
	FullName         string `json:"full_name" yaml:"full_name"`
	Email            string `json:"email" yaml:"email"`
	OrganizationName string `json:"organization_name,omitempty" yaml:"organization_name,omitempty"`
}

// Event is an event as returned by the API.
type Event struct {
	ID                   string          `json:"id" yaml:"id"`
	Name                 string          `json:"name" yaml:"name"`
	Description          string          `json:"description,omitempty" yaml:"description,omitempty"`
	Date                 Timestamp       `json:"date" yaml:"date"`
	RegistrationDeadline Timestamp       `json:"registration_deadline" yaml:"registration_deadline,omitempty"`
	Location             string          `json:"location,omitempty" yaml:"location,omitempty"`
	IsOnline             bool            `json:"is_online" yaml:"is_online"`
	MaxParticipants      int             `json:"max_participants" yaml:"max_participants"`
	CurrentParticipants  int             `json:"current_participants" yaml:"current_participants"`
	EventType            EventType       `json:"event_type" yaml:"event_type"`
	DifficultyLevel      DifficultyLevel `json:"difficulty_level" yaml:"difficulty_level"`
	Status               EventStatus     `json:"status" yaml:"status"`
	ImageURL             string          `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	OrganizerID          string          `json:"organizer_id" yaml:"organizer_id"`
	Organizer            *Organizer      `json:"organizer,omitempty" yaml:"organizer,omitempty"`
	Tags                 []Tag           `json:"tags" yaml:"tags"`
	CreatedAt            Timestamp       `json:"created_at" yaml:"created_at"`
	UpdatedAt            Timestamp       `json:"updated_at" yaml:"updated_at,omitempty"`
}

// TagNames returns the tag names in order.
func (e Event) TagNames() []string {
	names := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		names[i] = t.Name
	}
	return names
}

// SpotsLeft returns how many participants can still register.
func (e Event) SpotsLeft() int {
	if left := e.MaxParticipants - e.CurrentParticipants; left > 0 {
		return left
	}
	return 0
}

// EventFilter narrows GET /events. Zero fields are not sent.
type EventFilter struct {
	Skip            int
	Limit           int
	Status          EventStatus
	EventType       EventType
	DifficultyLevel DifficultyLevel
	Search          string
	OrganizerID     string
}

// Query encodes the filter as query parameters.
func (f EventFilter) Query() url.Values {
	q := url.Values{}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.EventType != "" {
		q.Set("event_type", string(f.EventType))
	}
	if f.DifficultyLevel != "" {
		q.Set("difficulty_level", string(f.DifficultyLevel))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.OrganizerID != "" {
		q.Set("organizer_id", f.OrganizerID)
	}
	return q
}

// ImageUpload is an image attached to an event create or update.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// EventInput is the create/update payload. Zero fields are omitted. Image
// switches the request to multipart; DisplayDate is a presentation value
// that is never sent.
type EventInput struct {
	Name                 string          `json:"name,omitempty"`
	Description          string          `json:"description,omitempty"`
	Date                 *time.Time      `json:"date,omitempty"`
	RegistrationDeadline *time.Time      `json:"registration_deadline,omitempty"`
	Location             string          `json:"location,omitempty"`
	IsOnline             *bool           `json:"is_online,omitempty"`
	MaxParticipants      *int            `json:"max_participants,omitempty"`
	EventType            EventType       `json:"event_type,omitempty"`
	DifficultyLevel      DifficultyLevel `json:"difficulty_level,omitempty"`
	Status               EventStatus     `json:"status,omitempty"`
	ImageURL             string          `json:"image_url,omitempty"`
	Tags                 []string        `json:"tags,omitempty"`

	Image       *ImageUpload `json:"-"`
	DisplayDate string       `json:"-"`
}

// encode writes the input as multipart when an image is attached, JSON
// otherwise.
func (in EventInput) encode() (*payload, error) {
	if in.Image == nil {
		return jsonPayload(in)
	}

	fields, err := in.formFields()
	if err != nil {
		return nil, err
	}
	return multipartPayload(filePart{
		field:    "image",
		filename: in.Image.Filename,
		content:  in.Image.Content,
	}, fields)
}

// formFields flattens the JSON form of the input into sorted form fields.
// Lists are comma joined.
func (in EventInput) formFields() ([][2]string, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to flatten event: %w", err)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([][2]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, [2]string{k, formValue(m[k])})
	}
	return fields, nil
}

func formValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formValue(e)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}

// EventStats is returned by GET /events/stats.
type EventStats struct {
	TotalEvents    int              `json:"total_events" yaml:"total_events"`
	ActiveEvents   int              `json:"active_events" yaml:"active_events"`
	UpcomingEvents int              `json:"upcoming_events" yaml:"upcoming_events"`
	PopularTags    []map[string]any `json:"popular_tags" yaml:"popular_tags"`
	RecentEvents   []Event          `json:"recent_events" yaml:"recent_events"`
}

// Participant is a registered participant of an event.
type Participant struct {
	ID           string    `json:"id" yaml:"id"`
	FullName     string    `json:"full_name" yaml:"full_name"`
	Email        string    `json:"email,omitempty" yaml:"email,omitempty"`
	Role         string    `json:"role,omitempty" yaml:"role,omitempty"`
	Status       string    `json:"status,omitempty" yaml:"status,omitempty"`
	RegisteredAt Timestamp `json:"registered_at" yaml:"registered_at,omitempty"`
}

// ActionResult is the {success, message} body of state-changing calls.
type ActionResult struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	EventID string `json:"event_id,omitempty" yaml:"event_id,omitempty"`
}

func eventPath(id string, suffix ...string) string {
	p := "/events/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// ListEvents lists events matching filter.
func (c *Client) ListEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	var events []Event
	if err := c.do(ctx, "GET", "/events", filter.Query(), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Event fetches one event with its organizer.
func (c *Client) Event(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := c.do(ctx, "GET", eventPath(id), nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// MyEvents lists the events the current user registered for.
func (c *Client) MyEvents(ctx context.Context, skip, limit int) ([]Event, error) {
	var events []Event
	q := EventFilter{Skip: skip, Limit: limit}.Query()
	if err := c.do(ctx, "GET", "/events/my", q, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventStats fetches aggregate event statistics.
func (c *Client) EventStats(ctx context.Context) (*EventStats, error) {
	var stats EventStats
	if err := c.do(ctx, "GET", "/events/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateEvent creates an event.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	if err := in.check(true); err != nil {
		return nil, err
	}
	body, err := in.encode()
	if err != nil {
		return nil, err
	}
	var event Event
	if err := c.do(ctx, "POST", "/events", nil, body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent updates the set fields of an event.
func (c *Client) UpdateEvent(ctx context.Context, id string, in EventInput) (*Event, error) {
	if err := in.check(false); err != nil {
		return nil, err
	}
	body, err := in.encode()
	if err != nil {
		return nil, err
	}
	var event Event
	if err := c.do(ctx, "PUT", eventPath(id), nil, body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// check validates the input before it is encoded. Image problems carry
// their own code.
func (in EventInput) check(create bool) error {
	if err := validateImage(in.Image); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeEventImage, "invalid event image", err)
	}
	validate := in.Validate
	if create {
		validate = in.validateCreate
	}
	if err := validate(); err != nil {
		return rerrors.NewValidationError("event", err)
	}
	return nil
}

// DeleteEvent deletes an event the current user organizes.
func (c *Client) DeleteEvent(ctx context.Context, id string) (*ActionResult, error) {
	var res ActionResult
	if err := c.do(ctx, "DELETE", eventPath(id), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RegisterForEvent registers the current user as a participant.
func (c *Client) RegisterForEvent(ctx context.Context, id string) (*ActionResult, error) {
	var res ActionResult
	if err := c.do(ctx, "POST", eventPath(id, "register"), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UnregisterFromEvent cancels the current user's registration.
func (c *Client) UnregisterFromEvent(ctx context.Context, id string) (*ActionResult, error) {
	var res ActionResult
	if err := c.do(ctx, "DELETE", eventPath(id, "register"), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Participants lists the participants of an event.
func (c *Client) Participants(ctx context.Context, id string, skip, limit int) ([]Participant, error) {
	var participants []Participant
	q := EventFilter{Skip: skip, Limit: limit}.Query()
	if err := c.do(ctx, "GET", eventPath(id, "participants"), q, nil, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}
