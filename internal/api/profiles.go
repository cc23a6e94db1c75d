package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/token"
)

// Profile is the combined user and role profile from GET /profiles/*.
type Profile struct {
	UserID      string         `json:"user_id" yaml:"user_id"`
	FullName    string         `json:"full_name" yaml:"full_name"`
	Email       string         `json:"email" yaml:"email"`
	Role        token.Role     `json:"role" yaml:"role"`
	ProfileData map[string]any `json:"profile_data" yaml:"profile_data"`
	CreatedAt   Timestamp      `json:"created_at" yaml:"created_at"`
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.ProfileData = cloneMap(p.ProfileData)
	return &out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Merge overlays partial onto the role data.
func (p *Profile) Merge(partial map[string]any) {
	if p.ProfileData == nil {
		p.ProfileData = make(map[string]any, len(partial))
	}
	for k, v := range partial {
		p.ProfileData[k] = cloneValue(v)
	}
}

// SportsmanData is the sportsman role profile.
type SportsmanData struct {
	ID              string    `json:"id" yaml:"id"`
	Rating          int       `json:"rating" yaml:"rating"`
	CompletedEvents int       `json:"completed_events" yaml:"completed_events"`
	Wins            int       `json:"wins" yaml:"wins"`
	Bio             string    `json:"bio,omitempty" yaml:"bio,omitempty"`
	Specialization  string    `json:"specialization,omitempty" yaml:"specialization,omitempty"`
	ExperienceYears int       `json:"experience_years" yaml:"experience_years"`
	UpdatedAt       Timestamp `json:"updated_at" yaml:"updated_at,omitempty"`
}

// SponsorData is the sponsor (organizer) role profile.
type SponsorData struct {
	ID                      string    `json:"id" yaml:"id"`
	OrganizationName        string    `json:"organization_name,omitempty" yaml:"organization_name,omitempty"`
	OrganizationDescription string    `json:"organization_description,omitempty" yaml:"organization_description,omitempty"`
	HostedEventsCount       int       `json:"hosted_events_count" yaml:"hosted_events_count"`
	ContactPhone            string    `json:"contact_phone,omitempty" yaml:"contact_phone,omitempty"`
	ContactEmail            string    `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
	Website                 string    `json:"website,omitempty" yaml:"website,omitempty"`
	UpdatedAt               Timestamp `json:"updated_at" yaml:"updated_at,omitempty"`
}

// RegionData is the regional representative role profile.
type RegionData struct {
	ID                string    `json:"id" yaml:"id"`
	RegionName        string    `json:"region_name" yaml:"region_name"`
	RegionCode        string    `json:"region_code,omitempty" yaml:"region_code,omitempty"`
	Population        int       `json:"population,omitempty" yaml:"population,omitempty"`
	TeamMembers       int       `json:"team_members" yaml:"team_members"`
	RegionEventsCount int       `json:"region_events_count" yaml:"region_events_count"`
	ContactPhone      string    `json:"contact_phone,omitempty" yaml:"contact_phone,omitempty"`
	ContactEmail      string    `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
	UpdatedAt         Timestamp `json:"updated_at" yaml:"updated_at,omitempty"`
}

// RoleData decodes ProfileData into the struct for the profile's role:
// *SportsmanData, *SponsorData or *RegionData.
func (p *Profile) RoleData() (any, error) {
	var target any
	switch p.Role {
	case token.RoleSportsman:
		target = &SportsmanData{}
	case token.RoleSponsor:
		target = &SponsorData{}
	case token.RoleRegion:
		target = &RegionData{}
	default:
		return nil, rerrors.New(rerrors.ErrCodeProfileRole, fmt.Sprintf("unknown profile role %q", p.Role))
	}

	data, err := json.Marshal(p.ProfileData)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeDecode, "failed to decode profile data", err)
	}
	return target, nil
}

var intProfileKeys = map[string]bool{
	"experience_years": true,
	"population":       true,
}

// ParseProfileValue converts a command-line value for key into the type
// the server expects. Phone numbers are normalised to E.164.
func ParseProfileValue(key, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case intProfileKeys[key]:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		return n, nil
	case key == "contact_phone":
		return NormalizePhone(raw)
	default:
		return raw, nil
	}
}

// MyProfile fetches the current user's profile.
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, "GET", "/profiles/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Profile fetches another user's profile.
func (c *Client) Profile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, "GET", "/profiles/"+url.PathEscape(userID), nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile sends a partial role profile update and returns the
// server's copy of the role data.
func (c *Client) UpdateProfile(ctx context.Context, role token.Role, partial map[string]any) (map[string]any, error) {
	if err := ValidateProfileUpdate(role, partial); err != nil {
		return nil, rerrors.NewValidationError("profile update", err)
	}
	body, err := jsonPayload(partial)
	if err != nil {
		return nil, err
	}
	var updated map[string]any
	if err := c.do(ctx, "PUT", "/profiles/"+url.PathEscape(role.String()), nil, body, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}
