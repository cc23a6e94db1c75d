package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"

	"github.com/felixgeelhaar/rcup/internal/token"
)

// PhoneRegion is the default region for numbers written without a country code.
const PhoneRegion = "RU"

const (
	fullNameMaxLength = 100
	passwordMinLength = 8
)

// Validate runs the registration rules before anything is sent.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.By(validateFullName)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(passwordMinLength, 0), validation.By(validatePasswordStrength)),
		validation.Field(&r.Role, validation.Required, validation.In(roleValues()...)),
	)
}

func roleValues() []interface{} {
	roles := token.Roles()
	out := make([]interface{}, len(roles))
	for i, r := range roles {
		out[i] = r
	}
	return out
}

// validateFullName requires a first and last name: more than five
// characters once trimmed and at least one inner space.
func validateFullName(value interface{}) error {
	s, _ := value.(string)
	name := strings.TrimSpace(s)
	n := utf8.RuneCountInString(name)
	if n <= 5 || !strings.Contains(name, " ") {
		return errors.New("must contain first and last name")
	}
	if n > fullNameMaxLength {
		return fmt.Errorf("must be at most %d characters", fullNameMaxLength)
	}
	return nil
}

func validatePasswordStrength(value interface{}) error {
	s, _ := value.(string)
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return errors.New("must contain upper case, lower case letters and digits")
	}
	return nil
}

var isPhone = validation.NewStringRule(func(s string) bool {
	num, err := phonenumbers.Parse(s, PhoneRegion)
	return err == nil && phonenumbers.IsValidNumber(num)
}, "must be a valid phone number")

// NormalizePhone parses s in PhoneRegion and formats it as E.164.
func NormalizePhone(s string) (string, error) {
	num, err := phonenumbers.Parse(s, PhoneRegion)
	if err != nil {
		return "", fmt.Errorf("invalid phone number %q: %w", s, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", s)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// validateCreate adds the fields the server requires on creation.
func (in EventInput) validateCreate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Date, validation.Required),
	); err != nil {
		return err
	}
	return in.Validate()
}

// Validate checks the fields that are set. Zero fields are not sent.
func (in EventInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.RuneLength(1, 200)),
		validation.Field(&in.MaxParticipants, validation.By(validateMaxParticipants)),
		validation.Field(&in.EventType, validation.In(eventTypeValues()...)),
		validation.Field(&in.DifficultyLevel, validation.In(difficultyValues()...)),
		validation.Field(&in.Status, validation.In(statusValues()...)),
		validation.Field(&in.RegistrationDeadline, validation.By(in.validateDeadline)),
	)
}

func validateMaxParticipants(value interface{}) error {
	n, ok := value.(*int)
	if !ok || n == nil {
		return nil
	}
	if *n < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func (in EventInput) validateDeadline(interface{}) error {
	if in.RegistrationDeadline == nil || in.Date == nil {
		return nil
	}
	if in.RegistrationDeadline.After(*in.Date) {
		return errors.New("must not be after the event date")
	}
	return nil
}

func validateImage(img *ImageUpload) error {
	if img == nil {
		return nil
	}
	if img.Content == nil {
		return errors.New("has no content")
	}
	if !allowedImageExtension(img.Filename) {
		return fmt.Errorf("must be one of %s", strings.Join(imageExtensions, ", "))
	}
	return nil
}

// profileKeyRules lists the keys each role may update and their rules.
var profileKeyRules = map[token.Role]map[string][]validation.Rule{
	token.RoleSportsman: {
		"bio":              {stringValue, validation.RuneLength(0, 2000)},
		"specialization":   {stringValue, validation.RuneLength(0, 200)},
		"experience_years": {intValue(0, 100)},
	},
	token.RoleSponsor: {
		"organization_name":        {stringValue, validation.RuneLength(0, 200)},
		"organization_description": {stringValue, validation.RuneLength(0, 2000)},
		"contact_phone":            {stringValue, isPhone},
		"contact_email":            {stringValue, is.Email},
		"website":                  {stringValue, is.URL},
	},
	token.RoleRegion: {
		"region_name":   {stringValue, validation.RuneLength(0, 200)},
		"region_code":   {stringValue, validation.RuneLength(0, 20)},
		"population":    {intValue(0, 1<<31-1)},
		"contact_phone": {stringValue, isPhone},
		"contact_email": {stringValue, is.Email},
	},
}

// ProfileKeys returns the keys role may update.
func ProfileKeys(role token.Role) []string {
	rules := profileKeyRules[role]
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateProfileUpdate checks a partial update for role. Unknown keys and
// bad values are reported per key.
func ValidateProfileUpdate(role token.Role, partial map[string]any) error {
	rules, ok := profileKeyRules[role]
	if !ok {
		return fmt.Errorf("unknown role %q", role)
	}
	if len(partial) == 0 {
		return errors.New("nothing to update")
	}

	errs := validation.Errors{}
	for key, value := range partial {
		keyRules, ok := rules[key]
		if !ok {
			errs[key] = fmt.Errorf("is not a %s profile field", role)
			continue
		}
		if value == nil {
			continue
		}
		if err := validation.Validate(value, keyRules...); err != nil {
			errs[key] = err
		}
	}
	return errs.Filter()
}

var stringValue = validation.By(func(value interface{}) error {
	if _, ok := value.(string); !ok {
		return errors.New("must be a string")
	}
	return nil
})

func intValue(min, max int64) validation.Rule {
	return validation.By(func(value interface{}) error {
		n, ok := toInt64(value)
		if !ok {
			return errors.New("must be an integer")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	})
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}
