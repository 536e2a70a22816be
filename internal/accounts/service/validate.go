package service

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

const (
	minNameLength     = 2
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores anything past this
	minAge, maxAge    = 1, 150
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	contactPattern  = regexp.MustCompile(`^[\d\s\-\+\(\)]{10,20}$`)
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

// normalize trims every field except the password and lower-cases the email.
func (in RegisterInput) normalize() RegisterInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	return in
}

func (in RegisterInput) validate() error {
	errs := map[string]string{}

	checkName(errs, "firstName", "First name", in.FirstName)
	checkName(errs, "lastName", "Last name", in.LastName)

	switch {
	case in.Email == "":
		errs["email"] = "Email is required"
	case !validEmail(in.Email):
		errs["email"] = "Please enter a valid email address"
	}

	switch {
	case in.Username == "":
		errs["username"] = "Username is required"
	case !usernamePattern.MatchString(in.Username):
		errs["username"] = "Username must be 3-20 characters (letters, numbers, underscore only)"
	}

	switch {
	case in.Password == "":
		errs["password"] = "Password is required"
	case utf8.RuneCountInString(in.Password) < minPasswordLength:
		errs["password"] = "Password must be at least 8 characters"
	case len(in.Password) > maxPasswordBytes:
		errs["password"] = "Password must be at most 72 bytes"
	}

	return newValidationError(errs)
}

type LoginInput struct {
	// Identifier is a username or an email address.
	Identifier    string
	Password      string
	SourceAddress string
}

func (in LoginInput) validate() error {
	errs := map[string]string{}
	if strings.TrimSpace(in.Identifier) == "" {
		errs["username"] = "Username or email is required"
	}
	if in.Password == "" {
		errs["password"] = "Password is required"
	}
	return newValidationError(errs)
}

// ProfileInput is the raw profile update as received. Age is kept as text so
// that both JSON numbers and numeric strings can be checked the same way.
type ProfileInput struct {
	FirstName string
	LastName  string
	Age       string
	DOB       string
	Contact   string
	Address   string
	City      string
	Country   string
	Bio       string
}

// fields validates the input and returns the cleaned values to store.
// Blank optional fields become nil.
func (in ProfileInput) fields() (domain.ProfileFields, error) {
	errs := map[string]string{}

	f := domain.ProfileFields{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		DOB:       optional(in.DOB),
		Contact:   optional(in.Contact),
		Address:   optional(in.Address),
		City:      optional(in.City),
		Country:   optional(in.Country),
		Bio:       optional(in.Bio),
	}

	checkName(errs, "firstName", "First name", f.FirstName)
	checkName(errs, "lastName", "Last name", f.LastName)

	if raw := strings.TrimSpace(in.Age); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < minAge || age > maxAge {
			errs["age"] = "Please enter a valid age"
		} else {
			f.Age = &age
		}
	}

	if f.Contact != nil && !contactPattern.MatchString(*f.Contact) {
		errs["contact"] = "Please enter a valid contact number"
	}

	if err := newValidationError(errs); err != nil {
		return domain.ProfileFields{}, err
	}
	return f, nil
}

func checkName(errs map[string]string, key, label, value string) {
	switch {
	case value == "":
		errs[key] = label + " is required"
	case utf8.RuneCountInString(value) < minNameLength:
		errs[key] = label + " must be at least 2 characters"
	}
}

// validEmail accepts a bare address (no display name) whose domain has at
// least one dot.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
