package accountsdk

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// Login endpoint actions.
const (
	ActionLogin           = "login"
	ActionValidateSession = "validate_session"
	ActionLogout          = "logout"
)

// Profile endpoint actions. ActionValidateSession is also accepted there.
const (
	ActionGetProfile    = "get_profile"
	ActionUpdateProfile = "update_profile"
)

// ============================================================================
// Registration
// ============================================================================

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// RegisterResponse is returned with 201 Created.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// ============================================================================
// Login endpoint
// ============================================================================

// LoginRequest is the body of POST /v1/login. Action defaults to
// ActionLogin when empty. Username may hold either a username or an email.
type LoginRequest struct {
	Action   string `json:"action,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

type LoginResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SessionResponse answers a validate_session action.
type SessionResponse struct {
	Success  bool   `json:"success"`
	Valid    bool   `json:"valid"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// MessageResponse is the body of responses that only carry a message, such
// as logout and update_profile.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ============================================================================
// Profile endpoint
// ============================================================================

// ProfileRequest is the body of POST /v1/profile. The profile fields are
// only read for ActionUpdateProfile.
type ProfileRequest struct {
	Action    string `json:"action"`
	Token     string `json:"token"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Age       Age    `json:"age,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Contact   string `json:"contact,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// Profile is the merged profile view. Unknown optional values are null.
type Profile struct {
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Age       *int       `json:"age"`
	DOB       *string    `json:"dob"`
	Contact   *string    `json:"contact"`
	Address   *string    `json:"address"`
	City      *string    `json:"city"`
	Country   *string    `json:"country"`
	Bio       *string    `json:"bio"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type ProfileResponse struct {
	Success bool    `json:"success"`
	Data    Profile `json:"data"`
}

// Age is the raw text of the age field. On the wire it may be a JSON
// number, a string, or null; the server decides whether it is a valid age.
// The empty Age means "not provided".
type Age string

// AgeOf returns the Age for n.
func AgeOf(n int) Age { return Age(strconv.Itoa(n)) }

func (a *Age) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Age(s)
	default:
		*a = Age(b)
	}
	return nil
}

func (a Age) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.Atoi(string(a)); err == nil {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}

// ============================================================================
// Failures
// ============================================================================

// ErrorResponse is the envelope of every unsuccessful response. Valid is
// only present on validate_session failures from the login endpoint.
type ErrorResponse = httpx.Failure

// ============================================================================
// Health
// ============================================================================

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each backing store as "ok" or "error: <reason>".
type HealthChecks struct {
	Credentials string `json:"credentials"`
	Profiles    string `json:"profiles"`
	Sessions    string `json:"sessions"`
}
