package domain

import "time"

// Profile holds the optional, non-authoritative attributes stored in the
// document store. A missing profile is a valid state.
type Profile struct {
	UserID    string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Age       *int
	DOB       *string
	Contact   *string
	Address   *string
	City      *string
	Country   *string
	Bio       *string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// ProfileFields is the mutable part of a profile. Nil pointers are stored as
// null.
type ProfileFields struct {
	FirstName string
	LastName  string
	Age       *int
	DOB       *string
	Contact   *string
	Address   *string
	City      *string
	Country   *string
	Bio       *string
}
