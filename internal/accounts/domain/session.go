package domain

import "time"

// Session is the value stored against a session token. It is serialised as
// JSON so the field names are part of the stored format.
type Session struct {
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	LoginTime     time.Time `json:"loginTime"`
	SourceAddress string    `json:"sourceAddress"`
}
