package domain

import "time"

// ContactSubmission is one row of the contact_submissions table. Rows are
// append-only from the point of view of this service.
type ContactSubmission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactListOptions carries pagination for the admin listing.
type ContactListOptions struct {
	Limit  int
	Offset int
}

const (
	DefaultContactPageSize = 20
	MaxContactPageSize     = 100
)

// Normalize applies the default page size and clamps out-of-range values.
func (o ContactListOptions) Normalize() ContactListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultContactPageSize
	}
	if o.Limit > MaxContactPageSize {
		o.Limit = MaxContactPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
