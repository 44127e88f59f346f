package model

import (
	"time"

	"github.com/garagebuddy/garagebuddy/internal/errs"
)

// Sale is a garage sale event. Members maps a user email to a role rank; the
// map is persisted as a JSONB column, so ranks must round-trip as integers.
type Sale struct {
	ID        int
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Closed    bool
	Members   map[string]int
}

// NewSale creates a sale with the creator as its sale administrator. Sales
// may start and end on the same day, but never end before they start.
func NewSale(name string, start, end time.Time, creatorEmail string) (*Sale, error) {
	if end.Before(start) {
		return nil, errs.ErrInvalidDateRange
	}
	s := &Sale{
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Members:   map[string]int{},
	}
	s.AddMember(creatorEmail, RoleSaleAdmin)
	return s, nil
}

// AddMember assigns a role to the given email, overwriting any existing role.
// A user holds exactly one role per sale; no history of prior roles is kept.
func (s *Sale) AddMember(email string, role Role) bool {
	if s.Members == nil {
		s.Members = map[string]int{}
	}
	s.Members[NormalizeEmail(email)] = role.Rank()
	return true
}

// RoleOf returns the member's role, or Guest when the email is not a member.
func (s *Sale) RoleOf(email string) Role {
	rank, ok := s.Members[NormalizeEmail(email)]
	if !ok {
		return RoleGuest
	}
	return RoleFromRank(rank)
}

// PermissionRank returns the member's permission level from 1 to 7.
func (s *Sale) PermissionRank(email string) int {
	return s.RoleOf(email).Rank()
}

// MemberEmails returns the emails of all members, in no particular order.
func (s *Sale) MemberEmails() []string {
	emails := make([]string, 0, len(s.Members))
	for email := range s.Members {
		emails = append(emails, email)
	}
	return emails
}

// SellerEmails returns members ranked Seller or above.
func (s *Sale) SellerEmails() []string {
	var emails []string
	for email, rank := range s.Members {
		if rank >= RoleSeller.Rank() {
			emails = append(emails, email)
		}
	}
	return emails
}

// Rename changes the sale's name. Closed sales are frozen.
func (s *Sale) Rename(name string) error {
	if s.Closed {
		return errs.ErrSaleClosed
	}
	s.Name = name
	return nil
}

// Reschedule changes the sale's date range. Closed sales are frozen, and the
// end date may not precede the start date.
func (s *Sale) Reschedule(start, end time.Time) error {
	if s.Closed {
		return errs.ErrSaleClosed
	}
	if end.Before(start) {
		return errs.ErrInvalidDateRange
	}
	s.StartDate = start
	s.EndDate = end
	return nil
}

// Close marks the sale closed. Closing is one-way: name, dates and member
// roles can no longer be edited afterwards.
func (s *Sale) Close() {
	s.Closed = true
}
