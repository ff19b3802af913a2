// Package directory exposes the Users and Customers collaborators at their
// interface boundary: tenant-scoped id-to-display-name resolution for ledger
// read models and existence checks for write validation. This subsystem never
// writes those tables.
package directory

import (
	"context"

	"github.com/google/uuid"
)

// Repository resolves user and customer display names inside one tenant
type Repository interface {
	// UserName returns the display name for a user id within the tenant.
	// Returns ErrUserNotFound when the id does not exist there.
	UserName(ctx context.Context, clientID int64, userID uuid.UUID) (string, error)

	// CustomerName returns the display name for a customer id within the tenant.
	// Returns ErrCustomerNotFound when the id does not exist there.
	CustomerName(ctx context.Context, clientID int64, customerID uuid.UUID) (string, error)

	// UserNames bulk-resolves display names; ids absent from the tenant are
	// simply missing from the result map.
	UserNames(ctx context.Context, clientID int64, ids []uuid.UUID) (map[uuid.UUID]string, error)

	// CustomerNames bulk-resolves customer display names
	CustomerNames(ctx context.Context, clientID int64, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// ErrUserNotFound indicates the user id does not exist in the tenant
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrUserNotFound
func (e ErrUserNotFound) Is(target error) bool {
	t, ok := target.(ErrUserNotFound)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}

// ErrCustomerNotFound indicates the customer id does not exist in the tenant
type ErrCustomerNotFound struct {
	CustomerID uuid.UUID
}

func (e ErrCustomerNotFound) Error() string {
	return "customer not found: " + e.CustomerID.String()
}

// Is implements the errors.Is interface for ErrCustomerNotFound
func (e ErrCustomerNotFound) Is(target error) bool {
	t, ok := target.(ErrCustomerNotFound)
	if !ok {
		return false
	}
	if t.CustomerID == uuid.Nil {
		return true
	}
	return e.CustomerID == t.CustomerID
}
