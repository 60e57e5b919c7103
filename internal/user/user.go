// Package user tracks viewer profiles. Profiles are created lazily the first
// time an email requests a magic link; there is no password to store.
package user

import (
	"context"
	"time"
)

// Plan names used in payment bookkeeping. Free is the default until a payment
// webhook upgrades the account.
const (
	PlanFree         = "free"
	PlanSubscription = "subscription"
	PlanPayPerView   = "pay_per_view"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists user profiles.
type Store interface {
	Insert(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdatePlan(ctx context.Context, id, plan string) error
}
