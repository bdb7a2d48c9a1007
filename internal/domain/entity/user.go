// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity. Every registered person has exactly one
// User row and one attached Profile created implicitly at signup.
type User struct {
	ID        uuid.UUID // The unique identifier for the user.
	Email     string    // Primary contact email, also the login identifier.
	Name      string    // Display name.
	Profile   *Profile  // The user's profile; created together with the account.
	CreatedAt time.Time // Timestamp of when this account was created.
	UpdatedAt time.Time // Timestamp of the last modification.
}

// Profile holds the contact, address and presentation data attached to a user.
// It is mutated by the owning user or by an admin.
type Profile struct {
	UserID     uuid.UUID // Foreign key linking this profile to its User.
	Role       Role      // Role flag: admin or standard user.
	FullName   string    // Contact name used to prefill checkout forms.
	Address    string    // Street address.
	Country    string    // Country name.
	City       string    // City name.
	PostalCode string    // Postal code.
	Phone      string    // Contact phone number.
	AvatarPath string    // Storage path of the avatar inside the user-avatars bucket.
	FCMToken   string    // Optional device token for push notification on order updates.
	UpdatedAt  time.Time // Timestamp of the last modification.
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Profile != nil && u.Profile.Role == RoleAdmin
}

// RolesOf extracts the roles carried by the user's profile.
func (u *User) RolesOf() Roles {
	if u.Profile == nil {
		return nil
	}
	if u.Profile.Role == RoleAdmin {
		// Admins retain the shopper role as well.
		return Roles{RoleUser, RoleAdmin}
	}

	return Roles{RoleUser}
}
