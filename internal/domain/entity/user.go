package entity

import "time"

type Provider string

const (
	ProviderSystem Provider = "system"
	ProviderGoogle Provider = "google"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

type User struct {
	ID       string   `json:"id" bson:"_id,omitempty"`
	Username string   `json:"username" bson:"username"`
	Email    string   `json:"email" bson:"email"`
	Password string   `json:"-" bson:"password,omitempty"`
	Provider Provider `json:"provider" bson:"provider"`
	Role     Role     `json:"role" bson:"role"`
	Phone    string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Bio      string   `json:"bio,omitempty" bson:"bio,omitempty"`

	ProfileImageKey string   `json:"profile_image_key,omitempty" bson:"profileImageKey,omitempty"`
	TempImageKey    string   `json:"-" bson:"tempImageKey,omitempty"`
	CoverImageKeys  []string `json:"cover_image_keys,omitempty" bson:"coverImageKeys,omitempty"`

	Friends []string `json:"friends,omitempty" bson:"friends,omitempty"`

	ConfirmEmailOTP  string     `json:"-" bson:"confirmEmailOtp,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty" bson:"confirmedAt,omitempty"`
	ResetPasswordOTP string     `json:"-" bson:"resetPasswordOtp,omitempty"`

	// Tokens issued before this moment are rejected on verification.
	ChangeCredentialsTime *time.Time `json:"-" bson:"changeCredentialsTime,omitempty"`

	FreezedAt  *time.Time `json:"freezed_at,omitempty" bson:"freezedAt,omitempty"`
	FreezedBy  string     `json:"-" bson:"freezedBy,omitempty"`
	RestoredAt *time.Time `json:"-" bson:"restoredAt,omitempty"`
	RestoredBy string     `json:"-" bson:"restoredBy,omitempty"`
	BlockedAt  *time.Time `json:"blocked_at,omitempty" bson:"blockedAt,omitempty"`
	BlockedBy  string     `json:"-" bson:"blockedBy,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

func (u *User) IsConfirmed() bool {
	return u.ConfirmedAt != nil
}

func (u *User) IsFriend(userID string) bool {
	for _, id := range u.Friends {
		if id == userID {
			return true
		}
	}
	return false
}
