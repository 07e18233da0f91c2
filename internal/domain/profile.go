package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ModerationStatusUnmoderated = "unmoderated"
	ModerationStatusApproved    = "approved"
	ModerationStatusRejected    = "rejected"

	DeletionStatusNotDeleted = "notdeleted"
	DeletionStatusDeleted    = "deleted"
)

// Profile is the durable account record. Rows are never hard-deleted;
// DeletionStatus is flipped instead so that historical references stay valid.
type Profile struct {
	ID                      uuid.UUID      `json:"userId" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username                string         `json:"username" gorm:"uniqueIndex:idx_profiles_username;not null"`
	Email                   string         `json:"email" gorm:"uniqueIndex:idx_profiles_email;not null"`
	Name                    string         `json:"name" gorm:"not null"`
	Provider                string         `json:"provider" gorm:"not null"`
	Bio                     *string        `json:"bio,omitempty"`
	Location                *string        `json:"location,omitempty"`
	Website                 *string        `json:"website,omitempty"`
	ProfilePictureMediaID   *string        `json:"profilePictureMediaId,omitempty"`
	ProfileLink             *string        `json:"profileLink,omitempty"`
	SignUpIPv4Address       *string        `json:"-"`
	FollowersCount          int            `json:"followersCount" gorm:"not null;default:0"`
	FollowingCount          int            `json:"followingCount" gorm:"not null;default:0"`
	ModerationStatus        string         `json:"moderationStatus" gorm:"not null;default:unmoderated"`
	DeletionStatus          string         `json:"deletionStatus" gorm:"not null;default:notdeleted;index"`
	InternalTags            datatypes.JSON `json:"-"`
	ProfileRejectionReasons datatypes.JSON `json:"-"`
	CreatedAt               time.Time      `json:"createdAt"`
	UpdatedAt               time.Time      `json:"updatedAt"`
}

// ProfilePatch carries the mutable profile fields for a partial update.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	Name                  *string
	Username              *string
	Bio                   *string
	Location              *string
	Website               *string
	ProfilePictureMediaID *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Username == nil && p.Bio == nil &&
		p.Location == nil && p.Website == nil && p.ProfilePictureMediaID == nil
}

// BasicInfo is the trimmed projection returned by the basic-info endpoint.
type BasicInfo struct {
	UserID                uuid.UUID `json:"userId"`
	Username              string    `json:"username"`
	Name                  string    `json:"name"`
	ProfilePictureMediaID *string   `json:"profilePictureMediaId"`
}

// Basic returns the trimmed projection of the profile.
func (p *Profile) Basic() *BasicInfo {
	return &BasicInfo{
		UserID:                p.ID,
		Username:              p.Username,
		Name:                  p.Name,
		ProfilePictureMediaID: p.ProfilePictureMediaID,
	}
}
