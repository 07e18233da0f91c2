package domain

import "github.com/google/uuid"

// FollowEdge is a directed relation: the follower observes the followee's
// activity. The composite primary key guarantees at most one edge per
// ordered pair. CreatedAt is epoch milliseconds and doubles as the
// pagination cursor for follower/following listings.
type FollowEdge struct {
	FollowerID uuid.UUID `json:"followerId" gorm:"type:uuid;primaryKey"`
	FolloweeID uuid.UUID `json:"followeeId" gorm:"type:uuid;primaryKey"`
	CreatedAt  int64     `json:"createdAt" gorm:"not null;index;autoCreateTime:milli"`
}

// FollowListEntry is one row of a followers/following page.
type FollowListEntry struct {
	UserID                uuid.UUID `json:"userId"`
	Username              string    `json:"username"`
	Name                  string    `json:"name"`
	ProfilePictureMediaID *string   `json:"profilePictureMediaId"`
	FollowedAt            int64     `json:"followedAt"`
}
