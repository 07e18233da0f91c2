package domain

import "github.com/google/uuid"

// DefaultSessionField is stored when the client does not report a device,
// operating system or access level on login.
const DefaultSessionField = "default"

// Session is the metadata stored behind one opaque bearer token. A profile
// may hold any number of concurrent sessions (one per device). Sessions have
// no expiry; they live until explicitly revoked.
type Session struct {
	Token           string    `json:"token"`
	UserID          uuid.UUID `json:"userId"`
	UserIdentifier  string    `json:"userIdentifier"`
	Provider        string    `json:"provider"`
	AccessLevel     string    `json:"userAccessLevel"`
	Device          string    `json:"device"`
	OperatingSystem string    `json:"operatingSystem"`
	CreatedAt       int64     `json:"createdAt"`
	LastModifiedAt  int64     `json:"lastModifiedAt"`
}
