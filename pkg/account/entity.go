package account

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is a domain entity representing a registered account.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	// TC records that the user accepted the terms at registration.
	TC bool
	// Profile carries optional attached data (avatar, address, categories,
	// locations). The service never interprets it.
	Profile   json.RawMessage
	CreatedAt time.Time
}
