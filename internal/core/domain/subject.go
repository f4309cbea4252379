package domain

import "time"

// Subject groups a user's uploaded notes. All retrieval and generation
// is scoped to exactly one subject of one user.
type Subject struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MaxSubjectsPerUser caps how many subjects a single user may create.
const MaxSubjectsPerUser = 3
