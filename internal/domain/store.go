package domain

import "time"

// Store is one physical location employees belong to.
type Store struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
