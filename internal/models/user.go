package models

import "time"

// User is a back-office operator authenticated by API key. Users are the
// actors recorded in the change log; they are provisioned out of band and
// are not themselves version-tracked entities.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
