package models

import "time"

// User is a registered customer. Password holds a bcrypt hash and is never
// serialised.
type User struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Name      string    `gorm:"size:255;not null"             json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null"             json:"-"`
	CreatedAt time.Time `json:"-"`
}

// UserResource is the public shape of a user: {name, email}.
type UserResource struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Resource() UserResource {
	return UserResource{Name: u.Name, Email: u.Email}
}

// UserResources maps a slice of users to their public shape.
func UserResources(users []User) []UserResource {
	out := make([]UserResource, len(users))
	for i, u := range users {
		out[i] = u.Resource()
	}
	return out
}
