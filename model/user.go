package model

import "time"

/*

User is an account that can post and vote for links

Id: primary key, auto-increment
CreatedAt: time when entity is created

Name: display name
Email: login identifier, unique
Password: bcrypt hash of the user's password, never returned to clients
Links: links posted by the user, "has-many" relation
Votes: links the user voted for, "many-to-many" relation through Vote

*/
type User struct {
	Id        int `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	Name      string
	Email     string  `gorm:"uniqueIndex;not null"`
	Password  string  `json:"-"`
	Links     []*Link `gorm:"foreignKey:PostedByID"`
	Votes     []*Link `gorm:"many2many:votes;"`
}
