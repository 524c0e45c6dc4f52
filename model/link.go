package model

import (
	"time"
)

/*

Link is a url shared by a user

Id: primary key, auto-increment
CreatedAt: time when entity is created

Description: short text shown next to the url
Url: the shared address
PostedByID:
PostedBy: user who posted the link, "belongs-to" relation, nil for anonymous links
Voters: users who voted for this link, "many-to-many" relation through Vote

*/
type Link struct {
	Id          int `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time
	Description string  `gorm:"not null"`
	Url         string  `gorm:"not null"`
	PostedByID  *int    `gorm:"index"`
	PostedBy    *User   `gorm:"foreignKey:PostedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Voters      []*User `gorm:"many2many:votes;"`
}
