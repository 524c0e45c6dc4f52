package model

import "time"

/*

Vote is a "many-to-many" relation of a user's vote on a link

LinkID: link id
UserID: user id
CreatedAt: time when the vote is cast

A user can vote for a link only once, enforced by the composite primary key.

*/
type Vote struct {
	LinkID    int `gorm:"primaryKey"`
	UserID    int `gorm:"primaryKey"`
	CreatedAt time.Time
}
