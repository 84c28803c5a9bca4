package core

import "time"

type User struct {
	ID             string `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"uniqueIndex;not null"`
	HashedPassword string `json:"-" gorm:"not null"`
}

type Todo struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"index"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	UserID    string    `json:"-" gorm:"index;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"-"`
}
