package models

import "time"

type User struct {
	Username string `gorm:"column:username;primaryKey;size:64" json:"username"`
	Codeword string `gorm:"column:codeword;not null" json:"-"`
	IsHuman  bool   `gorm:"column:is_human;default:true" json:"is_human"`
}

func (User) TableName() string { return "users" }

type Token struct {
	Token    string    `gorm:"column:token;primaryKey;size:64" json:"token"`
	Username string    `gorm:"column:username;index;not null" json:"username"`
	Expires  time.Time `gorm:"column:expires;not null" json:"expires"`
}

func (Token) TableName() string { return "tokens" }

type Message struct {
	MessageID        int64     `gorm:"column:message_id;primaryKey;autoIncrement" json:"message_id"`
	ReplyToMessageID *int64    `gorm:"column:reply_to_message_id" json:"reply_to_message_id"`
	FromUsername     string    `gorm:"column:from_username;index;not null" json:"from_username"`
	ReplyToUsername  *string   `gorm:"column:reply_to_username;index" json:"reply_to_username"`
	Message          string    `gorm:"column:message;type:text;not null" json:"message"`
	Datetime         time.Time `gorm:"column:datetime;not null" json:"datetime"`
}

func (Message) TableName() string { return "messages" }
