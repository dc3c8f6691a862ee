package model

import "time"

// Role is a closed set of authorization roles.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleScorekeeper Role = "SCOREKEEPER"
	RoleReferee     Role = "REFEREE"
	RoleViewer      Role = "VIEWER"
)

// User is an account row. Credentials and sessions are owned by the identity
// provider; the rest of the server treats them as read-only.
type User struct {
	Id           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string  `json:"name"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null"`
	Verified     bool    `json:"verified"`
	Username     *string `json:"username" gorm:"uniqueIndex"`
	PasswordHash string  `json:"-" gorm:"column:password_hash"`
	CreatedAt    time.Time
}

// Session is a login session row, keyed by an opaque unique token.
type Session struct {
	Id      int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Token   string    `json:"-" gorm:"uniqueIndex;not null"`
	UserId  int64     `json:"userId" gorm:"not null"`
	Expires time.Time `json:"expires"`
	User    User      `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

// UserRole grants a role to a user, either globally (EventCode nil) or
// scoped to a single event. Rows are removed only by cascading user deletion.
type UserRole struct {
	Id        int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId    int64   `json:"userId" gorm:"not null;index"`
	Role      Role    `json:"role" gorm:"not null"`
	EventCode *string `json:"eventCode"`
	User      User    `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

// Event is the registry row for a provisioned tournament event. The event's
// own data lives in a separate database file at DbPath.
type Event struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"eventCode" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	Type      int       `json:"type"`
	Status    int       `json:"status"`
	Finals    int       `json:"finals"`
	Divisions int       `json:"divisions"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Region    string    `json:"region"`
	DbPath    string    `json:"dbPath"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventLog is an append-only audit row.
type EventLog struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Type      string    `json:"type" gorm:"index"`
	EventCode *string   `json:"eventCode"`
	Info      string    `json:"info"`
	Payload   string    `json:"payload"`
}
