package user

import "time"

// User is the row shape of the users table. Areas holds the JSON-encoded list.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password;not null"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     *string   `gorm:"column:last_name"`
	Designation  *string   `gorm:"column:designation"`
	Type         string    `gorm:"column:type;not null;default:user"`
	Country      *string   `gorm:"column:country"`
	Areas        *string   `gorm:"column:areas"`
	Phone        *string   `gorm:"column:phone"`
	Status       string    `gorm:"column:status;not null;default:active"`
	Avatar       *string   `gorm:"column:avatar"`
	Birthday     *string   `gorm:"column:birthday"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
