package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
)

// User is the account record shared by regular users and staff. Email and
// mobile are stored as NULL (not "") when absent so the unique indexes don't
// collide on empty strings.
type User struct {
	gorm.Model
	Username  string  `gorm:"column:username;size:150;uniqueIndex"`
	Email     *string `gorm:"column:email;size:254;uniqueIndex"`
	Mobile    *string `gorm:"column:mobile;size:12;uniqueIndex"`
	Password  string  `gorm:"column:password"`
	FirstName string  `gorm:"column:first_name;size:150"`
	LastName  string  `gorm:"column:last_name;size:150"`

	IsActive    bool `gorm:"column:is_active;default:true"`
	IsStaff     bool `gorm:"column:is_staff;default:false"`
	IsSuperuser bool `gorm:"column:is_superuser;default:false"`

	LastLogin *time.Time `gorm:"column:last_login"`
}

func (User) TableName() string {
	return "auth_user"
}

// BeforeSave converts empty email/mobile to NULL
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Email != nil && *u.Email == "" {
		u.Email = nil
	}
	if u.Mobile != nil && *u.Mobile == "" {
		u.Mobile = nil
	}
	return nil
}

// SetPassword hashes and stores the given plain-text password on the struct.
// The caller persists the change.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 10)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// GetUsername prefers email, then mobile, then the raw username for display.
func (u *User) GetUsername() string {
	if u.Email != nil {
		return *u.Email
	}
	if u.Mobile != nil {
		return *u.Mobile
	}
	return u.Username
}

// Name is the user's full name.
func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ShortName is the capitalized first word of the name, falling back to the
// email local part.
func (u *User) ShortName() string {
	if u.FirstName != "" {
		first := strings.Fields(u.FirstName)[0]
		return strings.ToUpper(first[:1]) + strings.ToLower(first[1:])
	}
	if u.Email != nil {
		if at := strings.IndexByte(*u.Email, '@'); at > 0 {
			return (*u.Email)[:at]
		}
	}
	return ""
}

// SplitFullName splits a full name into (first, last) on the first space.
func SplitFullName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// RandomUsername returns a url-safe random username of the given length.
func RandomUsername(length int) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	if length > 0 && length < len(raw) {
		return raw[:length]
	}
	return raw
}

// CreateUser builds and persists a user with a hashed password. When username
// is empty a random one is generated, matching signup where only an email is
// collected.
func CreateUser(db *gorm.DB, email, password, name, username string, usernameLen int, mutate func(*User)) (*User, error) {
	if username == "" {
		username = RandomUsername(usernameLen)
	}
	first, last := SplitFullName(name)

	user := &User{
		Username:  username,
		FirstName: first,
		LastName:  last,
		IsActive:  true,
	}
	if email != "" {
		user.Email = &email
	}
	if err := user.SetPassword(password); err != nil {
		return nil, apperrors.Server("Error in registration, please try again.", err)
	}
	if mutate != nil {
		mutate(user)
	}

	if err := db.Create(user).Error; err != nil {
		return nil, apperrors.Server("Error in registration, please try again.", err)
	}
	return user, nil
}

// DeleteExistingTokens logs the user out of every device.
func (u *User) DeleteExistingTokens(db *gorm.DB) error {
	return DeleteUserTokens(db, u.ID)
}
