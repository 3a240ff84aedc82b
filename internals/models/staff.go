package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
)

// Staff is the one-to-one staff profile of a User. Activity and privilege
// flags live on the user; Staff only carries the employee-facing fields.
type Staff struct {
	gorm.Model
	UserID uint `gorm:"column:user_id;uniqueIndex"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`

	EmpID      string  `gorm:"column:emp_id;size:16;uniqueIndex"`
	Mobile     *string `gorm:"column:mobile;size:12;uniqueIndex"`
	Address    string  `gorm:"column:address"`
	PublicName *string `gorm:"column:public_name;size:100"`
}

func (Staff) TableName() string {
	return "staff"
}

func (s *Staff) IsActive() bool    { return s.User.IsActive }
func (s *Staff) IsSuperuser() bool { return s.User.IsSuperuser }

func (s *Staff) Email() string {
	if s.User.Email != nil {
		return *s.User.Email
	}
	return ""
}

func (s *Staff) Name() string {
	return s.User.Name()
}

// BeforeSave rejects staff rows for non-staff users.
func (s *Staff) BeforeSave(tx *gorm.DB) error {
	user := s.User
	if user.ID == 0 && s.UserID != 0 {
		if err := tx.First(&user, s.UserID).Error; err != nil {
			return err
		}
	}
	if !user.IsStaff {
		return apperrors.Server("Creating Staff for is_staff=false?", nil)
	}
	return nil
}

// NextEmpID builds the next employee id in YYMM-NNN form.
func NextEmpID(db *gorm.DB) string {
	nextID := uint(1)
	var last Staff
	if err := db.Order("id desc").First(&last).Error; err == nil {
		nextID = last.ID + 1
	}
	return time.Now().Format("0601-") + fmt.Sprintf("%03d", nextID)
}

// CreateStaff creates the user and its staff profile in one transaction. The
// username comes from the email local part, and when name is blank it is
// guessed from the same local part assuming a firstname+initial convention.
func CreateStaff(db *gorm.DB, email, password, name string, usernameLen int) (*Staff, error) {
	username := ""
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	if name == "" && len(username) > 1 {
		first := username[:len(username)-1]
		name = strings.ToUpper(first[:1]) + first[1:] + " " + strings.ToUpper(username[len(username)-1:])
	}

	var staff *Staff
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := CreateUser(tx, email, password, name, username, usernameLen, func(u *User) {
			u.IsStaff = true
		})
		if err != nil {
			return err
		}

		staff = &Staff{UserID: user.ID, User: *user, EmpID: NextEmpID(tx)}
		return tx.Create(staff).Error
	})
	if err != nil {
		if appErr, ok := err.(*apperrors.Error); ok {
			return nil, appErr
		}
		return nil, apperrors.Server("Error in registration, please try again.", err)
	}
	return staff, nil
}

// ListStaff returns staff profiles with their user rows, newest first.
func ListStaff(db *gorm.DB, limit, offset int) ([]Staff, error) {
	query := db.Preload("User").Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []Staff
	err := query.Find(&rows).Error
	return rows, err
}

// ResolveStaff returns the staff profile of the given user, or nil when the
// user has none. Both the gin-context helper and the admin views funnel
// through here so there is exactly one lookup path.
func ResolveStaff(db *gorm.DB, user *User) (*Staff, error) {
	if user == nil || !user.IsStaff {
		return nil, nil
	}
	var staff Staff
	err := db.Preload("User").Where("user_id = ?", user.ID).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Server("Something went wrong. Please try after sometime.", err)
	}
	return &staff, nil
}
