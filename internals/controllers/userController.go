package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/config"
	"github.com/chandanojha35419/currency-exchange-api/internals/middleware"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

type UserController struct {
	DB       *gorm.DB
	Settings *config.Settings
}

func NewUserController(db *gorm.DB, settings *config.Settings) *UserController {
	return &UserController{DB: db, Settings: settings}
}

// profileFields is the own-profile shape; staff accounts additionally see
// their privilege flags.
func profileFields(user *models.User) gin.H {
	fields := gin.H{
		"email":      user.Email,
		"name":       user.Name(),
		"last_login": user.LastLogin,
	}
	if user.IsStaff {
		fields["is_staff"] = user.IsStaff
		fields["is_superuser"] = user.IsSuperuser
	}
	return fields
}

// MyUser returns the authenticated user's own profile.
func (u *UserController) MyUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	fields := profileFields(user)

	if user.IsStaff {
		if staff, err := middleware.CurrentStaff(c, u.DB); err == nil && staff != nil {
			fields["emp_id"] = staff.EmpID
		}
	}

	c.JSON(http.StatusOK, fields)
}

// UpdateMyUser patches the authenticated user's email and/or name.
func (u *UserController) UpdateMyUser(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"omitempty,email,max=254"`
		Name  string `json:"name" binding:"max=100"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid email id or name."))
		return
	}

	user := middleware.CurrentUser(c)
	updates := map[string]interface{}{}

	if body.Email != "" && (user.Email == nil || body.Email != *user.Email) {
		var count int64
		if err := u.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
			apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
			return
		}
		if count > 0 {
			apperrors.Respond(c, apperrors.Validation("User with given email already exists: "+body.Email).
				WithReason(apperrors.ReasonAlreadyExists))
			return
		}
		updates["email"] = body.Email
		user.Email = &body.Email
	}
	if body.Name != "" {
		first, last := models.SplitFullName(body.Name)
		updates["first_name"] = first
		updates["last_name"] = last
		user.FirstName, user.LastName = first, last
	}

	if len(updates) > 0 {
		if err := u.DB.Model(user).Updates(updates).Error; err != nil {
			apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
			return
		}
	}

	c.JSON(http.StatusOK, profileFields(user))
}

// userListEntry is the admin-facing user shape.
func userListEntry(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"mobile":       user.Mobile,
		"name":         user.Name(),
		"is_active":    user.IsActive,
		"is_staff":     user.IsStaff,
		"is_superuser": user.IsSuperuser,
		"last_login":   user.LastLogin,
		"date_joined":  user.CreatedAt,
	}
}

// ListUsers lists accounts newest first, for staff.
func (u *UserController) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var users []models.User
	err := u.DB.Order("id desc").Limit(limit).Offset(offset).Find(&users).Error
	if err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	entries := make([]gin.H, 0, len(users))
	for i := range users {
		entries = append(entries, userListEntry(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "results": entries})
}

// staffListEntry is the admin-facing staff-profile shape.
func staffListEntry(staff *models.Staff) gin.H {
	return gin.H{
		"id":           staff.ID,
		"emp_id":       staff.EmpID,
		"email":        staff.Email(),
		"name":         staff.Name(),
		"mobile":       staff.Mobile,
		"public_name":  staff.PublicName,
		"is_active":    staff.IsActive(),
		"is_superuser": staff.IsSuperuser(),
	}
}

// ListStaff lists staff profiles newest first, for staff.
func (u *UserController) ListStaff(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := models.ListStaff(u.DB, limit, offset)
	if err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	entries := make([]gin.H, 0, len(rows))
	for i := range rows {
		entries = append(entries, staffListEntry(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "results": entries})
}

// CreateUser lets staff create accounts; creating another staff account takes
// a superuser.
func (u *UserController) CreateUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email,min=8,max=254"`
		Name     string `json:"name" binding:"max=100"`
		Password string `json:"password" binding:"required,min=8,max=40"`
		IsStaff  bool   `json:"is_staff"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Need a valid email id and a password of at least 8 characters."))
		return
	}

	actor := middleware.CurrentUser(c)
	if body.IsStaff && !actor.IsSuperuser {
		apperrors.Respond(c, apperrors.Forbidden("Only admin can create new staff.").
			WithReason(apperrors.ReasonStaffAdminOnly))
		return
	}

	var count int64
	if err := u.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
		apperrors.Respond(c, apperrors.Server("Error in registration, please try again.", err))
		return
	}
	if count > 0 {
		apperrors.Respond(c, apperrors.Validation("User with given email already exists: "+body.Email).
			WithReason(apperrors.ReasonAlreadyExists))
		return
	}

	var user *models.User
	var err error
	if body.IsStaff {
		var staff *models.Staff
		staff, err = models.CreateStaff(u.DB, body.Email, body.Password, body.Name, u.Settings.UsernameLength)
		if err == nil {
			user = &staff.User
		}
	} else {
		user, err = models.CreateUser(u.DB, body.Email, body.Password, body.Name, "", u.Settings.UsernameLength, nil)
	}
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, userListEntry(user))
}

// AdminResetPassword force-sets another user's password. Resetting a
// superuser other than yourself is forbidden.
func (u *UserController) AdminResetPassword(c *gin.Context) {
	var body struct {
		Password string `json:"password" binding:"omitempty,min=8,max=40"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Need a valid password of at least 8 characters."))
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("The resource you requested was not found."))
		return
	}

	var target models.User
	if err := u.DB.First(&target, id).Error; err != nil {
		apperrors.Respond(c, apperrors.NotFound("The resource you requested was not found."))
		return
	}

	actor := middleware.CurrentUser(c)
	if target.IsSuperuser && target.ID != actor.ID {
		apperrors.Respond(c, apperrors.Forbidden("Resetting password of other admin or super-user is forbidden."))
		return
	}

	password := body.Password
	if password == "" {
		password = config.GetEnvAsStr("STAFF_DEFAULT_PASSWORD", "changeme-"+models.GenerateOTP(6))
	}
	if err := target.SetPassword(password); err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	err = u.DB.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(&target).Update("password", target.Password).Error; txErr != nil {
			return txErr
		}
		return models.DeleteUserTokens(tx, target.ID)
	})
	if err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	apperrors.Success(c, http.StatusOK, "password-reset successful")
}
