package auth

import (
	"errors"
	"net/mail"

	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

// ErrNotApplicable is returned by a resolver that does not handle the shape of
// the given identifier, telling FindUser to try the next one in order.
var ErrNotApplicable = errors.New("resolver not applicable")

// CredentialResolver maps one shape of login identifier to a user. Resolvers
// are tried in a fixed order; each either resolves, misses, or declares itself
// not applicable.
type CredentialResolver interface {
	Resolve(db *gorm.DB, identifier string) (*models.User, error)
}

// EmailResolver handles identifiers that parse as an email address. The
// validation is structural only; existence is decided by the lookup.
type EmailResolver struct{}

func (EmailResolver) Resolve(db *gorm.DB, identifier string) (*models.User, error) {
	if !IsEmail(identifier) {
		return nil, ErrNotApplicable
	}
	var user models.User
	if err := db.Where("email = ?", identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameResolver handles anything as a native username, so it terminates the
// default resolver chain.
type UsernameResolver struct{}

func (UsernameResolver) Resolve(db *gorm.DB, identifier string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// MobileResolver handles identifiers that normalize to a phone number. It is
// not part of the default chain; the OTP flows use it when classifying a
// username as a mobile.
type MobileResolver struct{}

func (MobileResolver) Resolve(db *gorm.DB, identifier string) (*models.User, error) {
	mobile, ok := NormalizeMobile(identifier)
	if !ok {
		return nil, ErrNotApplicable
	}
	var user models.User
	if err := db.Where("mobile = ?", mobile).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// defaultResolvers mirrors the login lookup order: email shape first, then the
// native username field.
var defaultResolvers = []CredentialResolver{EmailResolver{}, UsernameResolver{}}

// FindUser resolves identifier through the default resolver chain. It returns
// nil without error when no chain member found a user; existence is never
// leaked past this layer.
func FindUser(db *gorm.DB, identifier string) (*models.User, error) {
	for _, resolver := range defaultResolvers {
		user, err := resolver.Resolve(db, identifier)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, ErrNotApplicable) || errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		return nil, err
	}
	return nil, nil
}

// IsEmail reports whether s is structurally a bare email address.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
