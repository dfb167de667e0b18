package user

import (
	"regexp"
	"strings"
	"time"

	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^\d{8,15}$`)
	nonDigitRe = regexp.MustCompile(`[^0-9]`)
)

const minPasswordLen = 6

// Registration is the sign-up form as entered.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	DateOfBirth     string // 2006-01-02
	PhoneNumber     string
	Role            domain.Role
}

// Validate runs the form checks in order and returns the register payload.
// The first failing check wins.
func (r Registration) Validate() (domain.CreateUser, error) {
	if r.Password != r.ConfirmPassword {
		return domain.CreateUser{}, apperr.Invalid("confirmPassword", "Passwords do not match")
	}
	if len(r.Password) < minPasswordLen {
		return domain.CreateUser{}, apperr.Invalid("password", "Password must be at least 6 characters long")
	}
	if !emailRe.MatchString(r.Email) {
		return domain.CreateUser{}, apperr.Invalid("email", "Please enter a valid email address")
	}
	if !phoneRe.MatchString(nonDigitRe.ReplaceAllString(r.PhoneNumber, "")) {
		return domain.CreateUser{}, apperr.Invalid("phoneNumber", "Please enter a valid phone number")
	}
	if strings.TrimSpace(r.Username) == "" {
		return domain.CreateUser{}, apperr.Invalid("username", "Username is required")
	}
	role := r.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer && role != domain.RoleCourier {
		return domain.CreateUser{}, apperr.Invalid("role", "Please choose a valid role")
	}
	dob, err := time.Parse(time.DateOnly, strings.TrimSpace(r.DateOfBirth))
	if err != nil {
		return domain.CreateUser{}, apperr.Invalid("dateOfBirth", "Please enter a valid date of birth")
	}

	return domain.CreateUser{
		Username:    strings.TrimSpace(r.Username),
		Email:       r.Email,
		Password:    r.Password,
		FullName:    r.FullName,
		DateOfBirth: []int{dob.Year(), int(dob.Month()), dob.Day()},
		PhoneNumber: r.PhoneNumber,
		Roles:       []domain.Role{role},
	}, nil
}
