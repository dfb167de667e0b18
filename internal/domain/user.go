package domain

// User is a profile as returned by the user service. BirthDate is filled by
// lookups that reformat DateOfBirth for display.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth Date   `json:"dateOfBirth"`
	Active      bool   `json:"active"`
	Roles       []Role `json:"roles"`

	BirthDate string `json:"-"`
}

// CreateUser is the payload of POST /api/users/register.
type CreateUser struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	DateOfBirth []int  `json:"dateOfBirth"`
	PhoneNumber string `json:"phoneNumber"`
	Roles       []Role `json:"roles"`
}

// UpdateUser carries optional profile fields. A nil field is left unchanged.
type UpdateUser struct {
	FullName    *string `json:"fullName,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	DateOfBirth []int   `json:"dateOfBirth,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (u UpdateUser) Empty() bool {
	return u.FullName == nil && u.Email == nil && u.PhoneNumber == nil && u.DateOfBirth == nil && u.Password == nil
}
