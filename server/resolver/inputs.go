package resolver

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// linkInput is the user supplied content of a link.
type linkInput struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

func (i *linkInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Description, validation.Required),
		validation.Field(&i.URL, validation.Required, is.URL),
	)
}

// signupInput is the user supplied content of a new account.
type signupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (i *signupInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Name, validation.Required),
		validation.Field(&i.Email, validation.Required, is.EmailFormat),
		validation.Field(&i.Password, validation.Required, validation.By(passwordFitsBcrypt)),
	)
}

// bcrypt refuses to hash passwords longer than 72 bytes.
const maxPasswordBytes = 72

func passwordFitsBcrypt(value interface{}) error {
	password, _ := value.(string)
	if len(password) > maxPasswordBytes {
		return validation.NewError(
			"validation_password_too_long",
			fmt.Sprintf("must be no more than %d bytes", maxPasswordBytes),
		)
	}
	return nil
}
