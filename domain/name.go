package domain

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"tchat/errors"
)

var validate = validator.New()

type nameProposal struct {
	Name string `validate:"required,min=1,max=32"`
}

// ValidateName applies the display name policy: non-empty after trimming,
// at most 32 runes, no internal whitespace. Uniqueness is the registry's
// concern, not the name's.
func ValidateName(name string) error {
	if err := validate.Struct(nameProposal{Name: name}); err != nil {
		return errors.ErrNameInvalid
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return errors.ErrNameInvalid
	}
	return nil
}
