package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/restaurant-biller/services"
)

// bindingError turns a gin binding failure into a ValidationError. messages
// is keyed by struct field, or by "Field.tag" when one field has several
// rules worth telling apart; anything unmatched gets fallback.
func bindingError(err error, messages map[string]string, fallback string) *services.ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return &services.ValidationError{Message: msg}
		}
		if msg, ok := messages[fe.Field()]; ok {
			return &services.ValidationError{Message: msg}
		}
	}
	return &services.ValidationError{Message: fallback}
}
