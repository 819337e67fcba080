package paper

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/daftari/core"
)

var (
	paperTypeTag  = "papertype"
	paperTypeText = "paper type must be one of: activity, quiz, exam"
)

func init() {
	_ = core.Validate.RegisterValidation(paperTypeTag, paperTypeValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, paperTypeTag, paperTypeText)
}

func paperTypeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, t := range Types {
		if val == t {
			return true
		}
	}
	return false
}
