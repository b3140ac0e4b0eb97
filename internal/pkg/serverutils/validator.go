package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// fieldLabels names request fields the way users see them on the forms.
var fieldLabels = map[string]string{
	"identifier":     "Identifier",
	"password":       "Password",
	"oldPassword":    "Password lama",
	"newPassword":    "Password baru",
	"name":           "Nama",
	"prodi":          "Prodi",
	"angkatan":       "Angkatan",
	"title":          "Judul",
	"jenis":          "Jenis",
	"nominal":        "Nominal",
	"deadline":       "Deadline",
	"prodiTarget":    "Prodi target",
	"angkatanTarget": "Angkatan target",
	"page":           "Halaman",
	"limit":          "Limit",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("deadline", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseDeadline(strings.TrimSpace(fl.Field().String()), time.UTC)
		return err == nil
	})
	return v
}

// ValidateRequest runs struct tags on req and returns the first violation as a
// VALIDATION_FAILED error with an Indonesian message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation("Data tidak valid")
	}
	return apperror.Validation(translate(verrs[0]))
}

func translate(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s wajib diisi", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s minimal %s karakter", label, fe.Param())
		}
		return fmt.Sprintf("%s minimal %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s maksimal %s karakter", label, fe.Param())
		}
		return fmt.Sprintf("%s maksimal %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s harus lebih dari %s", label, fe.Param())
	case "deadline":
		return "Format deadline tidak valid"
	default:
		return fmt.Sprintf("%s tidak valid", label)
	}
}
