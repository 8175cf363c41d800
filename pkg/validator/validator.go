package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"anoa.com/kulupportal/pkg/apperror"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Struct runs the same `binding` tags gin uses, so services called
// outside of an HTTP request get identical checks.
func Struct(s interface{}) error {
	once.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
	})
	return validate.Struct(s)
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

// AsAppError converts a binding or validation failure into a validation
// AppError carrying the first failing field as its reason.
func AsAppError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return apperror.Validation(Reason(err), FormatValidationError(err))
	}
	return apperror.Validation("invalid_request", err.Error())
}

// Reason turns the first failing field into a machine readable reason such
// as "memberStart_required" or "linkedinUrl_invalid".
func Reason(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid_input"
	}
	fe := validationErrors[0]
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	field = strings.ReplaceAll(field, "URL", "Url")
	field = strings.ReplaceAll(field, "ID", "Id")
	if fe.Tag() == "required" {
		return field + "_required"
	}
	return field + "_invalid"
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s zorunludur", field)
	case "email":
		return fmt.Sprintf("%s geçerli bir e-posta olmalıdır", field)
	case "url":
		return fmt.Sprintf("%s geçerli bir bağlantı olmalıdır", field)
	case "uuid":
		return fmt.Sprintf("%s geçerli bir kimlik olmalıdır", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s en az %s karakter olmalıdır", field, fe.Param())
		}
		return fmt.Sprintf("%s en az %s olmalıdır", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s en fazla %s karakter olmalıdır", field, fe.Param())
		}
		return fmt.Sprintf("%s en fazla %s olmalıdır", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s şunlardan biri olmalıdır: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s geçersiz", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"FirstName":   "Ad",
		"LastName":    "Soyad",
		"Email":       "E-posta",
		"Phone":       "Telefon",
		"Title":       "Ünvan",
		"MemberStart": "Başlangıç yılı",
		"MemberEnd":   "Bitiş yılı",
		"LinkedinURL": "LinkedIn",
		"Name":        "Proje adı",
		"Description": "Açıklama",
		"LeadID":      "Ekip lideri",
		"Year":        "Yıl",
		"ImageURL":    "Görsel",
		"Password":    "Şifre",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
