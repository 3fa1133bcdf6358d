package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateInput is the body of a create request.
type CreateInput struct {
	Title   string `json:"title" validate:"min=3"`
	Content string `json:"content" validate:"min=5"`
	Author  string `json:"author" validate:"min=5"`
}

// messages keeps the wording existing clients already parse.
var messages = map[string]string{
	"title":   "Enter a valid title",
	"content": "Content must be atleast 5 characters",
	"author":  "Description must be atleast 5 characters",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Service) validateCreate(in CreateInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		value, _ := fe.Value().(string)
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Value: value, Msg: msg})
	}
	return out
}
