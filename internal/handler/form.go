package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nafis/blog-platform/internal/apperror"
)

// validate is the shared validator instance. It is stateless and safe for
// concurrent use, so one package-level instance is the idiom.
var validate = validator.New(validator.WithRequiredStructEnabled())

// FORM STRUCTS:
// Each POST endpoint decodes the submitted form into one of these and runs
// it through the validator. The `form` tag names the HTML input, the
// `validate` tag carries the rules. Validation failures become
// apperror.ErrValidation values, which handlers flash over the re-rendered
// form — never an error page.

type RegisterForm struct {
	Name     string `form:"name"     validate:"required,max=100"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,min=8,max=72"`
}

type LoginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Remember bool   `form:"remember"`
}

type PostForm struct {
	Title    string `form:"title"    validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"max=250"`
	ImgURL   string `form:"img_url"  validate:"omitempty,url,max=250"`
	Body     string `form:"body"     validate:"required"`
}

type CommentForm struct {
	Text string `form:"comment" validate:"required,max=5000"`
}

type ContactForm struct {
	Email   string `form:"email"   validate:"required,email"`
	Message string `form:"message" validate:"required,max=10000"`
}

func registerFormFromRequest(r *http.Request) RegisterForm {
	return RegisterForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

func loginFormFromRequest(r *http.Request) LoginForm {
	return LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Remember: r.PostFormValue("remember") != "",
	}
}

func postFormFromRequest(r *http.Request) PostForm {
	return PostForm{
		Title:    strings.TrimSpace(r.PostFormValue("title")),
		Subtitle: strings.TrimSpace(r.PostFormValue("subtitle")),
		ImgURL:   strings.TrimSpace(r.PostFormValue("img_url")),
		Body:     r.PostFormValue("body"),
	}
}

func commentFormFromRequest(r *http.Request) CommentForm {
	return CommentForm{Text: strings.TrimSpace(r.PostFormValue("comment"))}
}

func contactFormFromRequest(r *http.Request) ContactForm {
	return ContactForm{
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}
}

// checkForm validates a form struct and converts the FIRST violation into a
// user-readable apperror. One message at a time is plenty for a form with
// four fields.
func checkForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		// InvalidValidationError — a programming error, not user input
		return fmt.Errorf("handler: validating form: %w", err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "email":
		msg = "please enter a valid email address"
	case "url":
		msg = "please enter a valid URL"
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be %s characters or less", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return apperror.ValidationFailed(field, msg)
}
