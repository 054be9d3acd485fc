// Package validation normalises untrusted form input into typed records.
// Malformed input is an ordinary result (a FieldErrors map), never a Go error.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

// Fields holds raw submitted values keyed by form field name.
type Fields map[string]string

func (f Fields) Get(key string) string {
	if f == nil {
		return ""
	}
	return f[key]
}

// FieldErrors maps a form field name to its messages, in rule order.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Empty() bool { return len(e) == 0 }

// Registration is a validated sign-up form. The confirmation is dropped
// once it has been checked.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Invoice is a validated create/update form with the amount already in cents.
type Invoice struct {
	CustomerID  string
	AmountCents int64
	Status      domain.InvoiceStatus
}

type registrationForm struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6,password_bytes"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

type invoiceForm struct {
	CustomerID string `form:"customerId" validate:"required"`
	Amount     string `form:"amount" validate:"amount_positive"`
	Status     string `form:"status" validate:"required,oneof=pending paid"`
}

type credentialsForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6,password_bytes"`
}

// messages overrides the translator for the user-facing copy of the forms.
var messages = map[string]string{
	"name.required":            "Name is required.",
	"email.required":           "Email is required.",
	"email.email":              "Please enter a valid email address.",
	"password.required":        "Password is required.",
	"password.min":             "Password must be at least 6 characters.",
	"password.password_bytes":  "Password must be at most 72 bytes.",
	"confirmPassword.required": "Please confirm your password.",
	"confirmPassword.eqfield":  "Passwords do not match.",
	"customerId.required":      "Please select a customer.",
	"amount.amount_positive":   "Please enter an amount greater than $0.",
	"status.required":          "Please select an invoice status.",
	"status.oneof":             "Please select an invoice status.",
}

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their form name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("amount_positive", func(fl validator.FieldLevel) bool {
		_, ok := ToCents(fl.Field().String())
		return ok
	})

	// bcrypt only reads the first 72 bytes; max= would count runes
	_ = v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &Validator{v: v, trans: trans}
}

// Registration checks a sign-up form. The name and email are trimmed; the
// passwords are taken verbatim.
func (val *Validator) Registration(f Fields) (Registration, FieldErrors) {
	form := registrationForm{
		Name:            strings.TrimSpace(f.Get("name")),
		Email:           strings.TrimSpace(f.Get("email")),
		Password:        f.Get("password"),
		ConfirmPassword: f.Get("confirmPassword"),
	}

	if errs := val.check(&form); !errs.Empty() {
		return Registration{}, errs
	}
	return Registration{Name: form.Name, Email: form.Email, Password: form.Password}, nil
}

// Invoice checks a create/update form and converts the amount to cents.
// This is the only place an amount is converted.
func (val *Validator) Invoice(f Fields) (Invoice, FieldErrors) {
	form := invoiceForm{
		CustomerID: strings.TrimSpace(f.Get("customerId")),
		Amount:     f.Get("amount"),
		Status:     f.Get("status"),
	}

	if errs := val.check(&form); !errs.Empty() {
		return Invoice{}, errs
	}

	cents, _ := ToCents(form.Amount)
	return Invoice{
		CustomerID:  form.CustomerID,
		AmountCents: cents,
		Status:      domain.InvoiceStatus(form.Status),
	}, nil
}

// Credentials reports whether a sign-in form is well formed. Sign-in never
// exposes per-field errors.
func (val *Validator) Credentials(f Fields) (email, password string, ok bool) {
	form := credentialsForm{
		Email:    strings.TrimSpace(f.Get("email")),
		Password: f.Get("password"),
	}
	if errs := val.check(&form); !errs.Empty() {
		return "", "", false
	}
	return form.Email, form.Password, true
}

// Email reports whether s is a syntactically valid address.
func (val *Validator) Email(s string) bool {
	return val.v.Var(strings.TrimSpace(s), "required,email") == nil
}

func (val *Validator) check(form any) FieldErrors {
	errs := FieldErrors{}

	err := val.v.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("_form", "Invalid form.")
		return errs
	}

	for _, fe := range verrs {
		errs.Add(fe.Field(), val.message(fe))
	}
	return errs
}

func (val *Validator) message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Translate(val.trans)
}
