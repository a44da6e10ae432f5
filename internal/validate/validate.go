// Package validate holds the client-side form rules: checkout, order status
// transitions, add-to-cart, auth, contact and catalog forms. These rules only
// guide the user; the API re-validates everything.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"storefront/internal/model"
	"storefront/internal/orderflow"

	"github.com/go-playground/validator/v10"
)

// Errors is a list of field-level validation failures.
type Errors []model.FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field returns the first message for field.
func (e Errors) Field(field string) (string, bool) {
	for _, fe := range e {
		if fe.Attr == field {
			return fe.Detail, true
		}
	}
	return "", false
}

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their JSON names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return orderflow.Valid(model.OrderStatus(fl.Field().String()))
		})
		_ = v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
			return orderflow.ValidPayment(model.PaymentStatus(fl.Field().String()))
		})
		v.RegisterStructValidation(transitionRules, orderflow.Transition{})

		instance = v
	})
	return instance
}

// transitionRules requires a paid payment status when delivering.
func transitionRules(sl validator.StructLevel) {
	t := sl.Current().Interface().(orderflow.Transition)
	if t.Status != model.OrderStatusDelivered {
		return
	}
	switch t.PaymentStatus {
	case "":
		sl.ReportError(t.PaymentStatus, "payment_status", "PaymentStatus", "payment_required", "")
	case model.PaymentStatusPaid:
	default:
		sl.ReportError(t.PaymentStatus, "payment_status", "PaymentStatus", "paid_before_delivery", "")
	}
}

// messages overrides the generic message of a field/tag pair. Keys are
// "Struct.field.tag" or, for every struct, "field.tag".
var messages = map[string]string{
	"MenuItemInput.name.required":    "Item name is required",
	"MenuItemInput.details.required": "Details are required",
	"MenuItemInput.category_id.gt":   "Category is required",
	"MenuItemInput.status.required":  "Status is required",
	"Category.name.required":         "Category name is required",
	"Category.status.required":       "Status is required",
	"City.name.required":             "City name is required",
	"City.status.required":           "Status is required",
	"PriceInput.price.gt":            "Price must be positive",
	"PriceInput.price.required":      "Price is required",
	"RestaurantUpdate.tax.lte":       "Tax cannot exceed 100%",
	"ContactMessage.message.min":     "Message must be at least 10 characters",
	"Credentials.password.min":       "Password must be at least 6 characters",
	"Registration.password.min":      "Password must be at least 6 characters",

	"status.required":                     "Status is required",
	"status.order_status":                 "Select a valid status",
	"payment_status.payment_status":       "Select a valid payment status",
	"payment_status.payment_required":     "Mark payment as paid before delivering",
	"payment_status.paid_before_delivery": "Payment must be marked as paid before delivery",
	"email.email":                         "Enter a valid email",
	"city_id.required":                    "Please select a city",
	"city_id.gt":                          "Please select a city",
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Namespace()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return "This Field is Required"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "is invalid"
	}
}

// Struct validates s against its validate tags.
func Struct(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, model.FieldError{Attr: fe.Field(), Detail: message(fe)})
	}
	return out
}
