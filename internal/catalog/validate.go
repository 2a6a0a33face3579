package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldQuantity    = "quantity"

	maxNameLen = 255
)

// fieldOrder fixes the order messages are reported in.
var fieldOrder = []string{fieldName, fieldDescription, fieldPrice, fieldQuantity}

// createRules and updateRules hold the range rules applied once every
// field has been coerced to its type. Shape checks happen before.
type createRules struct {
	Name     *string  `json:"name" validate:"required,min=1,max=255"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity *int64   `json:"quantity" validate:"required,gte=0"`
}

type updateRules struct {
	Name     *string  `json:"name" validate:"omitnil,min=1,max=255"`
	Price    *float64 `json:"price" validate:"omitnil,gte=0"`
	Quantity *int64   `json:"quantity" validate:"omitnil,gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCreate checks a full product payload. name, price and quantity
// are required; description may be absent or null.
func ValidateCreate(in map[string]any) (Fields, error) {
	return validateFields(in, true)
}

// ValidateUpdate checks a partial payload. Every field is optional but a
// field that is present must be valid.
func ValidateUpdate(in map[string]any) (Fields, error) {
	return validateFields(in, false)
}

func validateFields(in map[string]any, create bool) (Fields, error) {
	var (
		f    Fields
		verr = &ValidationError{}
	)

	if v, ok := in[fieldName]; ok {
		switch s, isStr := v.(string); {
		case isStr:
			s = strings.TrimSpace(s)
			f.Name = &s
		case v == nil && create:
			// left to the required rule
		default:
			verr.add(fieldName, msgString(fieldName))
		}
	}

	if v, ok := in[fieldDescription]; ok {
		switch s, isStr := v.(string); {
		case v == nil:
			f.HasDescription = true
		case isStr:
			f.HasDescription = true
			if s = strings.TrimSpace(s); s != "" {
				f.Description = &s
			}
		default:
			verr.add(fieldDescription, msgString(fieldDescription))
		}
	}

	if v, ok := in[fieldPrice]; ok && !(v == nil && create) {
		if n, ok := asNumber(v); ok {
			f.Price = &n
		} else {
			verr.add(fieldPrice, fmt.Sprintf("The %s field must be a number.", fieldPrice))
		}
	}

	if v, ok := in[fieldQuantity]; ok && !(v == nil && create) {
		if n, ok := asInteger(v); ok {
			f.Quantity = &n
		} else {
			verr.add(fieldQuantity, fmt.Sprintf("The %s field must be an integer.", fieldQuantity))
		}
	}

	var rules any
	if create {
		rules = createRules{Name: f.Name, Price: f.Price, Quantity: f.Quantity}
	} else {
		rules = updateRules{Name: f.Name, Price: f.Price, Quantity: f.Quantity}
	}

	if err := validate.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Fields{}, err
		}
		for _, fe := range fieldErrs {
			// a type error already explains this field
			if verr.has(fe.Field()) {
				continue
			}
			verr.add(fe.Field(), ruleMessage(fe))
		}
	}

	if !verr.empty() {
		return Fields{}, verr
	}
	return f, nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s field must not be empty.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be at least %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

func msgString(field string) string {
	return fmt.Sprintf("The %s field must be a string.", field)
}

// asNumber accepts JSON numbers and numeric strings. Booleans and
// non-finite values are rejected.
func asNumber(v any) (float64, bool) {
	var (
		f   float64
		err error
	)

	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, false
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asInteger accepts whole numbers, including 3.0 and integer strings.
func asInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}

	f, ok := asNumber(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
