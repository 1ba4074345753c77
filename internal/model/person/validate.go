package person

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input is the wire shape accepted on create, update and from the data file.
// Pointer fields let "required" tell a missing field apart from a zero value.
type Input struct {
	Name    *string  `json:"name" validate:"required"`
	Age     *integer `json:"age" validate:"required"`
	Balance *float64 `json:"balance" validate:"required"`
	BBAN    *string  `json:"bban" validate:"required"`
}

// integer accepts any JSON number without a fractional part, so 30 and 30.0
// both decode.
type integer int

func (n *integer) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if v, err := strconv.ParseInt(raw, 10, 0); err == nil {
		*n = integer(v)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeOf(0)}
	}
	*n = integer(f)
	return nil
}

// jsonKind names a raw JSON value the way encoding/json does in its errors.
func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "value"
	}
	switch data[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	default:
		return "number " + string(data)
	}
}

// ValidationError lists the offending fields of a rejected Input, keyed by
// their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid person: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every field is present and converts the input to a
// Person.
func (in Input) Validate() (Person, error) {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Person{}, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describeTag(fe.Tag())
		}
		return Person{}, &ValidationError{Fields: fields}
	}

	return Person{
		Name:    *in.Name,
		Age:     int(*in.Age),
		Balance: *in.Balance,
		BBAN:    *in.BBAN,
	}, nil
}

// Decode reads a single Person object from r and validates it.
func Decode(r io.Reader) (Person, error) {
	var in Input
	if err := decodeJSON(r, &in); err != nil {
		return Person{}, err
	}
	return in.Validate()
}

// decodeJSON decodes exactly one JSON value from r into v. Anything but
// whitespace after that value is malformed input.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return decodeError(err)
	}

	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err == nil:
		return malformed()
	default:
		return decodeError(err)
	}
}

func malformed() error {
	return &ValidationError{Fields: map[string]string{"body": "malformed JSON"}}
}

// decodeError turns encoding/json failures into field-level detail where the
// decoder knows the field. Other errors pass through unchanged.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &ValidationError{Fields: map[string]string{
			field: fmt.Sprintf("must be %s, got %s", typeErr.Type.String(), typeErr.Value),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return malformed()
	}
	return err
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "field required"
	default:
		return "failed " + tag + " check"
	}
}
