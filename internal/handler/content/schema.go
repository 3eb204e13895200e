package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/w-h-a/validated-content/internal/service/content"
)

// body is a request schema. check reports what the decoder lets through: an
// explicit null for a field that has a default or is required, and null list
// elements.
type body interface {
	check(raw map[string]json.RawMessage) []content.FieldError
}

type searchBody struct {
	Query         *string   `json:"query" validate:"required"`
	Topics        []*string `json:"topics"`
	Source        *string  `json:"source"`
	ValidatedOnly *bool    `json:"validated_only"`
	Limit         *int     `json:"limit"`
}

func (b searchBody) request() content.SearchRequest {
	req := content.SearchRequest{
		Query:         *b.Query,
		Topics:        strs(b.Topics),
		ValidatedOnly: true,
		Limit:         content.DefaultLimit,
	}
	if b.Source != nil {
		req.Source = *b.Source
	}
	if b.ValidatedOnly != nil {
		req.ValidatedOnly = *b.ValidatedOnly
	}
	if b.Limit != nil {
		req.Limit = *b.Limit
	}
	return req
}

func (b searchBody) check(raw map[string]json.RawMessage) []content.FieldError {
	errs := nullErrors(raw,
		typed{"query", "string"},
		typed{"validated_only", "bool"},
		typed{"limit", "int"},
	)
	return append(errs, nullElements("topics", b.Topics)...)
}

type addBody struct {
	Title     *string   `json:"title" validate:"required"`
	Excerpt   *string   `json:"excerpt"`
	FullText  *string   `json:"full_text"`
	Topics    []*string `json:"topics" validate:"required"`
	Source    *string   `json:"source"`
	Url       *string   `json:"url"`
	Validated *bool     `json:"validated"`
}

func (b addBody) check(raw map[string]json.RawMessage) []content.FieldError {
	errs := nullErrors(raw,
		typed{"title", "string"},
		typed{"topics", "list"},
		typed{"validated", "bool"},
	)
	return append(errs, nullElements("topics", b.Topics)...)
}

func (b addBody) request() content.AddRequest {
	req := content.AddRequest{
		Title:     *b.Title,
		Excerpt:   b.Excerpt,
		FullText:  b.FullText,
		Topics:    strs(b.Topics),
		Source:    b.Source,
		Url:       b.Url,
		Validated: true,
	}
	if b.Validated != nil {
		req.Validated = *b.Validated
	}
	return req
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and checks it against its validate tags
// and its null rules. Every failure is a ValidationFailed error carrying
// per-field detail.
func decode(r *http.Request, v *validator.Validate, dst body) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return invalid(err, []content.FieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}})
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return invalid(io.EOF, []content.FieldError{decodeFieldError(io.EOF)})
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return invalid(err, []content.FieldError{decodeFieldError(err)})
	}

	// an object decoded above, so this only fails for a top-level null
	var raw map[string]json.RawMessage
	_ = json.Unmarshal(data, &raw)

	fields := dst.check(raw)

	reported := make(map[string]bool, len(fields))
	for _, fe := range fields {
		reported[fe.Loc[1]] = true
	}

	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return invalid(err, fields)
		}

		for _, fe := range verrs {
			if reported[fe.Field()] {
				continue
			}
			fields = append(fields, content.FieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  "Field required",
				Type: "missing",
			})
		}
	}

	if len(fields) > 0 {
		return invalid(errors.New("invalid request body"), fields)
	}

	return nil
}

func invalid(err error, fields []content.FieldError) error {
	return &content.Error{
		Kind:   content.KindValidationFailed,
		Err:    err,
		Fields: fields,
	}
}

// typed names a body field and the type it must hold when present.
type typed struct {
	key string
	typ string
}

func nullErrors(raw map[string]json.RawMessage, fields ...typed) []content.FieldError {
	var errs []content.FieldError
	for _, f := range fields {
		val, ok := raw[f.key]
		if ok && bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
			errs = append(errs, typeError([]string{"body", f.key}, f.typ))
		}
	}
	return errs
}

func nullElements(key string, items []*string) []content.FieldError {
	var errs []content.FieldError
	for i, item := range items {
		if item == nil {
			errs = append(errs, typeError([]string{"body", key, strconv.Itoa(i)}, "string"))
		}
	}
	return errs
}

var typeNames = map[string]string{
	"string": "a valid string",
	"int":    "a valid integer",
	"float":  "a valid number",
	"bool":   "a valid boolean",
	"list":   "a valid list",
	"dict":   "a valid dictionary",
}

func typeError(loc []string, typ string) content.FieldError {
	return content.FieldError{
		Loc:  loc,
		Msg:  "Input should be " + typeNames[typ],
		Type: typ + "_type",
	}
}

func kindType(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice, reflect.Array:
		return "list"
	default:
		return "dict"
	}
}

func decodeFieldError(err error) content.FieldError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.Is(err, io.EOF):
		return content.FieldError{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}
	case errors.As(err, &typeErr):
		loc := []string{"body"}
		if len(typeErr.Field) > 0 {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return typeError(loc, kindType(typeErr.Type.Kind()))
	case errors.As(err, &syntaxErr):
		return content.FieldError{
			Loc:  []string{"body", fmt.Sprintf("%d", syntaxErr.Offset)},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}
	default:
		return content.FieldError{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}
	}
}

func strs(items []*string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out
}
