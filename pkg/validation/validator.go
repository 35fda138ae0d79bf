package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// InvalidJSON is reported for bodies that cannot be decoded at all.
const InvalidJSON = "invalid JSON payload"

// Init configures the global validator used by Gin's binding.
//   - Uses JSON tag names in errors.
//   - Rejects properties the request type does not declare.
func Init() {
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// MessageTable maps "<json field>.<tag>" to the message shown to clients.
// The pseudo tag "string" is used when the field has the wrong JSON type.
type MessageTable map[string]string

// BindJSON decodes and validates the request body into obj. An empty body is
// validated as an empty object so required fields are reported individually.
func BindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(obj)
	}
	return err
}

// Messages converts a binding error into client messages, one per violated
// field in declaration order.
func Messages(err error, table MessageTable) []string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, lookup(table, fe.Field(), fe.Tag()))
		}
		return out
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return []string{lookup(table, ute.Field, "string")}
	}

	if field, ok := unknownField(err); ok {
		return []string{"property " + field + " should not exist"}
	}

	return []string{InvalidJSON}
}

func lookup(table MessageTable, field, tag string) string {
	if msg, ok := table[field+"."+tag]; ok {
		return msg
	}
	if tag == "string" {
		return field + " must be a string"
	}
	return field + " is invalid"
}

// unknownField extracts the name from encoding/json's `json: unknown field "x"`.
func unknownField(err error) (string, bool) {
	const prefix = `json: unknown field "`
	msg := err.Error()
	i := strings.Index(msg, prefix)
	if i < 0 {
		return "", false
	}
	rest := msg[i+len(prefix):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}
