package util

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jmespath/go-jmespath"
)

// ExtractMessageText evaluates the given JMESPath expression against a log
// message (decoded as JSON if possible; otherwise wrapped as {"message": raw})
// and returns its string representation. Array results use the first element
// only. Returns (value, true, nil) on success; ("", false, nil) if the
// expression selects nothing; or error.
func ExtractMessageText(message, jmes string) (string, bool, error) {
	var input any
	var decoded any
	if err := json.Unmarshal([]byte(message), &decoded); err == nil {
		input = decoded
	} else {
		input = map[string]any{"message": message}
	}

	res, err := jmespath.Search(jmes, input)
	if err != nil {
		return "", false, fmt.Errorf("jmespath search failed: %w", err)
	}
	if isEmpty(res) {
		return "", false, nil
	}
	// If array/slice, take the first element only
	rv := reflect.ValueOf(res)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if rv.Len() == 0 {
			return "", false, nil
		}
		res = rv.Index(0).Interface()
		if isEmpty(res) {
			return "", false, nil
		}
	}
	switch v := res.(type) {
	case string:
		return v, v != "", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false, fmt.Errorf("marshal result failed: %w", err)
		}
		if len(b) == 0 || string(b) == "null" || string(b) == "[]" || string(b) == "{}" {
			return "", false, nil
		}
		return string(b), true, nil
	}
}

// ValidateExtractPath compiles the expression so an invalid path fails at
// startup rather than on the first scanned event.
func ValidateExtractPath(jmes string) error {
	if _, err := jmespath.Compile(jmes); err != nil {
		return fmt.Errorf("invalid extract path %q: %w", jmes, err)
	}
	return nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
