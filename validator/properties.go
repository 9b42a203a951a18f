package validator

import (
	"fmt"
	"reflect"
	"strings"
)

// ListSeparator joins the elements of list-valued properties.
const ListSeparator = ","

// ToStrings converts property defaults to their string form.
// Slices and arrays are joined with ListSeparator, scalars use their natural
// string representation: {"keywords": ["a","b"]} becomes {"keywords": "a,b"}.
func ToStrings(props map[string]any) map[string]string {
	result := make(map[string]string, len(props))
	for k, v := range props {
		result[k] = stringify(v)
	}
	return result
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ListSeparator)
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ListSeparator)
	}
	return fmt.Sprint(v)
}

// splitList parses a list-valued override, dropping empty elements.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ListSeparator)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
