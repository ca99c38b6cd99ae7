package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// DeterministicEncode produces byte-identical compact JSON for identical input.
func DeterministicEncode(v interface{}) ([]byte, error) {
	return encode(v, "")
}

// DeterministicEncodeIndented is DeterministicEncode with indentation.
func DeterministicEncodeIndented(v interface{}, indent string) ([]byte, error) {
	return encode(v, indent)
}

func encode(v interface{}, indent string) ([]byte, error) {
	normalized, err := Normalize(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if indent != "" {
		encoder.SetIndent("", indent)
	}
	if err := encoder.Encode(normalized); err != nil {
		return nil, err
	}

	// Encode always appends a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Normalize converts v into maps, slices and scalars following the
// encoding rules of this package.
func Normalize(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return normalizeValue(reflect.ValueOf(v))
}

func normalizeValue(val reflect.Value) (interface{}, error) {
	if !val.IsValid() {
		return nil, nil
	}
	if val.Kind() == reflect.Ptr && val.IsNil() {
		return nil, nil
	}
	if val.Type().Implements(jsonMarshalerType) {
		return normalizeMarshaler(val.Interface().(json.Marshaler))
	}

	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			return nil, nil
		}
		return normalizeValue(val.Elem())
	case reflect.Map:
		return normalizeMap(val)
	case reflect.Slice, reflect.Array:
		return normalizeSlice(val)
	case reflect.Struct:
		return normalizeStruct(val)
	case reflect.Float32, reflect.Float64:
		return RoundFloat(val.Float()), nil
	default:
		return val.Interface(), nil
	}
}

func normalizeMarshaler(m json.Marshaler) (interface{}, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeMap stringifies keys; encoding/json sorts them on output
func normalizeMap(val reflect.Value) (interface{}, error) {
	if val.IsNil() {
		return nil, nil
	}

	result := make(map[string]interface{}, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		value, err := normalizeValue(iter.Value())
		if err != nil {
			return nil, err
		}
		if value != nil {
			result[mapKey(iter.Key())] = value
		}
	}
	return result, nil
}

func mapKey(key reflect.Value) string {
	if key.Kind() == reflect.String {
		return key.String()
	}
	return fmt.Sprint(key.Interface())
}

func normalizeSlice(val reflect.Value) (interface{}, error) {
	if val.Kind() == reflect.Slice && val.IsNil() {
		return nil, nil
	}

	result := make([]interface{}, val.Len())
	for i := range result {
		item, err := normalizeValue(val.Index(i))
		if err != nil {
			return nil, err
		}
		result[i] = item
	}
	return result, nil
}

func normalizeStruct(val reflect.Value) (interface{}, error) {
	result := make(map[string]interface{})
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := parseJSONTag(field.Tag.Get("json"))
		if tag.skip {
			continue
		}
		name := tag.name
		if name == "" {
			name = field.Name
		}

		fieldVal := val.Field(i)
		if tag.omitZero && fieldVal.IsZero() {
			continue
		}

		normalized, err := normalizeValue(fieldVal)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if tag.omitEmpty && isEmptyValue(normalized) {
			continue
		}
		if normalized != nil {
			result[name] = normalized
		}
	}
	return result, nil
}

type jsonTag struct {
	name      string
	skip      bool
	omitEmpty bool
	omitZero  bool
}

func parseJSONTag(tag string) jsonTag {
	if tag == "-" {
		return jsonTag{skip: true}
	}
	parts := strings.Split(tag, ",")
	t := jsonTag{name: parts[0]}
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			t.omitEmpty = true
		case "omitzero":
			t.omitZero = true
		}
	}
	return t
}

// isEmptyValue mirrors encoding/json's omitempty on normalized values
func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case int, int8, int16, int32, int64:
		return reflect.ValueOf(val).Int() == 0
	case uint, uint8, uint16, uint32, uint64:
		return reflect.ValueOf(val).Uint() == 0
	case float32, float64:
		return reflect.ValueOf(val).Float() == 0
	case string:
		return val == ""
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.String {
			return rv.Len() == 0
		}
		return false
	}
}
