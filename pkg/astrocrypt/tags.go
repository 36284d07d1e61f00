package astrocrypt

import (
	"fmt"
	"reflect"
	"strings"
)

// OpenStruct replaces every string field tagged `encrypt:"true"` with its
// opened value. The label is the field's env key when it has an `env` tag,
// otherwise the Go field name. Nested structs are walked; empty fields are
// left alone.
func (s *Service) OpenStruct(v interface{}) error {
	return walk(v, func(label, value string) (string, error) {
		return s.Open(label, value)
	})
}

// SealStruct is the inverse of OpenStruct. Fields that are already sealed
// are kept as they are.
func (s *Service) SealStruct(v interface{}) error {
	return walk(v, func(label, value string) (string, error) {
		if IsSealed(value) {
			return value, nil
		}
		return s.Seal(label, value)
	})
}

func walk(v interface{}, apply func(label, value string) (string, error)) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("astrocrypt: expected a pointer to a struct, got %T", v)
	}
	return walkStruct(val.Elem(), apply)
}

func walkStruct(val reflect.Value, apply func(label, value string) (string, error)) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		typeField := typ.Field(i)

		if field.Kind() == reflect.Struct {
			if err := walkStruct(field, apply); err != nil {
				return err
			}
			continue
		}

		if typeField.Tag.Get("encrypt") != "true" {
			continue
		}
		if field.Kind() != reflect.String || !field.CanSet() || field.String() == "" {
			continue
		}

		label := fieldLabel(typeField)
		out, err := apply(label, field.String())
		if err != nil {
			return fmt.Errorf("field %s: %w", label, err)
		}
		field.SetString(out)
	}

	return nil
}

// fieldLabel returns the env key from `env:"KEY,default"`, or the field name.
func fieldLabel(f reflect.StructField) string {
	key, _, _ := strings.Cut(f.Tag.Get("env"), ",")
	if key = strings.TrimSpace(key); key != "" {
		return key
	}
	return f.Name
}
