package keymap

import (
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
)

// Overrides maps snake_case binding names to replacement keys.
type Overrides map[string][]string

// ApplyOverrides replaces the keys of key.Binding fields in the struct km
// points to. Config keys are the snake_case field names (ToggleLogs ->
// toggle_logs). Help descriptions are kept. It returns the override names
// that matched no field, sorted.
func ApplyOverrides(km interface{}, overrides Overrides) []string {
	if len(overrides) == 0 {
		return nil
	}
	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil
	}

	used := make(map[string]bool, len(overrides))
	applyOverrides(v.Elem(), overrides, used)

	var unknown []string
	for name := range overrides {
		if !used[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func applyOverrides(v reflect.Value, overrides Overrides, used map[string]bool) {
	t := v.Type()
	bindingType := reflect.TypeOf(key.Binding{})

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !field.CanSet() {
			continue
		}
		if fieldType.Anonymous && field.Kind() == reflect.Struct {
			applyOverrides(field, overrides, used)
			continue
		}
		if fieldType.Type != bindingType {
			continue
		}

		name := camelToSnake(fieldType.Name)
		keys, ok := overrides[name]
		if !ok {
			continue
		}
		used[name] = true
		if len(keys) == 0 {
			continue
		}
		current := field.Interface().(key.Binding)
		field.Set(reflect.ValueOf(key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), current.Help().Desc),
		)))
	}
}

// camelToSnake converts CamelCase to snake_case: ToggleLogs -> toggle_logs.
func camelToSnake(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
