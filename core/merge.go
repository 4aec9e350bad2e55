package core

import "reflect"

// Merge returns defaults deep-merged with overrides. Neither argument is modified.
//
// For every key in overrides: when both the default and the override value are records
// (string keyed maps) they are merged recursively, otherwise the override replaces the
// default outright. Slices and scalars are never merged element-wise. Keys only present
// in defaults are kept and keys only present in overrides are added.
func Merge(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for key, value := range defaults {
		merged[key] = value
	}

	for key, override := range overrides {
		current, exists := merged[key]
		if exists {
			currentRecord, currentOK := AsRecord(current)
			overrideRecord, overrideOK := AsRecord(override)
			if currentOK && overrideOK {
				merged[key] = Merge(currentRecord, overrideRecord)
				continue
			}
		}
		merged[key] = override
	}

	return merged
}

// Overwrite returns current with each top-level key of overrides replacing the existing value.
// Nested records are replaced as a whole.
func Overwrite(current, overrides map[string]any) map[string]any {
	result := make(map[string]any, len(current)+len(overrides))
	for key, value := range current {
		result[key] = value
	}
	for key, value := range overrides {
		result[key] = value
	}
	return result
}

// AsRecord reports whether value is a string keyed map and returns it as map[string]any.
// Typed maps such as map[string]bool are copied into a new map.
func AsRecord(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	record := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		record[iter.Key().String()] = iter.Value().Interface()
	}
	return record, true
}
