package neon

import "reflect"

// deepCopy returns a copy of v that shares no pointers, slices or maps with
// it. Structs with unexported fields (time.Time) are copied by value.
func deepCopy[T any](v T) T {
	src := reflect.ValueOf(&v).Elem()
	dst := reflect.New(src.Type()).Elem()
	copyValue(dst, src)

	return dst.Interface().(T)
}

func copyValue(dst, src reflect.Value) {
	switch src.Kind() {
	case reflect.Pointer:
		if src.IsNil() {
			return
		}

		dst.Set(reflect.New(src.Type().Elem()))
		copyValue(dst.Elem(), src.Elem())
	case reflect.Slice:
		if src.IsNil() {
			return
		}

		dst.Set(reflect.MakeSlice(src.Type(), src.Len(), src.Len()))

		for i := range src.Len() {
			copyValue(dst.Index(i), src.Index(i))
		}
	case reflect.Array:
		for i := range src.Len() {
			copyValue(dst.Index(i), src.Index(i))
		}
	case reflect.Map:
		if src.IsNil() {
			return
		}

		dst.Set(reflect.MakeMapWithSize(src.Type(), src.Len()))

		for entries := src.MapRange(); entries.Next(); {
			value := reflect.New(src.Type().Elem()).Elem()
			copyValue(value, entries.Value())
			dst.SetMapIndex(entries.Key(), value)
		}
	case reflect.Interface:
		if src.IsNil() {
			return
		}

		value := reflect.New(src.Elem().Type()).Elem()
		copyValue(value, src.Elem())
		dst.Set(value)
	case reflect.Struct:
		if !allExported(src.Type()) {
			dst.Set(src)

			return
		}

		for i := range src.NumField() {
			copyValue(dst.Field(i), src.Field(i))
		}
	default:
		dst.Set(src)
	}
}

func allExported(t reflect.Type) bool {
	for i := range t.NumField() {
		if !t.Field(i).IsExported() {
			return false
		}
	}

	return true
}
