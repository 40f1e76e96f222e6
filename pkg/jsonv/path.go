package jsonv

import "strconv"

// Lookup follows a path of object keys (string) and array indexes (int).
// It reports false as soon as a step does not apply to the value at hand.
func Lookup(v Value, path ...any) (Value, bool) {
	cur := v
	for _, step := range path {
		switch s := step.(type) {
		case string:
			obj, ok := cur.(*Object)
			if !ok {
				return nil, false
			}
			next, ok := obj.Get(s)
			if !ok {
				return nil, false
			}
			cur = next
		case int:
			arr, ok := cur.(Array)
			if !ok || s < 0 || s >= len(arr) {
				return nil, false
			}
			cur = arr[s]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// LookupString is Lookup restricted to string leaves.
func LookupString(v Value, path ...any) (string, bool) {
	found, ok := Lookup(v, path...)
	if !ok {
		return "", false
	}
	s, ok := found.(String)
	return string(s), ok
}

// Truthy applies JavaScript-like truthiness: null, false, 0, "" are false,
// containers are always true.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(t)
	case Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case String:
		return t != ""
	default:
		return true
	}
}

// Scalar renders strings, numbers and booleans as text. Containers and null
// yield "".
func Scalar(v Value) string {
	switch t := v.(type) {
	case String:
		return string(t)
	case Number:
		return string(t)
	case Bool:
		return strconv.FormatBool(bool(t))
	default:
		return ""
	}
}

// Int reads an integer leaf, accepting numeric strings.
func Int(v Value) (int64, bool) {
	switch t := v.(type) {
	case Number:
		i, err := t.Int64()
		return i, err == nil
	case String:
		i, err := strconv.ParseInt(string(t), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
