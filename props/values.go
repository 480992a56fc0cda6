package props

// Values is a plain snapshot of a property bag.
type Values map[string]any

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// String returns the string stored under key, or "" when absent or of another type.
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Bool returns the bool stored under key, or false.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Int returns the int stored under key, or 0.
func (v Values) Int(key string) int {
	i, _ := v[key].(int)
	return i
}
