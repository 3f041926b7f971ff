// context.go — immutable structured fields attached to xgx-exec errors.
//
// Fields live in an append-only []Field so rendering order is deterministic
// (map iteration is not). Builders always allocate a fresh backing array;
// callers only ever see a copy-on-read map via Error.Context().
package xgxexec

// Field is a single key-value pair attached to an error.
type Field struct {
	Key string
	Val any
}

// fields is append-only once published; never modify elements in place.
type fields []Field

var emptyFields = make(fields, 0)

// ctxCloneAppend returns a NEW slice holding dst followed by add.
func ctxCloneAppend(dst fields, add ...Field) fields {
	n, m := len(dst), len(add)
	if n+m == 0 {
		return emptyFields
	}
	out := make(fields, n+m)
	copy(out, dst)
	copy(out[n:], add)
	return out
}

// ctxFromKV reads (key, value) pairs left to right. A non-string key drops
// the whole pair so later pairs stay aligned; a trailing key maps to nil.
func ctxFromKV(kv ...any) fields {
	if len(kv) == 0 {
		return emptyFields
	}
	out := make(fields, 0, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		out = append(out, Field{Key: k, Val: v})
	}
	if len(out) == 0 {
		return emptyFields
	}
	return out
}

// ctxToMap builds a NEW map; later duplicate keys win.
func ctxToMap(fs fields) map[string]any {
	if len(fs) == 0 {
		return nil
	}
	m := make(map[string]any, len(fs))
	for _, f := range fs {
		m[f.Key] = f.Val
	}
	return m
}
