package query

import (
	"strconv"
	"strings"
)

// Key identifies a cached query. Keys compare by value.
type Key []string

// DocumentsKey is the key of the document listing.
func DocumentsKey() Key { return Key{"documents"} }

// DocumentKey is the key of one document detail.
func DocumentKey(id int) Key { return Key{"document", strconv.Itoa(id)} }

// EvalReportKey is the key of the latest evaluation report.
func EvalReportKey() Key { return Key{"eval", "latest"} }

// UploadKey scopes one upload response by its request identity.
func UploadKey(requestID string) Key { return Key{"upload", requestID} }

// String renders the key for logs.
func (k Key) String() string {
	return "[" + strings.Join(k, " ") + "]"
}

// Equal reports whether k and other have the same parts.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix matches the leading parts of k. An empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return k[:len(prefix)].Equal(prefix)
}

// hash is the map key for k. Parts are length-prefixed so no two keys collide.
func (k Key) hash() string {
	var b strings.Builder
	for _, part := range k {
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
