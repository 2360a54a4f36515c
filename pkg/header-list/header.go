package headerlist

import (
	"net/http"
	"net/textproto"
	"sort"
	"strings"
)

// Field is a single header line.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered list of header fields.
// Lookups are case-insensitive, names may repeat and insertion order is kept.
// The zero value is an empty header ready to use.
type Header struct {
	fields []Field
}

// New returns a header holding the given fields in order.
func New(fields ...Field) Header {
	h := Header{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		h.Add(f.Name, f.Value)
	}
	return h
}

// FromHTTP converts a net/http header.
// Since http.Header is a map, names are added in sorted order to keep the result stable.
func FromHTTP(src http.Header) Header {
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)
	h := Header{}
	for _, name := range names {
		for _, value := range src[name] {
			h.Add(name, value)
		}
	}
	return h
}

func canonical(name string) string {
	return textproto.CanonicalMIMEHeaderKey(name)
}

func (h *Header) index(name string) int {
	for i, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the first value for name, or "" if there is none.
func (h Header) Get(name string) string {
	if i := h.index(name); i >= 0 {
		return h.fields[i].Value
	}
	return ""
}

// Lookup is like Get but also reports whether the header is present.
func (h Header) Lookup(name string) (string, bool) {
	if i := h.index(name); i >= 0 {
		return h.fields[i].Value, true
	}
	return "", false
}

// Has reports whether at least one field with the name exists.
func (h Header) Has(name string) bool {
	return h.index(name) >= 0
}

// Values returns all values for name in order.
func (h Header) Values(name string) []string {
	var values []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Add appends a field, keeping any existing ones with the same name.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: canonical(name), Value: value})
}

// Set replaces the first field with the name in place and removes the rest.
// If there is no such field, it is appended.
func (h *Header) Set(name, value string) {
	i := h.index(name)
	if i < 0 {
		h.Add(name, value)
		return
	}
	h.fields[i] = Field{Name: canonical(name), Value: value}
	h.removeFrom(i+1, name)
}

// Del removes all fields with the name.
func (h *Header) Del(name string) {
	h.removeFrom(0, name)
}

func (h *Header) removeFrom(start int, name string) {
	kept := h.fields[:start]
	for _, f := range h.fields[start:] {
		if !strings.EqualFold(f.Name, name) {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// Len returns the number of fields.
func (h Header) Len() int {
	return len(h.fields)
}

// Clone returns a deep copy. Mutating the copy does not affect h.
func (h Header) Clone() Header {
	if h.fields == nil {
		return Header{}
	}
	fields := make([]Field, len(h.fields))
	copy(fields, h.fields)
	return Header{fields: fields}
}

// Fields returns a copy of the fields in order.
func (h Header) Fields() []Field {
	return h.Clone().fields
}

// HTTP returns the fields as a net/http header.
func (h Header) HTTP() http.Header {
	dst := make(http.Header, len(h.fields))
	h.WriteTo(dst)
	return dst
}

// WriteTo adds all fields to dst, replacing values dst already holds for the same names.
func (h Header) WriteTo(dst http.Header) {
	seen := make(map[string]bool, len(h.fields))
	for _, f := range h.fields {
		if !seen[f.Name] {
			dst.Del(f.Name)
			seen[f.Name] = true
		}
		dst.Add(f.Name, f.Value)
	}
}
