package fileresponse

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Resolution is the part of the resource a response sends.
// For 206 responses 0 <= Start <= End < Size holds for well-formed requests,
// out-of-bounds ranges are passed through unchanged.
type Resolution struct {
	Status Status
	// First and last byte sent, inclusive.
	Start int64
	End   int64
	// Number of bytes sent.
	Length int64
	// Size of the whole resource.
	Size int64
}

func fullResolution(size int64) Resolution {
	return Resolution{
		Status: http.StatusOK,
		Start:  0,
		End:    size - 1,
		Length: size,
		Size:   size,
	}
}

// resolve reads the size of the resource and picks the range to send for the request header.
func (f *FileResponse) resolve(h http.Header) (Resolution, error) {
	size, err := f.Size()
	if err != nil {
		return Resolution{}, err
	}
	rangeValue, hasRange := lookup(h, "Range")
	if !hasRange {
		return fullResolution(size), nil
	}
	ifRange, hasIfRange := lookup(h, "If-Range")
	honored, err := f.ifRangeHonored(ifRange, hasIfRange)
	if err != nil {
		return Resolution{}, err
	}
	return resolveRange(rangeValue, hasRange, honored, size), nil
}

func lookup(h http.Header, name string) (string, bool) {
	values := h.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// § RFC 7233, 3.2.  If-Range
// §
// §    A client MUST NOT generate an If-Range header field containing an
// §    entity-tag that is marked as weak.  A client MUST NOT generate an
// §    If-Range header field containing an HTTP-date unless the client has
// §    no entity-tag for the corresponding representation and the date is a
// §    strong validator in the sense defined by Section 2.2.2 of [RFC7232].
// §
// §    If the validator given in the If-Range header field matches the
// §    current validator for the selected representation of the target
// §    resource, then the server SHOULD process the Range header field as
// §    requested.  If the validator does not match, the server MUST ignore
// §    the Range header field.
//
// Only the entity tag of the active mode is compared: the one given in the
// header of the response, or the generated one if AutoETag is set.
// Both values are compared byte for byte.
func (f *FileResponse) ifRangeHonored(ifRange string, present bool) (bool, error) {
	if !present {
		return true, nil
	}
	if !f.autoETag {
		if etag, ok := f.header.Lookup("Etag"); ok && etag == ifRange {
			return true, nil
		}
	} else {
		etag, err := f.ETag()
		if err != nil {
			return false, err
		}
		if etag == ifRange {
			return true, nil
		}
	}
	lastModified, err := f.LastModified()
	if err != nil {
		return false, err
	}
	return ifRange == lastModified, nil
}

// § RFC 7233, 2.1.  Byte Ranges
// §
// §      byte-ranges-specifier = bytes-unit "=" byte-range-set
// §      byte-range-set  = 1#( byte-range-spec / suffix-byte-range-spec )
// §      byte-range-spec = first-byte-pos "-" [ last-byte-pos ]
// §      first-byte-pos  = 1*DIGIT
// §      last-byte-pos   = 1*DIGIT
// §
// §      suffix-byte-range-spec = "-" suffix-length
// §      suffix-length = 1*DIGIT
//
// resolveRange serves the first range of the set only. Anything it cannot use
// (other units, inverted or non-numeric positions, a failed If-Range) results
// in the full representation, never in 416.
// Positions are not checked against size.
func resolveRange(value string, present bool, honored bool, size int64) Resolution {
	full := fullResolution(size)
	if !present || !honored {
		return full
	}

	unitRanges := strings.Split(value, "=")
	if len(unitRanges) <= 1 || unitRanges[0] != "bytes" {
		return full
	}
	spec := strings.Split(unitRanges[1], ",")[0]
	positions := strings.Split(spec, "-")
	if len(positions) <= 1 {
		return full
	}
	first, last := positions[0], positions[1]

	start, end := int64(0), size-1
	switch {
	// -N: the last N bytes
	case first == "":
		n, err := parsePos(last)
		if err != nil {
			return full
		}
		start = end - n + 1
	// N-: from N to the end
	case last == "":
		n, err := parsePos(first)
		if err != nil {
			return full
		}
		start = n
	default:
		a, err := parsePos(first)
		if err != nil {
			return full
		}
		b, err := parsePos(last)
		if err != nil {
			return full
		}
		// positions beyond int64 fall back, as does an end whose length would overflow
		if a > b || b == math.MaxInt64 {
			return full
		}
		start, end = a, b
	}

	return Resolution{
		Status: http.StatusPartialContent,
		Start:  start,
		End:    end,
		Length: end - start + 1,
		Size:   size,
	}
}

func parsePos(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
