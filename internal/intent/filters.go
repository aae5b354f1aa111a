package intent

import (
	"strconv"
	"strings"
)

// Filter keyword anchors.
const (
	AnchorLocation = "location"
	AnchorBedrooms = "bedrooms"
	AnchorMinRent  = "min_rent"
	AnchorMaxRent  = "max_rent"
)

var anchors = []string{AnchorLocation, AnchorBedrooms, AnchorMinRent, AnchorMaxRent}

// Range is an inclusive numeric range. Either bound may be absent and the
// bounds are not checked against each other.
type Range struct {
	GTE *int `json:"gte,omitempty"`
	LTE *int `json:"lte,omitempty"`
}

// FilterSet holds the listing constraints taken from one message. Absent
// fields are not applied.
type FilterSet struct {
	Location *string `json:"location,omitempty"`
	Bedrooms *int    `json:"bedrooms,omitempty"`
	Rent     *Range  `json:"rent,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (f FilterSet) IsEmpty() bool {
	return f.Location == nil && f.Bedrooms == nil && f.Rent == nil
}

// ExtractFilters applies every extraction rule to message. Rules are
// independent; a value that fails to parse leaves its filter unset.
func ExtractFilters(message string) FilterSet {
	var f FilterSet

	if loc, ok := ExtractLocation(message); ok {
		f.Location = &loc
	}
	if n, ok := ExtractBedrooms(message); ok {
		f.Bedrooms = &n
	}
	if n, ok := ExtractMinRent(message); ok {
		f.Rent = &Range{GTE: &n}
	}
	if n, ok := ExtractMaxRent(message); ok {
		if f.Rent == nil {
			f.Rent = &Range{}
		}
		f.Rent.LTE = &n
	}

	return f
}

// ExtractLocation returns the text following the last "location" keyword.
func ExtractLocation(message string) (string, bool) {
	v, ok := valueAfter(message, AnchorLocation)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ExtractBedrooms returns the integer following the last "bedrooms" keyword.
func ExtractBedrooms(message string) (int, bool) {
	return intAfter(message, AnchorBedrooms)
}

// ExtractMinRent returns the integer following the last "min_rent" keyword.
func ExtractMinRent(message string) (int, bool) {
	return intAfter(message, AnchorMinRent)
}

// ExtractMaxRent returns the integer following the last "max_rent" keyword.
func ExtractMaxRent(message string) (int, bool) {
	return intAfter(message, AnchorMaxRent)
}

func intAfter(message, anchor string) (int, bool) {
	v, ok := valueAfter(message, anchor)
	if !ok {
		return 0, false
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

// valueAfter returns the trimmed text after the last occurrence of anchor,
// cut short where the next filter anchor begins. The original casing of
// message is preserved.
func valueAfter(message, anchor string) (string, bool) {
	idx := LastIndexFold(message, anchor)
	if idx < 0 {
		return "", false
	}

	tail := message[idx+len(anchor):]
	end := len(tail)
	for _, other := range anchors {
		if other == anchor {
			continue
		}
		if i := IndexFold(tail, other); i >= 0 && i < end {
			end = i
		}
	}

	return strings.TrimSpace(tail[:end]), true
}
