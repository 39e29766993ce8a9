// package catalog defines the channel catalog document and typed accessors over its optional fields
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/tvplus/internal/shared"
)

// Catalog is the top-level channel document, keyed by region code.
type Catalog struct {
	Regions map[string]*Region `json:"regions"`
}

// Region is a named group of channels keyed by provider id.
type Region struct {
	Name     string              `json:"name"`
	Channels map[string]*Channel `json:"channels"`

	present bool
}

// Channel is a single streaming entry. Fields other than those used for rendering are ignored.
type Channel struct {
	Name string        `json:"name"`
	Chno ChannelNumber `json:"chno"`
}

// ChannelNumber is an optional channel slot. A JSON number or string is kept as text;
// zero, null and any other JSON type read as an absent slot.
type ChannelNumber string

// UnmarshalJSON implements [json.Unmarshaler].
func (n *ChannelNumber) UnmarshalJSON(data []byte) error {
	*n = ""

	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil
	}

	switch v := v.(type) {
	case string:
		*n = ChannelNumber(v)
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return nil
		}
		if i, err := v.Int64(); err == nil {
			*n = ChannelNumber(strconv.FormatInt(i, 10))
			return nil
		}
		*n = ChannelNumber(v.String())
	}
	return nil
}

// UnmarshalJSON implements [json.Unmarshaler]. It records whether the region object carried any keys.
func (r *Region) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	type plain Region
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*r = Region(p)
	r.present = len(fields) > 0
	return nil
}

// Decode parses a JSON catalog document.
//
// The payload must be valid UTF-8. A document without a "regions" object is reported as
// [shared.ErrMissingCatalog].
func Decode(data []byte) (*Catalog, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", shared.ErrDecode)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the document carries a "regions" object.
func (c *Catalog) Validate() error {
	if c == nil || c.Regions == nil {
		return fmt.Errorf("%w: document has no regions", shared.ErrMissingCatalog)
	}
	return nil
}

// Region returns the region for code, or [shared.ErrMissingRegion] when it is absent or empty.
func (c *Catalog) Region(code string) (*Region, error) {
	r, ok := c.Regions[code]
	if !ok || r.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingRegion, code)
	}
	return r, nil
}

// Codes returns the region codes in the catalog in ascending order.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.Regions))
	for code := range c.Regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsEmpty reports whether the region is nil, or was decoded from an object without keys.
// A region built in code counts as empty only when it has neither a name nor channels.
func (r *Region) IsEmpty() bool {
	return r == nil || (!r.present && r.Name == "" && len(r.Channels) == 0)
}

// GroupTitle returns the region's display name, falling back to the uppercased code.
func (r *Region) GroupTitle(code string) string {
	if r == nil || r.Name == "" {
		return strings.ToUpper(code)
	}
	return r.Name
}

// ChannelIDs returns the region's channel ids in ascending order.
func (r *Region) ChannelIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Channels))
	for id := range r.Channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DisplayName returns the channel name, or placeholder when the name is missing.
func (ch *Channel) DisplayName(placeholder string) string {
	if ch == nil || ch.Name == "" {
		return placeholder
	}
	return ch.Name
}

// SortName returns the channel name, or "" when missing.
func (ch *Channel) SortName() string {
	if ch == nil {
		return ""
	}
	return ch.Name
}

// Number returns the channel slot, or "" when absent.
func (ch *Channel) Number() string {
	if ch == nil {
		return ""
	}
	return string(ch.Chno)
}
