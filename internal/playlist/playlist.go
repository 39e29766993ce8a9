// package playlist groups catalog channels into entries and renders them as #EXTM3U playlists
package playlist

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/tvplus/internal/catalog"
)

// Templates holds the URL templates used to build stream and guide URLs.
//
// Placeholders are replaced literally: {id} in Stream, {region} in Guide.
type Templates struct {
	Stream string
	Guide  string
}

// StreamURL returns the stream URL for a provider channel id.
func (t Templates) StreamURL(id string) string {
	return strings.ReplaceAll(t.Stream, "{id}", id)
}

// GuideURL returns the program guide URL for a region code.
func (t Templates) GuideURL(region string) string {
	return strings.ReplaceAll(t.Guide, "{region}", region)
}

// Entry is a single rendered channel.
type Entry struct {
	Key       string // channel-id attribute; raw id, or <id>-<region> in the merged playlist
	ID        string // provider id, used for tvg-id and the stream URL
	Chno      string
	Name      string // display name with placeholder applied
	SortName  string // raw name, "" when missing
	Group     string
	StreamURL string
}

func newEntry(key, id, region string, r *catalog.Region, ch *catalog.Channel, placeholder string, tpl Templates) Entry {
	return Entry{
		Key:       key,
		ID:        id,
		Chno:      ch.Number(),
		Name:      ch.DisplayName(placeholder),
		SortName:  ch.SortName(),
		Group:     r.GroupTitle(region),
		StreamURL: tpl.StreamURL(id),
	}
}

// ForRegion builds entries for a single catalog region keyed by raw channel id.
func ForRegion(c *catalog.Catalog, code, placeholder string, tpl Templates) ([]Entry, error) {
	r, err := c.Region(code)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(r.Channels))
	for _, id := range r.ChannelIDs() {
		entries = append(entries, newEntry(id, id, code, r, r.Channels[id], placeholder, tpl))
	}
	return entries, nil
}

// ForAll merges every region in the catalog, keying entries by <id>-<region> so that
// the same provider id in two regions yields two entries.
func ForAll(c *catalog.Catalog, placeholder string, tpl Templates) []Entry {
	var entries []Entry
	for _, code := range c.Codes() {
		r := c.Regions[code]
		for _, id := range r.ChannelIDs() {
			key := id + "-" + code
			entries = append(entries, newEntry(key, id, code, r, r.Channels[id], placeholder, tpl))
		}
	}
	return entries
}

// Sort orders entries by name, case-insensitively. Equal names fall back to key order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].SortName), strings.ToLower(entries[j].SortName)
		if a != b {
			return a < b
		}
		return entries[i].Key < entries[j].Key
	})
}

// Render writes the playlist header followed by one #EXTINF/URL pair per entry.
func Render(w io.Writer, guideURL string, entries []Entry) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "#EXTM3U url-tvg=\"%s\"\n", guideURL)
	for _, e := range entries {
		fmt.Fprintf(&buf,
			"#EXTINF:-1 channel-id=\"%s\" tvg-id=\"%s\" tvg-chno=\"%s\" tvg-name=\"%s\" tvg-logo=\"\" group-title=\"%s\",%s\n",
			e.Key, e.ID, e.Chno, e.Name, e.Group, e.Name,
		)
		buf.WriteString(e.StreamURL + "\n")
	}

	if _, err := io.Copy(w, &buf); err != nil {
		return fmt.Errorf("failed to write playlist: %w", err)
	}
	return nil
}

// ToM3U renders entries into a byte slice.
func ToM3U(guideURL string, entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, guideURL, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName returns the playlist file name for a region: <prefix>_<region>.m3u
func FileName(prefix, region string) string {
	return fmt.Sprintf("%s_%s.m3u", prefix, region)
}

// WriteFile writes data to dir/name, creating dir if needed, and returns the file path.
func WriteFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write playlist file: %w", err)
	}
	return path, nil
}
