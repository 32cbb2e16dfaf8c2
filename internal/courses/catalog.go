// Package courses loads the read-only course catalog offered as
// recommendations after receipts.
package courses

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leeedrea/whatsapp-receipt-tracker/assets"
)

// Course is one catalog entry. Tags is a free-text field matched by
// substring against lower-cased category names.
type Course struct {
	ID         string
	Title      string
	Tags       string
	Level      string
	AndroidURL string
	IOSURL     string
	Diamonds   string
}

// Catalog is the ordered course list. Order matters: recommendation scans
// the catalog front to back.
type Catalog []Course

// Load reads the catalog CSV at path. When the file is absent or unreadable
// it falls back to the embedded catalog rather than failing startup.
func Load(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return parseCSV(bytes.NewReader(assets.FallbackCoursesCSV))
	}
	defer f.Close()

	cat, err := parseCSV(f)
	if err != nil {
		fallback, ferr := parseCSV(bytes.NewReader(assets.FallbackCoursesCSV))
		if ferr != nil {
			return nil, ferr
		}
		return fallback, nil
	}
	return cat, nil
}

func parseCSV(r io.Reader) (Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var cat Catalog
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		c := Course{
			ID:         field(rec, "course_id"),
			Title:      field(rec, "title"),
			Tags:       field(rec, "tags"),
			Level:      field(rec, "level"),
			AndroidURL: field(rec, "android_url"),
			IOSURL:     field(rec, "ios_url"),
			Diamonds:   field(rec, "diamonds"),
		}
		if c.ID == "" {
			continue
		}
		cat = append(cat, c)
	}
	return cat, nil
}

// ByID returns the course with the given id, if still in the catalog.
func (c Catalog) ByID(id string) (Course, bool) {
	for _, course := range c {
		if course.ID == id {
			return course, true
		}
	}
	return Course{}, false
}

// MatchesTag reports whether the course's tags contain the tag as a
// substring, case-insensitively.
func (c Course) MatchesTag(tag string) bool {
	return strings.Contains(strings.ToLower(c.Tags), strings.ToLower(tag))
}
