package attendance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Record holds the attendance counts of one category.
type Record struct {
	TotalClasses int `json:"totalClasses"`
	Presentees   int `json:"presentees"`
	ExtraClasses int `json:"extraClasses"`
}

// Attended counts regular presences plus extra classes.
func (r Record) Attended() int {
	return r.Presentees + r.ExtraClasses
}

// CurrentPercent is the attended share of classes held, 0 when none were held.
func (r Record) CurrentPercent() float64 {
	if r.TotalClasses <= 0 {
		return 0
	}
	return 100 * float64(r.Attended()) / float64(r.TotalClasses)
}

// Count is a class count that decodes from a JSON number or a numeric string.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	n, err := ParseCount(raw)
	if err != nil {
		return err
	}
	*c = n
	return nil
}

// ParseCount reads a class count such as "12", " 12 " or "12.0". An empty
// string is zero.
func ParseCount(s string) (Count, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid class count %q: %w", raw, err)
	}
	return Count(d.IntPart()), nil
}

// CategoryData is one entry of the dashboard's "Total Attendance Data" map.
type CategoryData struct {
	TotalClasses    Count  `json:"Total Classes"`
	Presentees      Count  `json:"Presentees"`
	ExtraClasses    Count  `json:"Extra Classes"`
	TotalAttendance string `json:"Total Attendance,omitempty"`
}

func (d CategoryData) Record() Record {
	return Record{
		TotalClasses: int(d.TotalClasses),
		Presentees:   int(d.Presentees),
		ExtraClasses: int(d.ExtraClasses),
	}
}

// Categories returns the sorted names of categories that report a readable
// total attendance percentage.
func Categories(data map[string]CategoryData) []string {
	names := make([]string, 0, len(data))
	for name, d := range data {
		if _, err := ParsePercent(d.TotalAttendance); err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryProjection pairs a category with its projection.
type CategoryProjection struct {
	Category       string   `json:"category" csv:"Category"`
	TotalClasses   int      `json:"totalClasses" csv:"Total Classes"`
	Attended       int      `json:"attended" csv:"Attended"`
	CurrentPercent string   `json:"currentPercent" csv:"Current %"`
	Standing       Standing `json:"standing" csv:"Standing"`
	Mode           Mode     `json:"mode" csv:"Mode"`
	Count          int      `json:"count" csv:"Count"`
	MaxRemaining   int      `json:"maxRemaining" csv:"Max Remaining"`
}

// ProjectCategory projects a single record and attaches its display figures.
func ProjectCategory(category string, rec Record, target *int) CategoryProjection {
	res := Project(rec, category, target)
	pct := rec.CurrentPercent()
	return CategoryProjection{
		Category:       category,
		TotalClasses:   rec.TotalClasses,
		Attended:       rec.Attended(),
		CurrentPercent: FormatPercent(pct),
		Standing:       StandingFor(pct),
		Mode:           res.Mode,
		Count:          res.Count,
		MaxRemaining:   res.MaxRemaining,
	}
}

// ProjectAll projects every category listed by Categories.
func ProjectAll(data map[string]CategoryData, target *int) []CategoryProjection {
	names := Categories(data)
	out := make([]CategoryProjection, 0, len(names))
	for _, name := range names {
		out = append(out, ProjectCategory(name, data[name].Record(), target))
	}
	return out
}

// SubjectAttendance is the dashboard's "Subjects Attendance Data": three maps
// keyed by subject name.
type SubjectAttendance struct {
	Presentees   map[string]Count `json:"Presentees"`
	HeldClasses  map[string]Count `json:"Held Classes"`
	ExtraClasses map[string]Count `json:"Extra Classes"`
}

type SubjectPercent struct {
	Subject    string  `json:"subject"`
	Presentees int     `json:"presentees"`
	Held       int     `json:"held"`
	Percent    float64 `json:"percent"`
}

// Subjects lists every subject with presentees, sorted by name.
func (s SubjectAttendance) Subjects() []SubjectPercent {
	out := make([]SubjectPercent, 0, len(s.Presentees))
	for subject, present := range s.Presentees {
		rec := Record{
			TotalClasses: int(s.HeldClasses[subject]),
			Presentees:   int(present),
			ExtraClasses: int(s.ExtraClasses[subject]),
		}
		out = append(out, SubjectPercent{
			Subject:    subject,
			Presentees: rec.Presentees,
			Held:       rec.TotalClasses,
			Percent:    rec.CurrentPercent(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out
}
