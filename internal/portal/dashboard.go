package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"vcePortalApi/internal/attendance"
)

const (
	studentInfoSelector     = "#tblStudentInfo tr"
	studentImageSelector    = "img#imgStudent"
	currentSemSelector      = "#lblCurrentSem"
	totalAttendanceSelector = "table#tblTotalAttendance"
	subjectsSelector        = "table#tblSubjectAttendance"
	marksSelector           = "table#tblMarks"
	marksSummarySelector    = "#tblMarksSummary tr"
)

// Dashboard scrapes the student's dashboard and marks pages. The returned
// session id replaces the given one when the ERP rotated its cookies.
func (c *Client) Dashboard(ctx context.Context, sessionID string) (*Dashboard, string, error) {
	p, err := c.sessionPage(ctx, c.cfg.DashboardPath, sessionID)
	if err != nil {
		return nil, sessionID, err
	}

	d := &Dashboard{
		Student:         parseLabelValues(p.doc.Find(studentInfoSelector)),
		StudentImage:    parseStudentImage(p),
		CurrentSem:      map[string]string{},
		TotalAttendance: parseTotalAttendance(p.doc),
		Subjects:        parseSubjectAttendance(p.doc),
	}
	if sem := strings.TrimSpace(p.doc.Find(currentSemSelector).Text()); sem != "" {
		d.CurrentSem["Sem."] = sem
	}
	if d.Student["Name"] == "" {
		return nil, p.cookie, fmt.Errorf("student name not found on dashboard")
	}

	cookie := p.cookie
	if c.cfg.MarksPath != "" {
		mp, err := c.sessionPage(ctx, c.cfg.MarksPath, cookie)
		switch {
		case errors.Is(err, ErrSessionExpired):
			return nil, cookie, err
		case err != nil:
			c.log.WithError(err).Warn("marks page unavailable")
		default:
			d.Marks = parseMarks(mp.doc)
			cookie = mp.cookie
		}
	}

	return d, cookie, nil
}

func (c *Client) sessionPage(ctx context.Context, path, sessionID string) (*page, error) {
	if sessionID == "" {
		return nil, ErrSessionExpired
	}
	target := c.resolve(path)
	p, err := c.doPortalRequest(ctx, http.MethodGet, target, sessionID, c.resolve(c.cfg.DashboardPath), nil)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", target, err)
	}
	if hasLoginForm(p.doc) {
		return nil, ErrSessionExpired
	}
	return p, nil
}

func parseStudentImage(p *page) string {
	src := strings.TrimSpace(p.doc.Find(studentImageSelector).AttrOr("src", ""))
	if src == "" {
		return ""
	}
	u, err := p.url.Parse(src)
	if err != nil {
		return ""
	}
	return u.String()
}

// parseLabelValues reads rows of alternating label and value cells.
func parseLabelValues(rows *goquery.Selection) map[string]string {
	out := map[string]string{}
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		for i := 0; i+1 < cells.Length(); i += 2 {
			key := strings.TrimSuffix(strings.TrimSpace(cells.Eq(i).Text()), ":")
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			out[key] = strings.TrimSpace(cells.Eq(i + 1).Text())
		}
	})
	return out
}

// table reads a header row and the data rows of an HTML table.
type table struct {
	headers []string
	rows    []*goquery.Selection
}

func readTable(sel *goquery.Selection) table {
	var t table
	headerCells := sel.Find("thead tr").First().Find("th")
	if headerCells.Length() == 0 {
		headerCells = sel.Find("tr").First().Find("th")
	}
	headerCells.Each(func(_ int, th *goquery.Selection) {
		t.headers = append(t.headers, headerText(th))
	})
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find("td").Length() > 0 {
			t.rows = append(t.rows, tr)
		}
	})
	return t
}

// each calls fn with the header-keyed cells of every row.
func (t table) each(fn func(cells map[string]*goquery.Selection)) {
	for _, row := range t.rows {
		cells := map[string]*goquery.Selection{}
		row.Find("td").Each(func(j int, td *goquery.Selection) {
			if j < len(t.headers) {
				cells[t.headers[j]] = td
			}
		})
		fn(cells)
	}
}

func cellText(cells map[string]*goquery.Selection, header string) string {
	if td, ok := cells[header]; ok {
		return strings.TrimSpace(td.Text())
	}
	return ""
}

// cellCount reads a count cell. Cells that hold no number, such as "-",
// count as zero.
func cellCount(cells map[string]*goquery.Selection, header string) attendance.Count {
	n, err := attendance.ParseCount(cellText(cells, header))
	if err != nil {
		return 0
	}
	return n
}

func parseTotalAttendance(doc *goquery.Document) map[string]attendance.CategoryData {
	out := map[string]attendance.CategoryData{}
	readTable(doc.Find(totalAttendanceSelector)).each(func(cells map[string]*goquery.Selection) {
		category := cellText(cells, "Category")
		if category == "" {
			return
		}
		out[category] = attendance.CategoryData{
			TotalClasses:    cellCount(cells, "Total Classes"),
			Presentees:      cellCount(cells, "Presentees"),
			ExtraClasses:    cellCount(cells, "Extra Classes"),
			TotalAttendance: cellText(cells, "Total Attendance"),
		}
	})
	return out
}

func parseSubjectAttendance(doc *goquery.Document) attendance.SubjectAttendance {
	s := attendance.SubjectAttendance{
		Presentees:   map[string]attendance.Count{},
		HeldClasses:  map[string]attendance.Count{},
		ExtraClasses: map[string]attendance.Count{},
	}
	readTable(doc.Find(subjectsSelector)).each(func(cells map[string]*goquery.Selection) {
		subject := cellText(cells, "Subject")
		if subject == "" {
			return
		}
		s.Presentees[subject] = cellCount(cells, "Presentees")
		s.HeldClasses[subject] = cellCount(cells, "Held Classes")
		s.ExtraClasses[subject] = cellCount(cells, "Extra Classes")
	})
	return s
}

func parseMarks(doc *goquery.Document) *Marks {
	marks := &Marks{
		Subjects: []SubjectMarks{},
		Summary:  parseLabelValues(doc.Find(marksSummarySelector)),
	}

	sel := doc.Find(marksSelector)
	t := readTable(sel)
	maxByHeader := map[string]string{}
	sel.Find("th").Each(func(_ int, th *goquery.Selection) {
		if m := strings.TrimSpace(th.Find("small").Text()); m != "" {
			maxByHeader[headerText(th)] = strings.TrimSpace(strings.TrimPrefix(m, "Max:"))
		}
	})

	t.each(func(cells map[string]*goquery.Selection) {
		subject := SubjectMarks{
			Code:       cellText(cells, "Code"),
			Name:       cellText(cells, "Subject"),
			Components: map[string][]MarkComponent{},
		}
		if subject.Name == "" {
			return
		}
		for _, header := range t.headers {
			switch header {
			case "S.No", "Code", "Subject":
				continue
			}
			value := cellText(cells, header)
			if value == "" || value == "-" || value == "--" {
				continue
			}
			secured, maxMarks, found := strings.Cut(value, "/")
			if !found {
				maxMarks = maxByHeader[header]
			}
			kind := componentType(header)
			subject.Components[kind] = append(subject.Components[kind], MarkComponent{
				Name:    header,
				Secured: strings.TrimSpace(secured),
				Max:     strings.TrimSpace(maxMarks),
			})
		}
		marks.Subjects = append(marks.Subjects, subject)
	})
	return marks
}

// componentType maps a column such as "Internal-1" or "Quiz 2" to its
// component group.
func componentType(header string) string {
	words := strings.FieldsFunc(header, func(r rune) bool { return !unicode.IsLetter(r) })
	if len(words) == 0 {
		return "other"
	}
	return strings.ToLower(words[0])
}

func headerText(th *goquery.Selection) string {
	if text := ownText(th); text != "" {
		return text
	}
	return strings.TrimSpace(th.Text())
}

// ownText joins the text nodes directly under a selection, skipping nested
// elements such as <small> annotations.
func ownText(s *goquery.Selection) string {
	var parts []string
	s.Contents().Each(func(_ int, n *goquery.Selection) {
		if node := n.Get(0); node != nil && node.Type == html.TextNode {
			if text := strings.TrimSpace(n.Text()); text != "" {
				parts = append(parts, text)
			}
		}
	})
	return strings.Join(parts, " ")
}
