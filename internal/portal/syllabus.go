package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Syllabus fetches a syllabus document from the syllabus source. Documents
// that arrive double encoded, as a JSON string holding JSON, are unwrapped.
func (c *Client) Syllabus(ctx context.Context, q SyllabusQuery) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.SyllabusURL)
	if err != nil || c.cfg.SyllabusURL == "" {
		return nil, fmt.Errorf("syllabus: %w", ErrNotConfigured)
	}
	params := u.Query()
	params.Set("subject_code", q.SubjectCode)
	params.Set("semester", q.Semester)
	if q.Dept != "" {
		params.Set("dept", q.Dept)
	}
	u.RawQuery = params.Encode()

	resp, err := c.fetch(ctx, http.MethodGet, u.String(), "", "", nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching syllabus: %w", err)
	}
	switch {
	case resp.status == http.StatusNotFound:
		return nil, ErrSyllabusNotFound
	case resp.status != http.StatusOK:
		return nil, fmt.Errorf("syllabus source returned status %d", resp.status)
	}

	return decodeSyllabus(resp.body)
}

func decodeSyllabus(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, ErrInvalidSyllabus
	}
	if len(body) > 0 && body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, ErrInvalidSyllabus
		}
		innerBytes := bytes.TrimSpace([]byte(inner))
		if !json.Valid(innerBytes) {
			return nil, ErrInvalidSyllabus
		}
		body = innerBytes
	}
	return json.RawMessage(body), nil
}

// Calendar downloads the academic calendar document.
func (c *Client) Calendar(ctx context.Context) (*File, error) {
	if c.cfg.CalendarURL == "" {
		return nil, fmt.Errorf("calendar: %w", ErrNotConfigured)
	}
	resp, err := c.fetch(ctx, http.MethodGet, c.cfg.CalendarURL, "", "", nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching calendar: %w", err)
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("calendar source returned status %d", resp.status)
	}
	ct := resp.contentType
	if ct == "" {
		ct = http.DetectContentType(resp.body)
	}
	return &File{ContentType: ct, Body: resp.body}, nil
}
