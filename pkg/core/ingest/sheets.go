package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"datapredictor/pkg/models"
)

var sheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SheetCSVURL rewrites a Google Sheets link into its CSV export form. URLs
// that already point at a CSV (or are not Sheets links at all) pass through
// unchanged.
func SheetCSVURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if !strings.Contains(u.Host, "docs.google.com") {
		return raw, nil
	}
	// Published-to-web links serve an HTML page, not a CSV export. Leave
	// them untouched; the fetch side parses the table out of the page.
	if strings.Contains(u.Path, "/pubhtml") {
		return raw, nil
	}
	m := sheetIDRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", fmt.Errorf("not a spreadsheet url: %s", raw)
	}
	gid := u.Query().Get("gid")
	if gid == "" {
		if frag := u.Fragment; strings.HasPrefix(frag, "gid=") {
			gid = strings.TrimPrefix(frag, "gid=")
		}
	}
	if gid == "" {
		gid = "0"
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", m[1], gid), nil
}

// FetchPublicCSV downloads a public CSV (typically a Sheets export) and
// parses it into rows. Published-to-web sheets answer with an HTML page
// instead of CSV; those go through the table parser.
func FetchPublicCSV(ctx context.Context, rawURL string) ([]models.Row, []string, error) {
	csvURL, err := SheetCSVURL(rawURL)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, csvURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch csv: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, nil, fmt.Errorf("fetch csv: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if strings.Contains(csvURL, "/pubhtml") || strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return ParseHTMLTable(resp.Body)
	}
	return ParseCSV(resp.Body)
}
