package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"datapredictor/pkg/models"
)

// ParseHTMLTable extracts the first <table> in the document into rows.
// Headers come from <th> cells when present, otherwise from the first row.
func ParseHTMLTable(r io.Reader) ([]models.Row, []string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil, fmt.Errorf("no table found")
	}

	var headers []string
	table.Find("th").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(s.Text()))
	})

	trs := table.Find("tr")
	start := 0
	if len(headers) == 0 {
		trs.First().Find("td").Each(func(_ int, s *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(s.Text()))
		})
		start = 1
	}
	if len(headers) == 0 {
		return nil, nil, fmt.Errorf("no header row found")
	}

	var rows []models.Row
	trs.Each(func(i int, tr *goquery.Selection) {
		if i < start {
			return
		}
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		row := models.Row{}
		cells.Each(func(j int, td *goquery.Selection) {
			if j < len(headers) && headers[j] != "" {
				row[headers[j]] = strings.TrimSpace(td.Text())
			}
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows, headers, nil
}
