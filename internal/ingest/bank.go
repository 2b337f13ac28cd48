package ingest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/shekelflow/shekelflow/internal/common"
	"github.com/shekelflow/shekelflow/internal/table"
)

// bankDateHeader marks the statement table inside the bank's export,
// which is an HTML document despite its .xls extension.
const bankDateHeader = "תאריך"

var bankColumns = map[string]string{
	"תאריך":     "date",
	"תאריך ערך": "value_date",
	"תיאור":     "description_raw",
	"אסמכתא":    "ref",
	"בחובה":     "outflow",
	"בזכות":     "inflow",
}

// ReadBank parses a bank statement export. The file is an HTML page
// holding one or more tables; the statement is the table whose header
// row contains the date column. Output columns: source, date,
// value_date, description_raw, ref, outflow_ils, inflow_ils,
// amount_ils (inflow minus outflow).
func ReadBank(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading bank statement %s: %w", path, err)
	}

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing bank statement %s: %w", path, err)
	}

	grid := findStatementTable(doc)
	if grid == nil {
		return nil, fmt.Errorf("%w: bank statement %s has no table with a %q header column",
			common.ErrUnrecognizedFormat, path, bankDateHeader)
	}

	header := grid[0]
	fieldFor := make(map[int]string, len(header))
	for i, cell := range header {
		if field, ok := bankColumns[strings.TrimSpace(cell)]; ok {
			fieldFor[i] = field
		}
	}

	out := table.New(
		"source", "date", "value_date", "description_raw", "ref",
		"outflow_ils", "inflow_ils", "amount_ils",
	)
	for _, cells := range grid[1:] {
		fields := make(map[string]string, len(fieldFor))
		for i, cell := range cells {
			if name, ok := fieldFor[i]; ok {
				fields[name] = strings.TrimSpace(cell)
			}
		}

		outflow := parseAmount(fields["outflow"])
		inflow := parseAmount(fields["inflow"])
		out.Append(map[string]string{
			"source":          "bank",
			"date":            formatDate(fields["date"]),
			"value_date":      formatDate(fields["value_date"]),
			"description_raw": fields["description_raw"],
			"ref":             fields["ref"],
			"outflow_ils":     outflow.StringFixed(2),
			"inflow_ils":      inflow.StringFixed(2),
			"amount_ils":      inflow.Sub(outflow).Round(2).StringFixed(2),
		})
	}
	return out, nil
}

// findStatementTable walks the document and returns the cell grid of
// the first table containing the date header, or the first table at
// all when none does.
func findStatementTable(doc *html.Node) [][]string {
	var first [][]string
	var walk func(n *html.Node) [][]string
	walk = func(n *html.Node) [][]string {
		if n.Type == html.ElementNode && n.Data == "table" {
			grid := tableGrid(n)
			if len(grid) > 0 {
				if first == nil {
					first = grid
				}
				for _, cell := range grid[0] {
					if strings.TrimSpace(cell) == bankDateHeader {
						return grid
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	if found := walk(doc); found != nil {
		return found
	}
	return first
}

func tableGrid(tableNode *html.Node) [][]string {
	var grid [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "tr":
				var row []string
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						row = append(row, nodeText(c))
					}
				}
				if len(row) > 0 {
					grid = append(grid, row)
				}
				return
			case "table":
				if n != tableNode {
					return // nested tables are not statement rows
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tableNode)
	return grid
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
