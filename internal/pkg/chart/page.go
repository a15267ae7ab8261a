package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/components"
)

// Page is the HTML document wrapping a capture figure.
//
// A capture figure renders as one overlaid chart, so the page centers its
// content rather than flowing a grid.
type Page struct {
	Title  string
	Charts []*Chart
}

// NewPage creates an empty page with the given window title.
func NewPage(title string) *Page {
	return &Page{
		Title: title,
	}
}

// AddChart appends a chart to the page content.
func (p *Page) AddChart(c *Chart) {
	p.Charts = append(p.Charts, c)
}

// Render writes the page as a standalone HTML document.
func (p *Page) Render(w io.Writer) error {
	doc := components.NewPage()
	doc.SetLayout(components.PageCenterLayout)
	doc.SetPageTitle(p.Title)

	for _, c := range p.Charts {
		doc.AddCharts(c.Build())
	}

	return doc.Render(w)
}
