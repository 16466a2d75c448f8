package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/mokaihq/essential-eight/internal/report"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateExecutiveReport(ctx context.Context, r *report.ExecutiveReport) (io.Reader, error) {
	if r == nil {
		return nil, fmt.Errorf("nil report")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Essential Eight Compliance Report", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(r.Organization.Name, props.Text{Style: fontstyle.Bold}),
			text.New("ABN: "+r.Organization.ABN, props.Text{Top: 5}),
			text.New("Generated: "+r.GeneratedAt.Format("2 January 2006"), props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Overall maturity: %d%%", r.OverallMaturity), props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(3, fmt.Sprintf("Fully implemented: %d", r.FullyImplemented), props.Text{Size: 9}),
		text.NewCol(3, fmt.Sprintf("Largely or fully: %d", r.LargelyOrFully), props.Text{Size: 9}),
		text.NewCol(3, fmt.Sprintf("Needs attention: %d", r.NeedsAttention), props.Text{Size: 9}),
		text.NewCol(3, fmt.Sprintf("Not implemented: %d", r.NotImplemented), props.Text{Size: 9}),
	)

	m.AddRow(8,
		text.NewCol(12, "Key findings", props.Text{Size: 12, Style: fontstyle.Bold, Top: 2}),
	)
	for _, finding := range r.KeyFindings {
		m.AddRow(6,
			text.NewCol(12, "- "+finding, props.Text{Size: 9}),
		)
	}

	m.AddRow(10,
		text.NewCol(12, "Control detail", props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}),
	)
	m.AddRow(8,
		text.NewCol(1, "#", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(5, "Control", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Maturity", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "%", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Next review", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, section := range r.Controls {
		m.AddRow(8,
			text.NewCol(1, fmt.Sprintf("%d", section.Position), props.Text{Size: 9}),
			text.NewCol(5, section.Name, props.Text{Size: 9}),
			text.NewCol(3, fmt.Sprintf("%s (%d)", section.MaturityName, section.MaturityLevel), props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", section.ProgressPercent), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, section.NextReview.Format("02 Jan 2006"), props.Text{Size: 9, Align: align.Right}),
		)
		m.AddRow(6,
			col.New(1),
			text.NewCol(11, section.Evidence, props.Text{Size: 8}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
