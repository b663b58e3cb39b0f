package xlsx

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/machinelog/machinelog-app-sheets/report"
)

// Exporter extracts a single worksheet from a local workbook as a standalone XLSX file. The
// worksheet formatting (column widths and conditional formats) is preserved. PDF rendering
// needs the spreadsheet service and is not supported for local workbooks.
type Exporter struct {
	Workbook *Workbook
}

func (x *Exporter) Export(ctx context.Context, workbook string, sheet report.Sheet, format report.Format) (report.Artifact, error) {
	if format != report.XLSX {
		return report.Artifact{}, fmt.Errorf("%v export is not supported for local workbooks", format)
	}

	if workbook != x.Workbook.ID() {
		return report.Artifact{}, fmt.Errorf("unknown workbook %v", workbook)
	}

	b, err := x.Workbook.file.WriteToBuffer()
	if err != nil {
		return report.Artifact{}, errors.WithStack(err)
	}

	f, err := excelize.OpenReader(b)
	if err != nil {
		return report.Artifact{}, errors.WithStack(err)
	}

	defer f.Close()

	if index, err := f.GetSheetIndex(sheet.Title); err != nil {
		return report.Artifact{}, errors.WithStack(err)
	} else if index < 0 {
		return report.Artifact{}, fmt.Errorf("no worksheet named '%v'", sheet.Title)
	}

	for _, title := range f.GetSheetList() {
		if title != sheet.Title {
			if err := f.DeleteSheet(title); err != nil {
				return report.Artifact{}, errors.WithStack(err)
			}
		}
	}

	f.SetActiveSheet(0)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return report.Artifact{}, errors.WithStack(err)
	}

	return report.Artifact{
		MimeType: format.MimeType(),
		Data:     buffer.Bytes(),
	}, nil
}
