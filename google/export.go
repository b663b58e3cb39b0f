package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/machinelog/machinelog-app-sheets/log"
	"github.com/machinelog/machinelog-app-sheets/report"
)

const ExportURL = "https://docs.google.com/spreadsheets/d"

// Exporter downloads a single worksheet through the spreadsheet export endpoint, authenticated
// with a bearer token.
//
// The endpoint honours gid for PDF but exports every sheet for XLSX. If Sheets is set, an XLSX
// export copies the sheet to a temporary spreadsheet first and exports that instead. The
// temporary spreadsheet is deleted afterwards through Drive.
type Exporter struct {
	Client  *http.Client
	Tokens  oauth2.TokenSource
	BaseURL string
	Sheets  *sheets.Service
	Drive   *drive.Service
}

func (x *Exporter) Export(ctx context.Context, workbook string, sheet report.Sheet, format report.Format) (report.Artifact, error) {
	if format == report.XLSX && x.Sheets != nil {
		tmp, gid, err := x.isolate(ctx, workbook, sheet)
		if err != nil {
			return report.Artifact{}, err
		}

		defer x.discard(ctx, tmp)

		workbook = tmp
		sheet.ID = gid
	}

	return x.export(ctx, workbook, sheet, format)
}

func (x *Exporter) export(ctx context.Context, workbook string, sheet report.Sheet, format report.Format) (report.Artifact, error) {
	uri, err := x.url(workbook, sheet, format)
	if err != nil {
		return report.Artifact{}, err
	}

	token, err := x.Tokens.Token()
	if err != nil {
		return report.Artifact{}, errors.Wrap(err, "unable to retrieve access token")
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return report.Artifact{}, errors.WithStack(err)
	}

	rq.Header.Add("Authorization", "Bearer "+token.AccessToken)

	client := x.Client
	if client == nil {
		client = http.DefaultClient
	}

	response, err := client.Do(rq)
	if err != nil {
		return report.Artifact{}, errors.WithStack(err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return report.Artifact{}, fmt.Errorf("export request failed (%v): %s", response.Status, body)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return report.Artifact{}, errors.WithStack(err)
	}

	mimetype := response.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = format.MimeType()
	}

	return report.Artifact{
		MimeType: mimetype,
		Data:     data,
	}, nil
}

// isolate copies the sheet to a new spreadsheet holding only that sheet, under its original
// title, and returns the new spreadsheet and sheet IDs.
func (x *Exporter) isolate(ctx context.Context, workbook string, sheet report.Sheet) (string, int64, error) {
	created, err := x.Sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: sheet.Title,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", 0, errors.Wrap(err, "unable to create export spreadsheet")
	}

	tmp := created.SpreadsheetId

	log.Debugf("copying sheet '%v' to export spreadsheet %v", sheet.Title, tmp)

	rq := sheets.CopySheetToAnotherSpreadsheetRequest{
		DestinationSpreadsheetId: tmp,
	}

	copied, err := x.Sheets.Spreadsheets.Sheets.CopyTo(workbook, sheet.ID, &rq).Context(ctx).Do()
	if err != nil {
		x.discard(ctx, tmp)
		return "", 0, errors.Wrapf(err, "unable to copy sheet '%v' for export", sheet.Title)
	}

	requests := []*sheets.Request{}
	for _, s := range created.Sheets {
		if s.Properties != nil {
			requests = append(requests, &sheets.Request{
				DeleteSheet: &sheets.DeleteSheetRequest{
					SheetId:         s.Properties.SheetId,
					ForceSendFields: []string{"SheetId"},
				},
			})
		}
	}

	requests = append(requests, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:         copied.SheetId,
				Title:           sheet.Title,
				ForceSendFields: []string{"SheetId"},
			},
			Fields: "title",
		},
	})

	batch := sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	if _, err := x.Sheets.Spreadsheets.BatchUpdate(tmp, &batch).Context(ctx).Do(); err != nil {
		x.discard(ctx, tmp)
		return "", 0, errors.Wrapf(err, "unable to prepare export spreadsheet %v", tmp)
	}

	return tmp, copied.SheetId, nil
}

func (x *Exporter) discard(ctx context.Context, spreadsheet string) {
	if x.Drive == nil {
		log.Warnf("Export spreadsheet %v not deleted (no Drive service)", spreadsheet)
		return
	}

	if err := x.Drive.Files.Delete(spreadsheet).Context(ctx).Do(); err != nil {
		log.Warnf("Could not delete export spreadsheet %v (%v)", spreadsheet, err)
	} else {
		log.Debugf("deleted export spreadsheet %v", spreadsheet)
	}
}

func (x *Exporter) url(workbook string, sheet report.Sheet, format report.Format) (string, error) {
	base := x.BaseURL
	if base == "" {
		base = ExportURL
	}

	u, err := url.Parse(fmt.Sprintf("%v/%v/export", base, url.PathEscape(workbook)))
	if err != nil {
		return "", errors.WithStack(err)
	}

	q := url.Values{}
	q.Set("format", string(format))
	q.Set("gid", fmt.Sprintf("%v", sheet.ID))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
