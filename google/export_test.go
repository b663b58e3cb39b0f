package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/machinelog/machinelog-app-sheets/report"
)

func TestExport(t *testing.T) {
	var auth, path, format, gid string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		auth = rq.Header.Get("Authorization")
		path = rq.URL.Path
		format = rq.URL.Query().Get("format")
		gid = rq.URL.Query().Get("gid")

		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))

	defer srv.Close()

	exporter := Exporter{
		Client:  srv.Client(),
		Tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty"}),
		BaseURL: srv.URL,
	}

	artifact, err := exporter.Export(context.Background(), "abc123", report.Sheet{ID: 1234, Title: "Weekly Maintenance Report"}, report.PDF)

	require.NoError(t, err)
	assert.Equal(t, "Bearer qwerty", auth)
	assert.Equal(t, "/abc123/export", path)
	assert.Equal(t, "pdf", format)
	assert.Equal(t, "1234", gid)
	assert.Equal(t, "application/pdf", artifact.MimeType)
	assert.Equal(t, []byte("%PDF-1.4"), artifact.Data)
}

func TestExportWithZeroSheetID(t *testing.T) {
	var gid string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		gid = rq.URL.Query().Get("gid")
		w.Write([]byte("PK"))
	}))

	defer srv.Close()

	exporter := Exporter{
		Client:  srv.Client(),
		Tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty"}),
		BaseURL: srv.URL,
	}

	_, err := exporter.Export(context.Background(), "abc123", report.Sheet{ID: 0}, report.XLSX)

	require.NoError(t, err)
	assert.Equal(t, "0", gid)
}

func TestExportWithHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	defer srv.Close()

	exporter := Exporter{
		Client:  srv.Client(),
		Tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty"}),
		BaseURL: srv.URL,
	}

	_, err := exporter.Export(context.Background(), "abc123", report.Sheet{ID: 1}, report.PDF)

	assert.ErrorContains(t, err, "403")
}

func TestExportURL(t *testing.T) {
	exporter := Exporter{}

	url, err := exporter.url("abc123", report.Sheet{ID: 77}, report.XLSX)

	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/export?format=xlsx&gid=77", url)
}

func TestExportXLSXCopiesSheetToTemporarySpreadsheet(t *testing.T) {
	var requests []string
	var batch sheets.BatchUpdateSpreadsheetRequest
	var copyTo sheets.CopySheetToAnotherSpreadsheetRequest
	var gid string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		requests = append(requests, rq.Method+" "+rq.URL.Path)

		w.Header().Set("Content-Type", "application/json")

		switch rq.Method + " " + rq.URL.Path {
		case "POST /v4/spreadsheets":
			w.Write([]byte(`{"spreadsheetId":"tmp-1","sheets":[{"properties":{"sheetId":0,"title":"Sheet1"}}]}`))

		case "POST /v4/spreadsheets/abc123/sheets/1234:copyTo":
			json.NewDecoder(rq.Body).Decode(&copyTo)
			w.Write([]byte(`{"sheetId":5678,"title":"Copy of Weekly Maintenance Report"}`))

		case "POST /v4/spreadsheets/tmp-1:batchUpdate":
			json.NewDecoder(rq.Body).Decode(&batch)
			w.Write([]byte(`{"spreadsheetId":"tmp-1"}`))

		case "GET /tmp-1/export":
			gid = rq.URL.Query().Get("gid")
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Write([]byte("PK"))

		case "DELETE /files/tmp-1":
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))

	defer srv.Close()

	sheetsService, err := sheets.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	driveService, err := drive.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	exporter := Exporter{
		Client:  srv.Client(),
		Tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty"}),
		BaseURL: srv.URL,
		Sheets:  sheetsService,
		Drive:   driveService,
	}

	artifact, err := exporter.Export(context.Background(), "abc123", report.Sheet{ID: 1234, Title: "Weekly Maintenance Report"}, report.XLSX)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /v4/spreadsheets",
		"POST /v4/spreadsheets/abc123/sheets/1234:copyTo",
		"POST /v4/spreadsheets/tmp-1:batchUpdate",
		"GET /tmp-1/export",
		"DELETE /files/tmp-1",
	}, requests)

	assert.Equal(t, "tmp-1", copyTo.DestinationSpreadsheetId)
	assert.Equal(t, "5678", gid)
	assert.Equal(t, []byte("PK"), artifact.Data)

	require.Len(t, batch.Requests, 2)
	require.NotNil(t, batch.Requests[0].DeleteSheet)
	assert.Equal(t, int64(0), batch.Requests[0].DeleteSheet.SheetId)
	require.NotNil(t, batch.Requests[1].UpdateSheetProperties)
	assert.Equal(t, int64(5678), batch.Requests[1].UpdateSheetProperties.Properties.SheetId)
	assert.Equal(t, "Weekly Maintenance Report", batch.Requests[1].UpdateSheetProperties.Properties.Title)
}

func TestExportPDFDoesNotCopySheet(t *testing.T) {
	var requests []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		requests = append(requests, rq.Method+" "+rq.URL.Path)
		w.Write([]byte("%PDF-1.4"))
	}))

	defer srv.Close()

	sheetsService, err := sheets.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	exporter := Exporter{
		Client:  srv.Client(),
		Tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty"}),
		BaseURL: srv.URL,
		Sheets:  sheetsService,
	}

	_, err = exporter.Export(context.Background(), "abc123", report.Sheet{ID: 1234}, report.PDF)

	require.NoError(t, err)
	assert.Equal(t, []string{"GET /abc123/export"}, requests)
}

func TestExportXLSXDeletesTemporarySpreadsheetOnCopyError(t *testing.T) {
	var requests []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		requests = append(requests, rq.Method+" "+rq.URL.Path)

		switch rq.Method + " " + rq.URL.Path {
		case "POST /v4/spreadsheets":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"spreadsheetId":"tmp-1"}`))

		case "DELETE /files/tmp-1":
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "forbidden", http.StatusForbidden)
		}
	}))

	defer srv.Close()

	sheetsService, err := sheets.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	driveService, err := drive.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	exporter := Exporter{
		Client:  srv.Client(),
		Tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty"}),
		BaseURL: srv.URL,
		Sheets:  sheetsService,
		Drive:   driveService,
	}

	_, err = exporter.Export(context.Background(), "abc123", report.Sheet{ID: 1234, Title: "Weekly Maintenance Report"}, report.XLSX)

	require.Error(t, err)
	assert.Equal(t, []string{
		"POST /v4/spreadsheets",
		"POST /v4/spreadsheets/abc123/sheets/1234:copyTo",
		"DELETE /files/tmp-1",
	}, requests)
}
