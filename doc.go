// Copyright 2024 machinelog. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package machinelog-app-sheets generates machine maintenance documents and reports from the responses
to a maintenance Google Form stored in a Google Sheets spreadsheet.

machinelog-app-sheets can be used from the command line but the report command is really intended to be
run from a cron job to send the weekly maintenance report.

machinelog-app-sheets supports the following commands:

  - authorise, to authorise application access to Google Sheets, Docs, Drive and Gmail
  - create-document, to create a Google Doc for a worksheet row and link it into the row
  - copy-row, to print the text version of a worksheet row for pasting into a message
  - report, to rebuild the report worksheet, export it as PDF or Excel and e-mail it
  - version, to display the current version

The report command also runs against a local Excel workbook (--workbook), in which case the report is
exported as an Excel file.
*/
package sheets
