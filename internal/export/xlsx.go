// Package export renders the ticket collection as a spreadsheet workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/report-desk/internal/domain"
)

const (
	// SheetName is the only sheet of the workbook.
	SheetName = "Tickets"
	// Filename is the suggested download name.
	Filename = "tickets_report.xlsx"
	// ContentType is the MIME type of the workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timestampLayout = "2006/01/02 15:04"
)

// Header lists the column titles in order.
var Header = []string{
	"ID", "Title", "Description", "Status", "Created_At",
	"Priority", "Category", "Location", "Reported_By", "Phone", "Assigned_To",
}

// Row converts one ticket to its spreadsheet cells. Timestamps are rendered
// in loc.
func Row(t domain.Ticket, loc *time.Location) []interface{} {
	if loc == nil {
		loc = time.UTC
	}
	return []interface{}{
		t.TicketNumber,
		t.Title,
		t.Description,
		string(t.Status),
		t.CreatedAt.In(loc).Format(timestampLayout),
		string(t.Priority),
		t.Category,
		t.Location,
		t.ReportedBy,
		t.Phone,
		t.AssignedTo,
	}
}

// Workbook builds an in-memory workbook with one row per ticket in the given
// order. The caller closes it.
func Workbook(tickets []domain.Ticket, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, t := range tickets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := Row(t, loc)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

// Write renders the workbook to w.
func Write(w io.Writer, tickets []domain.Ticket, loc *time.Location) error {
	f, err := Workbook(tickets, loc)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveAs renders the workbook to a file at path.
func SaveAs(path string, tickets []domain.Ticket, loc *time.Location) error {
	f, err := Workbook(tickets, loc)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
