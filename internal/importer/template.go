package importer

// template.go produces downloadable import templates: a header-only
// file per entity kind, as CSV or XLSX.

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var companyTemplateColumns = []string{
	"Company Name", "Email", "Phone", "Address", "City", "Country", "Website", "Description",
}

var contactTemplateColumns = []string{
	"First Name", "Last Name", "Email", "Phone", "Job Title", "Company Name",
}

// TemplateColumns returns the header columns for an entity kind
// ("company" or "contact").
func TemplateColumns(entity string) ([]string, error) {
	switch entity {
	case "company", "companies":
		return companyTemplateColumns, nil
	case "contact", "contacts":
		return contactTemplateColumns, nil
	}
	return nil, fmt.Errorf("unknown template entity: %q", entity)
}

// WriteTemplateCSV writes the header-only CSV template for an entity.
func WriteTemplateCSV(w io.Writer, entity string) error {
	columns, err := TemplateColumns(entity)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplateXLSX writes the header-only XLSX template for an entity.
// The sheet name matches the entity so the file is self-describing.
func WriteTemplateXLSX(w io.Writer, entity string) error {
	columns, err := TemplateColumns(entity)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("template cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("set template header: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx template: %w", err)
	}
	return nil
}
