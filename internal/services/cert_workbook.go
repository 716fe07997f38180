package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/codyseavey/tcg-catalog/internal/models"
)

// CertNumberColumn must be present in an uploaded cert workbook
const CertNumberColumn = "cert_number"

// CertWorkbookSheet is the sheet name of an exported workbook
const CertWorkbookSheet = "Certs"

// AugmentedColumns are filled in from successful lookups
var AugmentedColumns = []string{"grade", "serial_number", "card_name"}

var (
	ErrMissingCertColumn = errors.New("workbook must have a 'cert_number' column")
	ErrEmptyWorkbook     = errors.New("workbook has no sheets or no header row")
)

// CertWorkbook is the first sheet of an uploaded workbook
type CertWorkbook struct {
	Header  []string
	Rows    [][]string
	certCol int
}

// ReadCertWorkbook parses an .xlsx upload and locates its cert_number column
func ReadCertWorkbook(r io.Reader) (*CertWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	wb := &CertWorkbook{Header: rows[0], certCol: -1}
	for i, name := range wb.Header {
		if strings.EqualFold(strings.TrimSpace(name), CertNumberColumn) {
			wb.certCol = i
			break
		}
	}
	if wb.certCol < 0 {
		return nil, ErrMissingCertColumn
	}

	for _, row := range rows[1:] {
		padded := make([]string, len(wb.Header))
		copy(padded, row)
		wb.Rows = append(wb.Rows, padded)
	}
	return wb, nil
}

func (wb *CertWorkbook) certAt(row []string) string {
	return strings.TrimSpace(row[wb.certCol])
}

// CertNumbers returns the distinct non-blank cert numbers in first-appearance order
func (wb *CertWorkbook) CertNumbers() []string {
	seen := make(map[string]bool)
	var certs []string
	for _, row := range wb.Rows {
		cert := wb.certAt(row)
		if cert == "" || seen[cert] {
			continue
		}
		seen[cert] = true
		certs = append(certs, cert)
	}
	return certs
}

// Augment returns the workbook with grade, serial_number and card_name filled
// from successful results. Columns already present are overwritten in place.
func (wb *CertWorkbook) Augment(results []models.CertLookupResult) ([]string, [][]string) {
	byCert := make(map[string]*models.CertRecord, len(results))
	for _, r := range results {
		if r.OK() {
			byCert[r.CertNumber] = r.Record
		}
	}

	header := append([]string(nil), wb.Header...)
	cols := make([]int, len(AugmentedColumns))
	for i, name := range AugmentedColumns {
		cols[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			cols[i] = len(header)
			header = append(header, name)
		}
	}

	rows := make([][]string, 0, len(wb.Rows))
	for _, src := range wb.Rows {
		row := make([]string, len(header))
		copy(row, src)
		if rec, ok := byCert[wb.certAt(src)]; ok {
			row[cols[0]] = rec.Grade
			row[cols[1]] = rec.SerialNumber
			row[cols[2]] = rec.CardName
		}
		rows = append(rows, row)
	}
	return header, rows
}

// Preview builds the JSON response for a batch lookup
func (wb *CertWorkbook) Preview(results []models.CertLookupResult) models.CertBatchResponse {
	header, rows := wb.Augment(results)
	resp := models.CertBatchResponse{
		Found:   len(wb.CertNumbers()),
		Results: results,
		Header:  header,
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, r := range results {
		if r.OK() {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	for _, row := range rows {
		m := make(map[string]string, len(header))
		for i, h := range header {
			m[h] = row[i]
		}
		resp.Rows = append(resp.Rows, m)
	}
	return resp
}

// WriteAugmented writes the augmented workbook as .xlsx
func (wb *CertWorkbook) WriteAugmented(w io.Writer, results []models.CertLookupResult) error {
	header, rows := wb.Augment(results)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CertWorkbookSheet); err != nil {
		return err
	}
	if err := writeSheetRow(f, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(CertWorkbookSheet, cell, &row)
}
