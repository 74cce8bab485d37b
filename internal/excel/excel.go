// Package excel converts the medicine catalog to and from .xlsx workbooks.
package excel

import (
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tealeg/xlsx"

	"medicare/internal/domain"
	"medicare/internal/store"
)

const (
	SheetName   = "Medicines"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Columns is the header row written by Export, in order. Import looks
// columns up by header so their order in the workbook does not matter.
var Columns = []string{
	"id", "name", "description", "category", "price",
	"stock", "expiry_date", "manufacturer", "requires_prescription",
}

var requiredColumns = []string{"name", "price", "stock", "expiry_date"}

// ErrNoSheet is returned for workbooks without a header row.
var ErrNoSheet = errors.New("workbook is empty or missing header row")

// Build lays the medicines out on a single sheet.
func Build(meds []domain.Medicine) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return nil, errors.Wrap(err, "add sheet")
	}

	header := sheet.AddRow()
	for _, h := range Columns {
		header.AddCell().SetString(h)
	}
	for _, m := range meds {
		row := sheet.AddRow()
		row.AddCell().SetString(m.ID)
		row.AddCell().SetString(m.Name)
		row.AddCell().SetString(m.Description)
		row.AddCell().SetString(m.Category)
		row.AddCell().SetFloat(m.Price)
		row.AddCell().SetInt(m.Stock)
		row.AddCell().SetString(m.ExpiryDate)
		row.AddCell().SetString(m.Manufacturer)
		row.AddCell().SetBool(m.RequiresPrescription)
	}
	return file, nil
}

// Export writes the medicines as an xlsx workbook to w.
func Export(w io.Writer, meds []domain.Medicine) error {
	file, err := Build(meds)
	if err != nil {
		return err
	}
	return errors.Wrap(file.Write(w), "write workbook")
}

// ExportFile saves the workbook at path.
func ExportFile(path string, meds []domain.Medicine) error {
	file, err := Build(meds)
	if err != nil {
		return err
	}
	return errors.Wrapf(file.Save(path), "save %s", path)
}

// Result is what an import read from the first sheet.
type Result struct {
	Records []store.Record
	Skipped int
}

// Import reads medicine records from an uploaded workbook.
func Import(r io.ReaderAt, size int64) (Result, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return Result{}, errors.Wrap(err, "parse workbook")
	}
	return read(file)
}

// ImportFile reads medicine records from the workbook at path.
func ImportFile(path string) (Result, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "open %s", path)
	}
	return read(file)
}

// read maps the first sheet to records. Rows missing a required value or
// with a non-numeric price or stock are counted as skipped. Rows without
// an id get a fresh one.
func read(file *xlsx.File) (Result, error) {
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) == 0 {
		return Result{}, ErrNoSheet
	}
	sheet := file.Sheets[0]

	cols := make(map[string]int)
	for i, c := range sheet.Rows[0].Cells {
		name := strings.ToLower(strings.TrimSpace(c.Value))
		cols[strings.ReplaceAll(name, " ", "_")] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return Result{}, errors.Errorf("missing column %q", c)
		}
	}

	var res Result
	for _, row := range sheet.Rows[1:] {
		if row == nil || blank(row) {
			continue
		}
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(row.Cells) || row.Cells[i] == nil {
				return ""
			}
			return strings.TrimSpace(row.Cells[i].Value)
		}

		name, expiry := get("name"), get("expiry_date")
		price, err1 := strconv.ParseFloat(get("price"), 64)
		stock, err2 := strconv.ParseFloat(get("stock"), 64)
		if name == "" || expiry == "" || err1 != nil || err2 != nil || price < 0 || stock < 0 {
			res.Skipped++
			continue
		}

		id := get("id")
		if id == "" {
			id = uuid.NewString()
		}
		category := get("category")
		if category == "" {
			category = domain.DefaultCategory
		}
		rec := store.Record{
			"id":                    id,
			"name":                  name,
			"description":           get("description"),
			"category":              category,
			"price":                 price,
			"stock":                 int(stock),
			"expiry_date":           expiryString(expiry, file.Date1904),
			"requires_prescription": truthy(get("requires_prescription")),
		}
		if m := get("manufacturer"); m != "" {
			rec["manufacturer"] = m
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// expiryString turns a date typed into a spreadsheet (a serial number)
// back into YYYY-MM-DD. Anything else is kept as written.
func expiryString(raw string, date1904 bool) string {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 {
		return raw
	}
	return xlsx.TimeFromExcelTime(serial, date1904).Format(domain.DateLayout)
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func blank(row *xlsx.Row) bool {
	for _, c := range row.Cells {
		if c != nil && strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}
