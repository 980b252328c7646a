package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteXLSX writes each table to its own sheet of one workbook.
func WriteXLSX(path string, tables ...Table) error {
	f := xlsx.NewFile()
	for _, t := range tables {
		sheet, err := f.AddSheet(t.Name)
		if err != nil {
			return eris.Wrapf(err, "xlsx export: add sheet %s", t.Name)
		}

		header := sheet.AddRow()
		for _, h := range t.Header {
			header.AddCell().SetString(h)
		}

		for _, cells := range t.Rows {
			row := sheet.AddRow()
			for _, c := range cells {
				setCell(row.AddCell(), c)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx export: save %s", path)
	}
	return nil
}

func setCell(cell *xlsx.Cell, v any) {
	switch x := v.(type) {
	case int:
		cell.SetInt(x)
	case float64:
		cell.SetFloat(x)
	default:
		cell.SetString(formatCell(v))
	}
}
