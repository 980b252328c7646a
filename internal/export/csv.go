package export

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
)

// WriteCSV writes a table as a CSV file with a header row.
func WriteCSV(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csv export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(t.Header); err != nil {
		return eris.Wrap(err, "csv export: write header")
	}

	row := make([]string, len(t.Header))
	for _, cells := range t.Rows {
		for i, c := range cells {
			row[i] = formatCell(c)
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "csv export: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "csv export: flush")
}
