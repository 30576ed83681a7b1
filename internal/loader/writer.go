package loader

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/foodchain"
)

// WriteTableCSV writes a joined index table to a CSV file named after the
// index, e.g. results/F1.csv. Columns are BT_ID, the index's count
// columns, then <INDEX>_RESULT.
func WriteTableCSV(table *foodchain.Table, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			Context("operation", "create-output-dir").
			Build()
	}

	path := filepath.Join(dir, table.Index+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", filepath.Base(path)).
			Build()
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := append([]string{"BT_ID"}, table.CountColumns...)
	header = append(header, table.Index+"_RESULT")
	if err := writer.Write(header); err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", filepath.Base(path)).
			Build()
	}

	for i := range table.Rows {
		row := table.Rows[i]
		record := make([]string, 0, len(header))
		record = append(record, row.ZoneID)
		for _, column := range table.CountColumns {
			record = append(record, strconv.FormatFloat(row.Count(column), 'f', -1, 64))
		}
		record = append(record, strconv.FormatFloat(row.Result, 'f', -1, 64))
		if err := writer.Write(record); err != nil {
			return "", errors.New(err).
				Category(errors.CategoryFileIO).
				Context("path", filepath.Base(path)).
				Build()
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", filepath.Base(path)).
			Build()
	}

	return path, nil
}
