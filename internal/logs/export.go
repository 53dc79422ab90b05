package logs

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ternarybob/officeflow/internal/models"
)

// csvHeader keeps the column names the dashboard users already know
var csvHeader = []string{"날짜", "시간", "타입", "레벨", "메시지", "에러코드", "응답시간(ms)"}

// utf8BOM lets spreadsheet applications detect the encoding of the Korean header
const utf8BOM = "\ufeff"

// WriteCSV writes entries as CSV. Quotes inside fields are escaped as "".
func WriteCSV(w io.Writer, entries []*models.LogEntry) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range entries {
		local := e.Timestamp.Local()
		responseTime := ""
		if e.ResponseTime != nil {
			responseTime = strconv.FormatInt(*e.ResponseTime, 10)
		}
		record := []string{
			local.Format(dateLayout),
			local.Format("15:04:05"),
			string(e.Type),
			e.Level,
			e.Message,
			e.ErrorCode,
			responseTime,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", e.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
