package documents

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ternarybob/officeflow/internal/interfaces"
)

// Format is the declared input format of an uploaded data file
type Format string

const utf8BOM = "\ufeff"

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Table is an ordered sequence of row objects with a stable column order
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// DetectFormat picks the input format from the file extension, falling back to content
func DetectFormat(fileName string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".json":
		return FormatJSON
	case ".csv", ".txt":
		return FormatCSV
	}
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte(utf8BOM)))
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatCSV
}

// ParseRows decodes data in the given format into a Table
func ParseRows(data []byte, format Format) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, interfaces.NewValidationError("file is empty")
	}

	switch format {
	case FormatJSON:
		return parseJSONRows(data)
	case FormatCSV:
		return parseCSVRows(data)
	default:
		return nil, interfaces.NewValidationErrorf("unsupported file format", "%q", format)
	}
}

// parseJSONRows accepts an array of objects, a single object, or an object
// wrapping the array under "rows", "items" or "data". Column order follows
// first appearance in the source.
func parseJSONRows(data []byte) (*Table, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		var probe interface{}
		err := json.Unmarshal(trimmed, &probe)
		return nil, interfaces.NewValidationErrorf("invalid JSON", "%v", err)
	}

	var elems []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, interfaces.NewValidationErrorf("invalid JSON", "%v", err)
		}
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, interfaces.NewValidationErrorf("invalid JSON", "%v", err)
		}
		elems = []json.RawMessage{trimmed}
		for _, key := range []string{"rows", "items", "data"} {
			if v, ok := wrapper[key]; ok && bytes.HasPrefix(bytes.TrimSpace(v), []byte("[")) {
				elems = nil
				if err := json.Unmarshal(v, &elems); err != nil {
					return nil, interfaces.NewValidationErrorf("invalid JSON", "%v", err)
				}
				break
			}
		}
	default:
		return nil, interfaces.NewValidationError("JSON must be an array of objects")
	}

	table := &Table{}
	seen := make(map[string]bool)
	for i, elem := range elems {
		keys, row, err := decodeOrderedObject(elem)
		if err != nil {
			return nil, interfaces.NewValidationErrorf("JSON must be an array of objects", "element %d: %v", i, err)
		}
		for _, key := range keys {
			if !seen[key] {
				seen[key] = true
				table.Headers = append(table.Headers, key)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, interfaces.NewValidationError("file contains no rows")
	}
	return table, nil
}

// decodeOrderedObject reads one JSON object keeping key order
func decodeOrderedObject(data json.RawMessage) ([]string, map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("not an object")
	}

	var keys []string
	row := make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := keyTok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = stringify(value)
	}
	return keys, row, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

func parseCSVRows(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, interfaces.NewValidationErrorf("invalid CSV", "%v", err)
	}

	table := &Table{}
	for _, h := range header {
		table.Headers = append(table.Headers, strings.TrimSpace(h))
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, interfaces.NewValidationErrorf("invalid CSV", "%v", err)
		}
		if isBlankRecord(record) {
			continue
		}

		row := make(map[string]string, len(table.Headers))
		for i, h := range table.Headers {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, interfaces.NewValidationError("file contains no rows")
	}
	return table, nil
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
