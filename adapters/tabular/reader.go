package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salescope/domain/sales"
	"salescope/internal"
	"salescope/internal/errors"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Reader reads CSV and XLSX files into raw tables. It implements
// ports.TableSource and is the only part of the module touching the
// filesystem.
type Reader struct {
	config   ReaderConfig
	fileType string // "csv" or "xlsx"
	log      *internal.Logger
}

// NewReader creates a reader, picking the file type from the path extension
func NewReader(config ReaderConfig) *Reader {
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(config.Path)) {
	case ".xlsx", ".xlsm":
		fileType = "xlsx"
	}
	return &Reader{
		config:   config,
		fileType: fileType,
		log:      internal.DefaultLogger.WithComponent("tabular"),
	}
}

// NewCSVReader creates a reader that parses the file as CSV regardless of extension
func NewCSVReader(config ReaderConfig) *Reader {
	r := NewReader(config)
	r.fileType = "csv"
	return r
}

// NewExcelReader creates a reader that parses the file as XLSX regardless of extension
func NewExcelReader(config ReaderConfig) *Reader {
	r := NewReader(config)
	r.fileType = "xlsx"
	return r
}

// ReadTable reads the configured file into a raw table
func (r *Reader) ReadTable(ctx context.Context) (*sales.RawTable, error) {
	if strings.TrimSpace(r.config.Path) == "" {
		return nil, errors.InvalidInput("no input path configured")
	}
	if _, err := os.Stat(r.config.Path); os.IsNotExist(err) {
		return nil, errors.FileNotFound(r.config.Path)
	}

	switch r.fileType {
	case "xlsx":
		return r.readExcel(ctx)
	default:
		return r.readCSV(ctx)
	}
}

// readCSV reads CSV data through the configured charset decoder
func (r *Reader) readCSV(ctx context.Context) (*sales.RawTable, error) {
	file, err := os.Open(r.config.Path)
	if err != nil {
		return nil, errors.FileRead(r.config.Path, err)
	}
	defer file.Close()

	decoder, err := decoderFor(r.config.Encoding)
	if err != nil {
		return nil, err
	}
	var src io.Reader = file
	if decoder != nil {
		src = transform.NewReader(file, decoder)
	}

	readStart := time.Now()
	reader := csv.NewReader(src)
	var rows [][]string
	for i := 0; ; i++ {
		// Large files can take a while; honor cancellation between batches.
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WithCode(errors.CodeBadFormat, err)
		}
		rows = append(rows, record)
	}
	readTime := time.Since(readStart)
	r.log.Info("CSV file read in %.2fms (%d rows, encoding %s)",
		float64(readTime.Nanoseconds())/1e6, len(rows), r.config.Encoding)

	return r.buildTable(rows)
}

// readExcel reads the configured worksheet from an XLSX file
func (r *Reader) readExcel(ctx context.Context) (*sales.RawTable, error) {
	openStart := time.Now()
	f, err := excelize.OpenFile(r.config.Path)
	if err != nil {
		return nil, errors.FileRead(r.config.Path, err)
	}
	defer f.Close()
	r.log.Debug("Excel file opened in %.2fms", float64(time.Since(openStart).Nanoseconds())/1e6)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	readStart := time.Now()
	rows, err := f.GetRows(r.config.Sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", r.config.Sheet)
	}
	r.log.Info("sheet %s read in %.2fms (%d rows)",
		r.config.Sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.buildTable(rows)
}

// buildTable converts raw string rows into a RawTable
func (r *Reader) buildTable(rows [][]string) (*sales.RawTable, error) {
	if len(rows) < 2 {
		return nil, errors.BadFormat("table must have a header row and at least one data row")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]map[string]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(map[string]string, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				if r.config.TrimCells {
					cell = strings.TrimSpace(cell)
				}
				rowData[headers[j]] = cell
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.log.Info("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &sales.RawTable{Headers: headers, Rows: dataRows}, nil
}

// decoderFor maps an encoding name to its charset decoder. A nil decoder
// means the input is consumed as-is (UTF-8).
func decoderFor(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	}
	return nil, errors.BadEncoding(name)
}
