package tabular

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"salescope/internal/errors"

	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestReadCSVLatin1(t *testing.T) {
	// Raw Latin-1 bytes: 0xE9 is é, invalid as standalone UTF-8.
	data := append([]byte("Order ID,R"), 0xE9)
	data = append(data, []byte("gion\nA-1,Qu")...)
	data = append(data, 0xE9)
	data = append(data, []byte("bec\n")...)

	config := DefaultReaderConfig()
	config.Path = writeTempFile(t, "export.csv", data)

	reader := NewReader(config)
	table, err := reader.ReadTable(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if table.Headers[1] != "Région" {
		t.Errorf("Expected decoded header Région, got %q", table.Headers[1])
	}
	if got := table.Rows[0]["Région"]; got != "Québec" {
		t.Errorf("Expected decoded cell Québec, got %q", got)
	}
}

func TestReadCSVUTF8Passthrough(t *testing.T) {
	config := DefaultReaderConfig()
	config.Encoding = "utf-8"
	config.Path = writeTempFile(t, "export.csv", []byte("Order ID,Région\nA-1,Québec\n"))

	reader := NewReader(config)
	table, err := reader.ReadTable(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := table.Rows[0]["Région"]; got != "Québec" {
		t.Errorf("Expected Québec, got %q", got)
	}
}

func TestReadCSVUnknownEncoding(t *testing.T) {
	config := DefaultReaderConfig()
	config.Encoding = "ebcdic"
	config.Path = writeTempFile(t, "export.csv", []byte("A,B\n1,2\n"))

	reader := NewReader(config)
	_, err := reader.ReadTable(context.Background())
	if err == nil {
		t.Fatal("Expected error for unsupported encoding")
	}
	if errors.GetCode(err) != errors.CodeBadEncoding {
		t.Errorf("Expected code %s, got %s", errors.CodeBadEncoding, errors.GetCode(err))
	}
}

func TestReadTableMissingFile(t *testing.T) {
	config := DefaultReaderConfig()
	config.Path = filepath.Join(t.TempDir(), "no-such-file.csv")

	reader := NewReader(config)
	_, err := reader.ReadTable(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if errors.GetCode(err) != errors.CodeFileNotFound {
		t.Errorf("Expected code %s, got %s", errors.CodeFileNotFound, errors.GetCode(err))
	}
}

func TestReadTableEmptyPath(t *testing.T) {
	config := DefaultReaderConfig()

	reader := NewReader(config)
	_, err := reader.ReadTable(context.Background())
	if err == nil {
		t.Fatal("Expected error for empty path")
	}
	if !errors.IsAppError(err) {
		t.Fatalf("Expected an AppError, got %T", err)
	}
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("Expected code %s, got %s", errors.CodeInvalidInput, errors.GetCode(err))
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	config := DefaultReaderConfig()
	config.Path = writeTempFile(t, "export.csv", []byte("Order ID,Sales\n"))

	reader := NewReader(config)
	_, err := reader.ReadTable(context.Background())
	if err == nil {
		t.Fatal("Expected error for header-only file")
	}
	if errors.GetCode(err) != errors.CodeBadFormat {
		t.Errorf("Expected code %s, got %s", errors.CodeBadFormat, errors.GetCode(err))
	}
}

func TestReadCSVTrimsCells(t *testing.T) {
	config := DefaultReaderConfig()
	config.Path = writeTempFile(t, "export.csv", []byte("Order ID , Sales \n A-1 , 100 \n"))

	reader := NewReader(config)
	table, err := reader.ReadTable(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if table.Headers[0] != "Order ID" || table.Headers[1] != "Sales" {
		t.Errorf("Expected trimmed headers, got %q", table.Headers)
	}
	if got := table.Rows[0]["Sales"]; got != "100" {
		t.Errorf("Expected trimmed cell 100, got %q", got)
	}
}

func TestReadCSVHonorsCancellation(t *testing.T) {
	config := DefaultReaderConfig()
	config.Path = writeTempFile(t, "export.csv", []byte("A,B\n1,2\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewReader(config)
	if _, err := reader.ReadTable(ctx); err == nil {
		t.Error("Expected error from canceled context")
	}
}

func TestReadExcelSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	cells := map[string]string{
		"A1": "Order ID", "B1": "Sales",
		"A2": "A-1", "B2": "100",
		"A3": "A-2", "B3": "250",
	}
	for ref, value := range cells {
		if err := f.SetCellValue("Sheet1", ref, value); err != nil {
			t.Fatalf("Failed to set cell %s: %v", ref, err)
		}
	}
	path := filepath.Join(t.TempDir(), "export.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}

	config := DefaultReaderConfig()
	config.Path = path

	reader := NewReader(config)
	if reader.fileType != "xlsx" {
		t.Fatalf("Expected xlsx reader for .xlsx path, got %s", reader.fileType)
	}

	table, err := reader.ReadTable(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if table.RowCount() != 2 {
		t.Fatalf("Expected 2 data rows, got %d", table.RowCount())
	}
	if got := table.Rows[1]["Sales"]; got != "250" {
		t.Errorf("Expected cell 250, got %q", got)
	}
}

func TestReadExcelMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetCellValue("Sheet1", "A1", "Order ID"); err != nil {
		t.Fatalf("Failed to set cell: %v", err)
	}
	path := filepath.Join(t.TempDir(), "export.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}

	config := DefaultReaderConfig()
	config.Path = path
	config.Sheet = "Orders"

	reader := NewReader(config)
	if _, err := reader.ReadTable(context.Background()); err == nil {
		t.Error("Expected error for missing worksheet")
	}
}
