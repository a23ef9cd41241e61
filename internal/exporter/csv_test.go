package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVWriter(t *testing.T) {
	writer := NewCSVWriter("/tmp/out")

	assert.NotNil(t, writer)
	assert.Equal(t, "/tmp/out", writer.baseDir)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	tests := []struct {
		name     string
		filePath string
		setup    func(t *testing.T)
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Name", "Age", "City"},
				Records: [][]string{
					{"John", "25", "New York"},
					{"Jane", "30", "London"},
				},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Name,Age,City\nJohn,25,New York\nJane,30,London\n", string(content))
				assert.False(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}), "no byte order mark")
			},
		},
		{
			name:     "CRLF line endings",
			filePath: "test_crlf.csv",
			options: WriteOptions{
				Headers: []string{"a", "b"},
				Records: [][]string{{"1", "2"}},
				UseCRLF: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "a,b\r\n1,2\r\n", string(content))
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Records: [][]string{{"Data1", "Data2"}, {"Data3", "Data4"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Data1,Data2\nData3,Data4\n", string(content))
			},
		},
		{
			name:     "overwrite truncates",
			filePath: "test_overwrite.csv",
			setup: func(t *testing.T) {
				long := strings.Repeat("x", 1024)
				require.NoError(t, writer.WriteSimpleCSV("test_overwrite.csv", []string{long}, nil))
			},
			options: WriteOptions{
				Headers: []string{"short"},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "short\n", string(content))
			},
		},
		{
			name:     "nested directory is created",
			filePath: filepath.Join("nested", "dir", "file.csv"),
			options: WriteOptions{
				Headers: []string{"Col1"},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Col1\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}

			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))

			content, err := os.ReadFile(filepath.Join(tempDir, tt.filePath))
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer := NewCSVWriter("/base")
	abs, err := filepath.Abs("/elsewhere/file.csv")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/base", "file.csv"), writer.resolvePath("file.csv"))
	assert.Equal(t, abs, writer.resolvePath(abs))
	assert.Equal(t, "file.csv", NewCSVWriter("").resolvePath("file.csv"))
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	records := [][]string{
		{"comma, inside", `quote "inside"`, "line\nbreak"},
		{"Ünïcödé", "日本語", "émoji 🎉"},
		{"", "", ""},
	}
	require.NoError(t, writer.WriteSimpleCSV("special.csv", []string{"a", "b", "c"}, records))

	file, err := os.Open(filepath.Join(tempDir, "special.csv"))
	require.NoError(t, err)
	defer file.Close()

	got, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, records, got[1:])
}

func TestCSVWriter_ErrorScenarios(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

	writer := NewCSVWriter(tempDir)

	err := writer.WriteSimpleCSV(filepath.Join("blocker", "out.csv"), []string{"a"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}

func BenchmarkCSVWriter_WriteCSV(b *testing.B) {
	writer := NewCSVWriter(b.TempDir())

	records := make([][]string, 1000)
	for i := range records {
		records[i] = []string{"2024-01-15T10:00:00Z", "sender@example.com", "subject", "delivered"}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := writer.WriteSimpleCSV("bench.csv", []string{"ts", "from", "subject", "status"}, records); err != nil {
			b.Fatal(err)
		}
	}
}
