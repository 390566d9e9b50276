package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoursreport/internal/dataprocessing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name          string
		maxBytes      int64
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "hours.csv")
				require.NoError(t, os.WriteFile(path, []byte("JobDescription\n"), 0644))
				return path
			},
		},
		{
			name: "empty file is allowed",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "hours.xlsx")
				require.NoError(t, os.WriteFile(path, nil, 0644))
				return path
			},
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "hours.pdf")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "unsupported file format",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$hours.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "temporary Excel file",
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name:     "too large",
			maxBytes: 4,
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "hours.csv")
				require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "limit is 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(quietLogger(), tt.maxBytes)
			err := validator.ValidateInputFile(tt.setupFunc(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_UnsupportedWrapsSentinel(t *testing.T) {
	err := NewFileValidator(quietLogger(), 0).ValidateInputFile("report.docx")
	assert.ErrorIs(t, err, dataprocessing.ErrUnsupportedFormat)
}

func TestFileValidator_ValidateOutputPath(t *testing.T) {
	validator := NewFileValidator(quietLogger(), 0)

	t.Run("creates missing directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "report.xlsx")
		require.NoError(t, validator.ValidateOutputPath(path, "xlsx"))
		assert.DirExists(t, filepath.Dir(path))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Empty(t, entries, "temporary write check file must be removed")
	})

	t.Run("mismatched extension is allowed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.csv")
		assert.NoError(t, validator.ValidateOutputPath(path, "xlsx"))
	})

	t.Run("directory target", func(t *testing.T) {
		err := validator.ValidateOutputPath(t.TempDir(), "xlsx")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("parent is a file", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

		err := validator.ValidateOutputPath(filepath.Join(parent, "report.xlsx"), "xlsx")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output directory")
	})
}
