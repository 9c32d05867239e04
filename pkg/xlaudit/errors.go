package xlaudit

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates the input file extension is not an Excel
// workbook format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrInvalidWorkbook indicates the file could not be opened as a workbook.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// workbookExtensions lists the accepted input extensions.
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xlsb": true,
	".xltx": true,
	".xltm": true,
	".xlam": true,
}

// macroExtensions lists the extensions that can carry a VBA project.
var macroExtensions = map[string]bool{
	".xlsm": true,
	".xlsb": true,
	".xltm": true,
	".xlam": true,
}

func validateExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !workbookExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return nil
}

func isMacroEnabled(path string) bool {
	return macroExtensions[strings.ToLower(filepath.Ext(path))]
}
