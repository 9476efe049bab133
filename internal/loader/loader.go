// =============================================================================
// Disperse Input - File Loader
// =============================================================================
//
// This module connects file upload to the raw-text entry point. Every
// supported file kind is turned into the same multi-line text a user would
// type, and is then validated like typed input.
//
// SUPPORTED FILES:
//   - .txt, .text, .list, no extension : read as text
//   - .csv, .tsv                       : read with csvparser
//   - .xlsx, .xlsm                     : read with xlsxparser
//
// =============================================================================

// Package loader turns uploaded files into raw input text.
package loader

import (
	"fmt"

	"github.com/ginjaninja78/disperse-input/internal/config"
	"github.com/ginjaninja78/disperse-input/internal/csvparser"
	"github.com/ginjaninja78/disperse-input/internal/xlsxparser"
	"github.com/ginjaninja78/disperse-input/pkg/errors"
	"github.com/ginjaninja78/disperse-input/pkg/utils"
)

// Load reads the file at path and returns its content as raw input text.
func Load(path string, settings config.InputSettings) (string, error) {
	switch kind := utils.DetectInputKind(path); kind {
	case utils.KindText:
		text, err := utils.ReadTextFile(path)
		if err != nil {
			return "", errors.NewIOError("read", path, err)
		}
		return text, nil

	case utils.KindCSV:
		data, err := csvparser.Parse(path, settings)
		if err != nil {
			return "", err
		}
		return data.Text(), nil

	case utils.KindXLSX:
		data, err := xlsxparser.Parse(path, settings)
		if err != nil {
			return "", err
		}
		return data.Text(), nil

	default:
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedFormat, path)
	}
}
