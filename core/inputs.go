package core

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/greenscore/core/lang"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// StdinPath names the standard input in file arguments and results.
const StdinPath = "-"

// Input is one code sample read from a file or stdin.
type Input struct {
	Path string
	Code string
}

// source is the name stored in history for this input.
func (in Input) source() string {
	if in.Path == "" || in.Path == StdinPath {
		return defaultSource
	}
	return in.Path
}

// ReadInputs reads every path in order. No paths, or a single "-", reads stdin.
func ReadInputs(paths []string, stdin io.Reader) ([]Input, error) {
	if len(paths) == 0 {
		paths = []string{StdinPath}
	}
	inputs := make([]Input, 0, len(paths))
	for _, path := range paths {
		var (
			data []byte
			err  error
		)
		if path == StdinPath {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, Input{Path: path, Code: string(data)})
	}
	return inputs, nil
}

// languageFor returns the configured language, or detects it from the file
// name and content when none is configured.
func languageFor(cfg *contract.Config, in Input) schema.Language {
	if cfg.Language != "" {
		return cfg.Language
	}
	return lang.DetectFile(in.Path, []byte(in.Code))
}
