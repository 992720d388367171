package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func loadScript(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "read stdin")
		}
		return string(b), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(err, "load script")
	}
	if info.IsDir() {
		return "", errors.Errorf("load script: %s is a directory", filepath.Clean(path))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "load script")
	}
	return string(b), nil
}
