// Package feed reads, parses and writes the pipe-delimited sales feed.
package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUndecodable indicates the input file could not be decoded with any
// supported encoding.
var ErrUndecodable = errors.New("unable to decode file with supported encodings")

// Supported encodings, tried in order. The first one that decodes the
// whole file without error wins.
var decoders = []struct {
	decode func([]byte) (string, error)
	name   string
}{
	{name: "utf-8", decode: decodeUTF8},
	{name: "latin-1", decode: charmapDecoder(charmap.ISO8859_1)},
	{name: "cp1252", decode: charmapDecoder(charmap.Windows1252)},
}

// ReadLines reads the sales feed at path and returns its data lines: the
// header line is skipped, blank lines are dropped, and surrounding
// whitespace is trimmed. A missing file surfaces as fs.ErrNotExist;
// content that no supported encoding can decode surfaces as
// ErrUndecodable.
func ReadLines(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales feed: %w", err)
	}

	content, encName, err := decode(raw)
	if err != nil {
		return nil, err
	}
	slog.Info("Read sales feed", "path", path, "encoding", encName)

	var lines []string
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if i == 0 {
			continue // header
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func decode(raw []byte) (string, string, error) {
	for _, d := range decoders {
		decoded, err := d.decode(raw)
		if err != nil {
			continue
		}
		return decoded, d.name, nil
	}
	return "", "", ErrUndecodable
}

func decodeUTF8(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errors.New("invalid utf-8")
	}
	return string(raw), nil
}

func charmapDecoder(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(raw []byte) (string, error) {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}
}
