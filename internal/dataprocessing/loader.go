package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "reportsplit/internal/errors"
	"reportsplit/pkg/contracts/domain"
)

const byteOrderMark = "\uFEFF"

// knownEncodings maps the names accepted in configuration to decoders.
// Anything else is looked up in the IANA registry.
var knownEncodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
	"latin-1":      charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
}

// LookupEncoding resolves an encoding name, case-insensitively
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := knownEncodings[key]; ok {
		return enc, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// DecodeStrict decodes raw as enc and fails on the first byte sequence that
// enc cannot represent, instead of substituting U+FFFD.
func DecodeStrict(raw []byte, enc encoding.Encoding) (string, error) {
	if enc == unicode.UTF8 {
		if _, _, err := transform.Bytes(encoding.UTF8Validator, raw); err != nil {
			return "", err
		}
		return string(raw), nil
	}

	if cm, ok := enc.(*charmap.Charmap); ok {
		var sb strings.Builder
		sb.Grow(len(raw))
		for i, b := range raw {
			r := cm.DecodeByte(b)
			if r == utf8.RuneError {
				return "", fmt.Errorf("byte 0x%02x at offset %d is undefined in %s", b, i, cm)
			}
			sb.WriteRune(r)
		}
		return sb.String(), nil
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Loader reads one CSV file into a domain.Dataset
type Loader struct {
	column    string
	encodings []string
	logger    *slog.Logger
}

// NewLoader creates a loader that requires column in the header and tries
// encodings in order
func NewLoader(column string, encodings []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		column:    column,
		encodings: append([]string(nil), encodings...),
		logger:    logger.With("component", "loader"),
	}
}

// Column returns the required timestamp column name
func (l *Loader) Column() string {
	return l.column
}

// Load reads and decodes path
func (l *Loader) Load(path string) (*domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("failed to read %s", path), err).
			WithContext("source", path)
	}
	return l.LoadBytes(path, raw)
}

// LoadBytes decodes raw with the first candidate encoding that succeeds and
// parses the result as CSV. Only one encoding is ever applied to a file.
func (l *Loader) LoadBytes(source string, raw []byte) (*domain.Dataset, error) {
	text, used, attempts, err := l.decode(source, raw)
	if err != nil {
		return nil, err
	}

	rows, err := parseCSV(text)
	if err != nil {
		return nil, apperrors.NewMalformedCSVError(source, err).
			WithContext("encoding", used)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewMissingColumnError(l.column, source).
			WithContext("reason", "empty file")
	}

	header := domain.Header(rows[0])
	index := header.Index(l.column)
	if index < 0 {
		return nil, apperrors.NewMissingColumnError(l.column, source)
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, domain.Record(row))
	}

	return &domain.Dataset{
		Source:         source,
		Encoding:       used,
		Attempts:       attempts,
		Header:         header,
		Records:        records,
		TimestampIndex: index,
	}, nil
}

func (l *Loader) decode(source string, raw []byte) (string, string, []string, error) {
	attempts := make([]string, 0, len(l.encodings))
	var lastErr error

	for _, name := range l.encodings {
		attempts = append(attempts, name)

		enc, err := LookupEncoding(name)
		if err != nil {
			l.logger.Warn("Skipping encoding",
				slog.String("encoding", name),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		text, err := DecodeStrict(raw, enc)
		if err != nil {
			l.logger.Debug("Decode attempt failed",
				slog.String("file", source),
				slog.String("encoding", name),
				slog.String("error", err.Error()))
			if enc == unicode.UTF8 {
				l.logCharsetGuess(source, raw)
			}
			lastErr = err
			continue
		}

		return strings.TrimPrefix(text, byteOrderMark), name, attempts, nil
	}

	return "", "", attempts, apperrors.NewDecodingExhaustedError(source, attempts, lastErr)
}

func (l *Loader) logCharsetGuess(source string, raw []byte) {
	if !l.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	sample := raw
	if len(sample) > 64*1024 {
		sample = sample[:64*1024]
	}
	guess, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return
	}
	l.logger.Debug("Detected charset",
		slog.String("file", source),
		slog.String("charset", guess.Charset),
		slog.Int("confidence", guess.Confidence))
}
