// Package export writes sentences and letter logs to timestamped files.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/telemetry"
)

// FileTimeFormat is the timestamp layout used in export file names.
const FileTimeFormat = "20060102_150405"

var (
	// ErrNothingToExport is returned when there is no content to write.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrExport wraps failures to write an export file.
	ErrExport = errors.New("export failed")
)

// Archive records exports after they are written.
// *store.ExportRepository satisfies it.
type Archive interface {
	Create(e *store.Export, letters []store.Letter) error
}

// Writer writes export files into a directory and optionally archives them.
type Writer struct {
	dir     string
	archive Archive
	logger  zerolog.Logger
}

// NewWriter creates a Writer for dir. archive may be nil.
func NewWriter(dir string, archive Archive, logger zerolog.Logger) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{
		dir:     dir,
		archive: archive,
		logger:  logger,
	}
}

// Dir returns the export directory.
func (w *Writer) Dir() string {
	return w.dir
}

// SentencePath returns the file path for a sentence exported at t. When
// that file already exists the export is written with a numeric suffix,
// as in sentence_20240101_120000_1.txt.
func (w *Writer) SentencePath(t time.Time) string {
	return filepath.Join(w.dir, "sentence_"+t.Format(FileTimeFormat)+".txt")
}

// LogPath returns the file path for a letter log exported at t.
func (w *Writer) LogPath(t time.Time) string {
	return filepath.Join(w.dir, "letters_"+t.Format(FileTimeFormat)+".csv")
}

// ExportSentence writes sentence to a new text file and returns its path.
// An empty sentence returns ErrNothingToExport and writes nothing.
func (w *Writer) ExportSentence(ctx context.Context, sentence string, at time.Time) (string, error) {
	if sentence == "" {
		return "", ErrNothingToExport
	}

	_, span := telemetry.Tracer("github.com/ayusman/mudra/internal/export").Start(ctx, "export.Sentence")
	defer span.End()

	path, err := w.create(w.SentencePath(at), []byte(sentence))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("export.path", path))

	w.archiveExport(&store.Export{
		Kind:      store.ExportKindSentence,
		Path:      path,
		Sentence:  sentence,
		CreatedAt: at,
	}, nil)

	return path, nil
}

// ExportLog writes entries as CSV to a new file and returns its path.
// No entries returns ErrNothingToExport and writes nothing.
func (w *Writer) ExportLog(ctx context.Context, entries []session.LogEntry, at time.Time) (string, error) {
	if len(entries) == 0 {
		return "", ErrNothingToExport
	}

	_, span := telemetry.Tracer("github.com/ayusman/mudra/internal/export").Start(ctx, "export.Log")
	defer span.End()

	var buf bytes.Buffer
	if err := session.WriteEntriesCSV(&buf, entries); err != nil {
		err = fmt.Errorf("%w: encode letter log: %w", ErrExport, err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	path, err := w.create(w.LogPath(at), buf.Bytes())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("export.path", path), attribute.Int("export.entries", len(entries)))

	letters := make([]store.Letter, len(entries))
	for i, e := range entries {
		letters[i] = store.Letter{
			Sequence:  i,
			Timestamp: e.ISOTimestamp(),
			Letter:    e.Letter.String(),
		}
	}
	w.archiveExport(&store.Export{
		Kind:      store.ExportKindLog,
		Path:      path,
		CreatedAt: at,
	}, letters)

	return path, nil
}

// create writes data to a new file at path, or at the first free
// path_N variant when path exists, and returns the path written.
func (w *Writer) create(path string, data []byte) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrExport, w.dir, err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 0; ; n++ {
		name := path
		if n > 0 {
			name = fmt.Sprintf("%s_%d%s", base, n, ext)
		}

		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: write %s: %w", ErrExport, name, err)
		}

		_, err = f.Write(data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", fmt.Errorf("%w: write %s: %w", ErrExport, name, err)
		}
		return name, nil
	}
}

// archiveExport records the export; the file is already on disk, so
// failures are only logged.
func (w *Writer) archiveExport(e *store.Export, letters []store.Letter) {
	if w.archive == nil {
		return
	}

	e.ID = uuid.NewString()
	if err := w.archive.Create(e, letters); err != nil {
		w.logger.Warn().Err(err).Str("path", e.Path).Msg("failed to archive export")
		return
	}

	w.logger.Debug().Str("id", e.ID).Str("kind", string(e.Kind)).Msg("export archived")
}
