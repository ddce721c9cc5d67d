package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wizard.dev/pluginsdk/pkg/data"
)

// ErrInvalidDocument is returned when a source is not a valid JSON document.
var ErrInvalidDocument = errors.New("invalid document")

// Source is one input of a file import.
type Source struct {
	Name string
	Read func(ctx context.Context) ([]byte, error)
}

// FileSource reads the file at path.
func FileSource(path string) Source {
	return Source{
		Name: path,
		Read: func(ctx context.Context) ([]byte, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return os.ReadFile(path)
		},
	}
}

// ReaderSource reads r to the end. It is meant for a single import.
//
// When r is an io.Closer it is closed as soon as ctx is done, which unblocks a
// pending read. Any other reader is only checked before reading, so a read
// that blocks keeps Import waiting until it returns.
func ReaderSource(name string, r io.Reader) Source {
	return Source{
		Name: name,
		Read: func(ctx context.Context) ([]byte, error) {
			c, closable := r.(io.Closer)
			if err := ctx.Err(); err != nil {
				if closable {
					_ = c.Close()
				}
				return nil, err
			}
			if closable {
				stop := context.AfterFunc(ctx, func() { _ = c.Close() })
				defer stop()
			}
			raw, err := io.ReadAll(r)
			if err != nil && ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return raw, err
		},
	}
}

// BytesSource serves raw as is.
func BytesSource(name string, raw []byte) Source {
	return Source{
		Name: name,
		Read: func(ctx context.Context) ([]byte, error) {
			return raw, ctx.Err()
		},
	}
}

// Document is a parsed JSON document queried with gjson paths.
type Document struct {
	gjson.Result
}

// ParseDocument validates raw as JSON.
func ParseDocument(raw []byte) (Document, error) {
	if !gjson.ValidBytes(raw) {
		return Document{}, fmt.Errorf("%w: not valid JSON", ErrInvalidDocument)
	}
	return Document{Result: gjson.ParseBytes(raw)}, nil
}

// ParseFunc turns raw source content into T.
type ParseFunc[T any] func(raw []byte) (T, error)

// ImportFunc maps one parsed source onto importer events. km is nil when the
// element has not received a knowledge model.
type ImportFunc[T any] func(imp *ProjectImporter, parsed T, km *data.KnowledgeModel) error

// FileImporter reads sources concurrently, parses them and maps them to a
// single event batch. A failing source aborts the whole import.
type FileImporter[T any] struct {
	parse      ParseFunc[T]
	importData ImportFunc[T]
	onImport   func([]data.ImporterEvent)
	opts       []Option
	logger     *zap.Logger
}

// FileImporterOption configures a FileImporter.
type FileImporterOption[T any] func(*FileImporter[T])

// WithParser replaces the parser.
func WithParser[T any](parse ParseFunc[T]) FileImporterOption[T] {
	return func(f *FileImporter[T]) {
		f.parse = parse
	}
}

// WithImporterOptions passes opts to every ProjectImporter the file importer
// creates.
func WithImporterOptions[T any](opts ...Option) FileImporterOption[T] {
	return func(f *FileImporter[T]) {
		f.opts = append(f.opts, opts...)
	}
}

// WithFileLogger sets the logger.
func WithFileLogger[T any](logger *zap.Logger) FileImporterOption[T] {
	return func(f *FileImporter[T]) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFileImporter returns a file importer. onImport receives the events of each
// successful import and may be nil.
func NewFileImporter[T any](parse ParseFunc[T], importData ImportFunc[T], onImport func([]data.ImporterEvent), opts ...FileImporterOption[T]) *FileImporter[T] {
	f := &FileImporter[T]{
		parse:      parse,
		importData: importData,
		onImport:   onImport,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewJSONImporter returns a file importer parsing sources with ParseDocument.
func NewJSONImporter(importData ImportFunc[Document], onImport func([]data.ImporterEvent), opts ...FileImporterOption[Document]) *FileImporter[Document] {
	return NewFileImporter(ParseDocument, importData, onImport, opts...)
}

// Import reads every source, then maps them in order onto one ProjectImporter.
// The resulting events are delivered to onImport and returned. On error no
// events are delivered.
func (f *FileImporter[T]) Import(ctx context.Context, km *data.KnowledgeModel, sources ...Source) ([]data.ImporterEvent, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources to import")
	}

	contents := make([][]byte, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			raw, err := src.Read(gctx)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", src.Name, err)
			}
			contents[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		f.logger.Warn("Import aborted", zap.Error(err))
		return nil, err
	}

	imp := NewProjectImporter(f.opts...)
	for i, raw := range contents {
		parsed, err := f.parse(raw)
		if err != nil {
			f.logger.Warn("Import aborted", zap.String("source", sources[i].Name), zap.Error(err))
			return nil, fmt.Errorf("failed to parse %s: %w", sources[i].Name, err)
		}
		if err := f.importData(imp, parsed, km); err != nil {
			f.logger.Warn("Import aborted", zap.String("source", sources[i].Name), zap.Error(err))
			return nil, fmt.Errorf("failed to import %s: %w", sources[i].Name, err)
		}
	}

	events := imp.Events()
	f.logger.Debug("Import finished", zap.Int("sources", len(sources)), zap.Int("events", len(events)))
	if f.onImport != nil {
		f.onImport(events)
	}
	return events, nil
}
