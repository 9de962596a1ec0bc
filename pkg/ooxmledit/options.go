// Package ooxmledit parses Office documents and spreadsheets into editable
// models and writes edits back without disturbing the rest of the package.
package ooxmledit

import (
	"log/slog"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/docx"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xlsx"
)

// Options configures parsing and export.
type Options struct {
	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger
	// ResolveStyles fills workbook cell styles and document properties.
	// If nil, defaults to false.
	ResolveStyles *bool
	// ResolveListSources expands range-sourced list validations into the
	// values of the referenced cells. If nil, defaults to true.
	ResolveListSources *bool
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldResolveStyles returns whether to resolve cell styles.
func (o Options) ShouldResolveStyles() bool {
	if o.ResolveStyles != nil {
		return *o.ResolveStyles
	}
	return false
}

// ShouldResolveListSources returns whether to expand list sources.
func (o Options) ShouldResolveListSources() bool {
	if o.ResolveListSources != nil {
		return *o.ResolveListSources
	}
	return true
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) docxOptions() docx.Options {
	return docx.Options{Logger: o.logger()}
}

func (o Options) xlsxOptions() xlsx.Options {
	return xlsx.Options{
		Logger:             o.logger(),
		ResolveStyles:      o.ShouldResolveStyles(),
		ResolveListSources: o.ShouldResolveListSources(),
	}
}
