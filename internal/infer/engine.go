package infer

import (
	"log/slog"
	"time"
)

const (
	DefaultErrorRate       = 0.2
	DefaultCategoryPercent = 50.0
	DefaultSamplePercent   = 0.1
	DefaultMinSamples      = 3

	// Explicit directives use limits that every applicable conversion meets.
	DirectiveErrorRate       = 1.0
	DirectiveCategoryPercent = 100.0
)

// inferenceOrder is the precedence for untyped columns. The first converter
// that accepts wins.
var inferenceOrder = []TypeTag{TagNumber, TagComplex, TagDate, TagDuration}

// Options tunes inference. Zero fields take their defaults.
type Options struct {
	ErrorRate       float64
	CategoryPercent float64
	SamplePercent   float64
	MinSamples      int
	DurationUnit    time.Duration
	Sampler         *Sampler
	Logger          *slog.Logger
}

// DefaultOptions returns the standard settings with a randomly seeded sampler.
func DefaultOptions() Options {
	return Options{
		ErrorRate:       DefaultErrorRate,
		CategoryPercent: DefaultCategoryPercent,
		SamplePercent:   DefaultSamplePercent,
		MinSamples:      DefaultMinSamples,
		DurationUnit:    time.Nanosecond,
		Sampler:         NewSampler(),
		Logger:          slog.Default(),
	}
}

// Engine infers and converts column types. An Engine holds no per-call state
// and may be shared between goroutines.
type Engine struct {
	opts   Options
	prober Prober
}

// New returns an engine using opts, with defaults filled in for zero fields.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.ErrorRate <= 0 {
		opts.ErrorRate = def.ErrorRate
	}
	if opts.CategoryPercent <= 0 {
		opts.CategoryPercent = def.CategoryPercent
	}
	if opts.SamplePercent <= 0 {
		opts.SamplePercent = def.SamplePercent
	}
	if opts.MinSamples <= 0 {
		opts.MinSamples = def.MinSamples
	}
	if opts.DurationUnit <= 0 {
		opts.DurationUnit = def.DurationUnit
	}
	if opts.Sampler == nil {
		opts.Sampler = def.Sampler
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	return &Engine{
		opts:   opts,
		prober: Prober{Sampler: opts.Sampler, MinSamples: opts.MinSamples},
	}
}

// Options returns the effective settings.
func (e *Engine) Options() Options {
	return e.opts
}

// Prober returns the probe set bound to the engine's sampler.
func (e *Engine) Prober() Prober {
	return e.prober
}

// InferAndConvert returns a new table in which directives have been applied
// and every remaining untyped column has been inferred. The input table is
// not modified.
//
// Directives are applied in order with relaxed limits. A directive naming an
// unknown column or tag is logged and skipped; its column, if any, is still
// excluded from inference. Columns that are already typed pass through.
func (e *Engine) InferAndConvert(t *Table, directives ...Directive) *Table {
	out := t.shallowCopy()

	declared := make(map[string]struct{}, len(directives))
	for _, d := range directives {
		declared[d.Field] = struct{}{}

		i := out.Index(d.Field)
		if i < 0 {
			e.opts.Logger.Warn("directive for unknown column", "field", d.Field, "type", string(d.Type))
			continue
		}
		if !d.Type.Valid() {
			e.opts.Logger.Warn("directive with unknown type", "field", d.Field, "type", string(d.Type))
			continue
		}
		if conv, ok := e.applyDirective(d.Type, out.Columns[i]); ok {
			out.Columns[i] = conv
		} else {
			e.opts.Logger.Warn("directive not applicable", "field", d.Field, "type", string(d.Type),
				"kind", out.Columns[i].Kind.String())
		}
	}

	for i, col := range out.Columns {
		if _, ok := declared[col.Name]; ok || !col.Untyped() {
			continue
		}
		out.Columns[i] = e.InferColumn(col)
	}
	return out
}

func (e *Engine) applyDirective(tag TypeTag, col *Column) (*Column, bool) {
	if tag == TagCategory {
		return e.TryConvertCategory(col, DirectiveCategoryPercent)
	}
	return e.TryConvert(tag, col, DirectiveErrorRate)
}

// InferColumn runs the converters in precedence order under the engine's
// error rate, then applies the categorical overlay to the result.
func (e *Engine) InferColumn(col *Column) *Column {
	current := col
	for _, tag := range inferenceOrder {
		if conv, ok := e.TryConvert(tag, col, e.opts.ErrorRate); ok {
			current = conv
			break
		}
	}
	if conv, ok := e.TryConvertCategory(current, e.opts.CategoryPercent); ok {
		current = conv
	}
	e.opts.Logger.Debug("column inferred",
		"column", col.Name,
		"kind", current.Kind.String(),
		"categorical", current.Categorical,
	)
	return current
}
