package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/dataprocess/internal/infer"
)

// ConversionOutcome is what one converter would do to a column.
type ConversionOutcome struct {
	Type         infer.TypeTag `json:"type"`
	Applicable   bool          `json:"applicable"`
	Accepted     bool          `json:"accepted"`
	MissingCount int           `json:"missing_count"`
	MissingRatio float64       `json:"missing_ratio"`
}

// ColumnPreview summarizes the probes and converter outcomes for one raw
// column, so a client can choose a directive.
type ColumnPreview struct {
	Field          string              `json:"field"`
	Rows           int                 `json:"rows"`
	Missing        int                 `json:"missing"`
	Format         string              `json:"format,omitempty"`
	UTCHint        bool                `json:"utc_hint"`
	EpochHint      bool                `json:"epoch_hint"`
	PercentUnique  *float64            `json:"percent_unique"`
	Inferred       string              `json:"inferred"`
	Categories     []string            `json:"categories,omitempty"`
	Conversions    []ConversionOutcome `json:"conversions"`
	SampleDisplays []string            `json:"sample"`
}

// previewSampleSize bounds the raw values echoed back in a preview.
const previewSampleSize = 10

// Preview reports how the named column of a stored dataset would convert.
// An empty datasetID selects the latest dataset.
func (s *Service) Preview(ctx context.Context, datasetID, column string) (*ColumnPreview, error) {
	ds, err := s.loadDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	col, ok := ds.Table.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w %q", infer.ErrUnknownColumn, column)
	}
	return PreviewColumn(s.engine, col), nil
}

// PreviewColumn runs every probe and converter against col.
func PreviewColumn(e *infer.Engine, col *infer.Column) *ColumnPreview {
	opts := e.Options()
	prober := e.Prober()

	inferred := e.InferColumn(col)
	p := &ColumnPreview{
		Field:     col.Name,
		Rows:      col.Len(),
		Missing:   col.MissingCount(),
		Format:    prober.InferFormat(col, opts.SamplePercent),
		UTCHint:   prober.HasUTCHint(col, opts.SamplePercent),
		EpochHint: prober.HasEpochHint(col, opts.SamplePercent),
		Inferred:  DFType(inferred),
	}
	if inferred.Categorical {
		for _, v := range inferred.Categories() {
			p.Categories = append(p.Categories, inferred.Display(v))
		}
	}
	if pct, ok := col.PercentUnique(); ok {
		p.PercentUnique = &pct
	}

	for _, tag := range infer.TypeTags {
		if tag == infer.TagCategory || tag == infer.TagString {
			continue
		}
		p.Conversions = append(p.Conversions, outcome(e, tag, col, opts.ErrorRate))
	}

	for _, v := range col.Values {
		if len(p.SampleDisplays) == previewSampleSize {
			break
		}
		if v.Valid {
			p.SampleDisplays = append(p.SampleDisplays, col.Display(v))
		}
	}
	return p
}

// outcome converts under the engine's budget, falling back to a relaxed
// budget to report how many values would be lost.
func outcome(e *infer.Engine, tag infer.TypeTag, col *infer.Column, budget float64) ConversionOutcome {
	o := ConversionOutcome{Type: tag}

	conv, ok := e.TryConvert(tag, col, budget)
	if ok {
		o.Accepted = true
	} else {
		conv, ok = e.TryConvert(tag, col, infer.DirectiveErrorRate)
	}
	if !ok {
		return o
	}

	o.Applicable = true
	o.MissingCount = conv.MissingCount()
	if n := conv.Len(); n > 0 {
		o.MissingRatio = float64(o.MissingCount) / float64(n)
	}
	return o
}
