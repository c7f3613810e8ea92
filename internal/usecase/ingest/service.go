// Package ingest indexes listings: facet text composition, embedding via the
// external provider, and per-facet vector + record storage.
package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/hearthside/propsim/internal/domain"
	"github.com/hearthside/propsim/internal/domain/facet"
	"github.com/hearthside/propsim/internal/domain/listing"
)

// Config pins the expected vector widths. Text facets share one embedding
// model; the visual facet arrives precomputed from an image model.
type Config struct {
	TextDim   int
	VisualDim int
}

// Service handles listing indexing.
type Service struct {
	embed   domain.Embedder
	vectors VectorWriter
	records RecordStore
	cfg     Config
	logger  *zap.Logger
}

// New creates an ingest service.
func New(embed domain.Embedder, vectors VectorWriter, records RecordStore, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{embed: embed, vectors: vectors, records: records, cfg: cfg, logger: logger}
}

// Ingest indexes one listing: embeds the location and features texts, stores
// all three facet vectors L2-normalized, and saves the record.
//
// The visual vector is required and must be computed upstream (aggregated
// photo embedding); a listing without it would be invisible to the visual
// facet and break fusion for every query that reaches it.
func (s *Service) Ingest(ctx context.Context, l *listing.Listing, visualVec []float32) error {
	if len(visualVec) == 0 {
		return domain.ErrMissingVisualVector
	}
	if s.cfg.VisualDim > 0 && len(visualVec) != s.cfg.VisualDim {
		return fmt.Errorf("%w: visual vector has dim %d, want %d",
			domain.ErrVectorDimMismatch, len(visualVec), s.cfg.VisualDim)
	}

	locationVec, err := s.embedText(ctx, locationText(l))
	if err != nil {
		return fmt.Errorf("embed location text: %w", err)
	}
	featuresVec, err := s.embedText(ctx, featuresText(l))
	if err != nil {
		return fmt.Errorf("embed features text: %w", err)
	}

	visual, err := normalize(visualVec)
	if err != nil {
		return fmt.Errorf("visual vector: %w", err)
	}

	if err := s.records.Save(ctx, l); err != nil {
		return err
	}

	facetVecs := map[facet.Facet][]float32{
		facet.Location: locationVec,
		facet.Features: featuresVec,
		facet.Visual:   visual,
	}
	for _, f := range facet.All() {
		if err := s.vectors.UpsertFacetVector(ctx, l.ID(), f, facetVecs[f]); err != nil {
			return err
		}
	}

	s.logger.Info("indexed listing", zap.String("listing_id", l.ID()))
	return nil
}

// Get returns the stored record for id.
func (s *Service) Get(ctx context.Context, id string) (listing.Listing, error) {
	return s.records.Get(ctx, id)
}

// Remove deletes a listing's record and all of its facet vectors.
func (s *Service) Remove(ctx context.Context, id string) error {
	for _, f := range facet.All() {
		if err := s.vectors.DeleteFacetVector(ctx, id, f); err != nil {
			return err
		}
	}
	return s.records.Delete(ctx, id)
}

func (s *Service) embedText(ctx context.Context, text string) ([]float32, error) {
	res, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if s.cfg.TextDim > 0 && len(res.Embedding) != s.cfg.TextDim {
		return nil, fmt.Errorf("%w: embedding has dim %d, want %d",
			domain.ErrVectorDimMismatch, len(res.Embedding), s.cfg.TextDim)
	}
	return normalize(res.Embedding)
}

// locationText composes the location facet text: description plus the
// administrative hierarchy, lowercased and trimmed.
func locationText(l *listing.Listing) string {
	return preprocess(strings.Join([]string{
		l.LocationDescription(),
		l.Neighborhood(),
		l.City(),
		l.Municipality(),
		l.County(),
	}, " "))
}

// featuresText composes the features facet text from the amenity and feature
// lists plus the typed attributes.
func featuresText(l *listing.Listing) string {
	parts := make([]string, 0, 16)
	parts = append(parts, l.Amenities()...)
	parts = append(parts, l.InteriorFeatures()...)
	parts = append(parts, l.Appliances()...)
	parts = append(parts, l.ExteriorFeatures()...)
	parts = append(parts, l.LotFeatures()...)
	parts = append(parts, "property_type: "+orUnspecified(l.PropertyType()))
	parts = append(parts, "architectural_style: "+orUnspecified(l.ArchitecturalStyle()))
	return preprocess(strings.Join(parts, " "))
}

func orUnspecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}

func preprocess(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

// normalize returns the L2-normalized copy of v. Facet indexes use cosine
// distance over unit vectors, so every stored vector goes through this.
func normalize(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, fmt.Errorf("zero vector")
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}
