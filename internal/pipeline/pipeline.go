// Package pipeline orchestrates the resume upload, analysis, improvement,
// and reconciliation operations. Each operation runs request-scoped and
// strictly sequential; the only cross-request shared state is the quota
// tracker, which serializes its own access.
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/placement-pipeline/internal/llm"
	"github.com/jonathan/placement-pipeline/internal/pdf"
	"github.com/jonathan/placement-pipeline/internal/quota"
	"github.com/jonathan/placement-pipeline/internal/storage"
	"github.com/jonathan/placement-pipeline/internal/types"
)

// DefaultMaxUploadBytes caps resume uploads at 5 MB.
const DefaultMaxUploadBytes = 5 << 20

// AnalysisStore persists and retrieves analysis records. Append-only: there
// is deliberately no update operation.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a *types.StoredResumeAnalysis) (*types.StoredResumeAnalysis, error)
	GetLatestAnalysis(ctx context.Context, studentID string) (*types.StoredResumeAnalysis, error)
	GetAnalysis(ctx context.Context, id string) (*types.StoredResumeAnalysis, error)
}

// ProfileStore persists and retrieves student profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, studentID string) (*types.StudentProfile, error)
	SaveProfile(ctx context.Context, p *types.StudentProfile) error
}

// ImprovedStore persists and retrieves improved resume records.
type ImprovedStore interface {
	SaveImprovedResume(ctx context.Context, r *types.ImprovedResume) (*types.ImprovedResume, error)
	GetImprovedResume(ctx context.Context, id string) (*types.ImprovedResume, error)
}

// Service wires the pipeline's collaborators together and exposes the
// operation surface consumed by the HTTP server.
type Service struct {
	analyses AnalysisStore
	profiles ProfileStore
	improved ImprovedStore
	store    storage.Store
	llm      llm.Client
	tracker  *quota.Tracker
	renderer pdf.Renderer

	maxUploadBytes int64

	// Concurrent reanalyze requests for the same student collapse into one
	// AI call instead of each burning quota.
	reanalyzeGroup singleflight.Group
}

// Options configures a Service.
type Options struct {
	Analyses AnalysisStore
	Profiles ProfileStore
	Improved ImprovedStore
	Storage  storage.Store
	LLM      llm.Client
	Tracker  *quota.Tracker
	Renderer pdf.Renderer

	MaxUploadBytes int64
}

// NewService creates a pipeline Service.
func NewService(opts Options) (*Service, error) {
	if opts.Analyses == nil || opts.Profiles == nil || opts.Improved == nil {
		return nil, fmt.Errorf("pipeline requires analysis, profile, and improved stores")
	}
	if opts.Storage == nil {
		return nil, fmt.Errorf("pipeline requires object storage")
	}
	if opts.LLM == nil {
		return nil, fmt.Errorf("pipeline requires an LLM client")
	}
	if opts.Tracker == nil {
		opts.Tracker = quota.New(quota.DefaultPerMinute, quota.DefaultPerDay)
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	return &Service{
		analyses:       opts.Analyses,
		profiles:       opts.Profiles,
		improved:       opts.Improved,
		store:          opts.Storage,
		llm:            opts.LLM,
		tracker:        opts.Tracker,
		renderer:       opts.Renderer,
		maxUploadBytes: opts.MaxUploadBytes,
	}, nil
}

// QuotaInfo reports the AI call budget without consuming from it.
func (s *Service) QuotaInfo() quota.Info {
	return s.tracker.Status()
}
