package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vibeconnect/internal/middleware"
	"vibeconnect/internal/models"
	"vibeconnect/internal/repository"
	"vibeconnect/internal/service"
)

// Options configures a random seeding run.
type Options struct {
	NumProfiles int
	// RecipientID receives NumRequests pending requests from random seeded users.
	// Zero disables request seeding.
	RecipientID uint
	NumRequests int
	Seed        int64
}

// Result reports what a seeding run wrote.
type Result struct {
	Profiles int
	Requests int
	Skipped  int
}

// Seeder writes demo data through the repositories, so it works on every backend.
type Seeder struct {
	profiles repository.ProfileRepository
	service  *service.ConnectionService
}

// NewSeeder creates a Seeder.
func NewSeeder(connections repository.ConnectionRepository, profiles repository.ProfileRepository) *Seeder {
	return &Seeder{
		profiles: profiles,
		service:  service.NewConnectionService(connections, profiles),
	}
}

// Run seeds profiles for user IDs 1..NumProfiles and, when RecipientID is set,
// pending requests addressed to it. Requests the lifecycle rules reject (for
// example an existing pending pair) are skipped, not treated as failures.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	f := NewFactory(opts.Seed)

	for id := uint(1); id <= uint(opts.NumProfiles); id++ {
		if err := s.profiles.Upsert(ctx, f.BuildProfile(id)); err != nil {
			return res, fmt.Errorf("seed profile %d: %w", id, err)
		}
		res.Profiles++
	}

	if opts.RecipientID == 0 || opts.NumRequests <= 0 {
		return res, nil
	}
	if _, err := s.profiles.GetByUserID(ctx, opts.RecipientID); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return res, err
		}
		if err := s.profiles.Upsert(ctx, f.BuildProfile(opts.RecipientID)); err != nil {
			return res, fmt.Errorf("seed recipient profile: %w", err)
		}
		res.Profiles++
	}

	for id := uint(1); id <= uint(opts.NumProfiles) && res.Requests < opts.NumRequests; id++ {
		if id == opts.RecipientID {
			continue
		}
		if err := s.request(ctx, id, opts.RecipientID, f.BuildMessage(), &res); err != nil {
			return res, err
		}
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("profiles", res.Profiles),
		slog.Int("requests", res.Requests),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

// request creates one pending request, counting lifecycle rejections as skipped.
func (s *Seeder) request(ctx context.Context, from, to uint, message string, res *Result) error {
	_, err := s.service.CreateRequest(ctx, from, to, message)
	switch {
	case err == nil:
		res.Requests++
		return nil
	case errors.Is(err, models.ErrDuplicateRequest),
		errors.Is(err, models.ErrInvalidTarget),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrValidation):
		middleware.Logger.WarnContext(ctx, "seed request skipped",
			slog.Uint64("from", uint64(from)),
			slog.Uint64("to", uint64(to)),
			slog.String("reason", err.Error()),
		)
		res.Skipped++
		return nil
	default:
		return fmt.Errorf("seed request %d -> %d: %w", from, to, err)
	}
}
