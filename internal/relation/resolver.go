package relation

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/workboard/internal/domain/record"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrent bounds simultaneous remote lookups.
const DefaultMaxConcurrent = 8

// Finder queries a remote collection by field value.
type Finder interface {
	FindByField(ctx context.Context, collection, field, value string) ([]record.Record, error)
}

// Resolver resolves members with one remote lookup per email.
type Resolver struct {
	finder Finder
	limit  int
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxConcurrent bounds simultaneous lookups. Values below one are ignored.
func WithMaxConcurrent(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver over finder.
func NewResolver(finder Finder, opts ...Option) *Resolver {
	r := &Resolver{
		finder: finder,
		limit:  DefaultMaxConcurrent,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks every email up concurrently and assembles the results by
// input position. The first lookup error cancels the others and is
// returned.
func (r *Resolver) Resolve(ctx context.Context, emails []string) ([]Member, error) {
	out := make([]Member, len(emails))
	if len(emails) == 0 {
		return out, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, email := range emails {
		g.Go(func() error {
			found, err := r.finder.FindByField(gCtx, record.KindEmployee.Collection(), "email", email)
			if err != nil {
				return fmt.Errorf("looking up member %q: %w", email, err)
			}
			if len(found) == 0 {
				out[i] = Placeholder(email)
				return nil
			}
			out[i] = FromRecord(found[0])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Debug("members resolved", "count", len(out))
	return out, nil
}
