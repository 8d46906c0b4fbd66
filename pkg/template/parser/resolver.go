package parser

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
)

// Resolver opens template sources by name.
type Resolver interface {
	Resolve(name string) (io.ReadCloser, error)
}

// ContextResolver is a Resolver whose lookups can be cancelled.
type ContextResolver interface {
	Resolver
	ResolveContext(ctx context.Context, name string) (io.ReadCloser, error)
}

// NullResolver resolves nothing. It is the resolver for sources without
// includes.
type NullResolver struct{}

// Resolve implements Resolver.
func (NullResolver) Resolve(name string) (io.ReadCloser, error) {
	return nil, treeerrors.New(treeerrors.CodeResolverIO).
		WithDetailf("cannot resolve %q: no resolver configured", name)
}

// FSResolver resolves names as slash-separated paths in an fs.FS.
type FSResolver struct {
	FS fs.FS
}

// NewFSResolver returns a resolver reading from fsys.
func NewFSResolver(fsys fs.FS) *FSResolver {
	return &FSResolver{FS: fsys}
}

// Resolve implements Resolver.
func (r *FSResolver) Resolve(name string) (io.ReadCloser, error) {
	f, err := r.FS.Open(path.Clean(name))
	if err != nil {
		return nil, treeerrors.New(treeerrors.CodeResolverIO).
			WithDetailf("open %q", name).
			Wrap(err)
	}
	return f, nil
}

type contextBound struct {
	ctx context.Context
	r   Resolver
}

func (c contextBound) Resolve(name string) (io.ReadCloser, error) {
	if cr, ok := c.r.(ContextResolver); ok {
		return cr.ResolveContext(c.ctx, name)
	}
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}
	return c.r.Resolve(name)
}

// WithContext returns a Resolver that passes ctx to r when r is a
// ContextResolver and otherwise checks ctx before each lookup.
func WithContext(ctx context.Context, r Resolver) Resolver {
	if r == nil {
		r = NullResolver{}
	}
	return contextBound{ctx: ctx, r: r}
}

// open resolves name and reads the whole source. Resolver failures are
// reported as ErrResolverIO.
func open(r Resolver, name string) (string, error) {
	rc, err := r.Resolve(name)
	if err != nil {
		return "", asResolverError(name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", asResolverError(name, err)
	}
	return string(data), nil
}

func asResolverError(name string, err error) error {
	if errors.Is(err, ErrResolverIO) {
		return err
	}
	return treeerrors.New(treeerrors.CodeResolverIO).
		WithDetailf("resolve %q", name).
		Wrap(err)
}
