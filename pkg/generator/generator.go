package generator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cpgen/pkg/catalog"
	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/logging"
	"github.com/arthur-debert/cpgen/pkg/materialize"
	"github.com/arthur-debert/cpgen/pkg/paths"
	"github.com/arthur-debert/cpgen/pkg/placeholder"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/rs/zerolog"
)

// TemplateSource provides template subtrees. *cache.Cache implements it.
type TemplateSource interface {
	EnsureReady(ctx context.Context) error
	Refresh(ctx context.Context) (*types.UpdateResult, error)
	SubtreePath(name string) (string, error)
}

// Options configures a Generator.
type Options struct {
	// Strict fails operations that leave placeholders unresolved
	Strict bool
	// Marker identifies a project root; defaults to ".cpgen"
	Marker string
	// CacheRoot is never treated as a project root
	CacheRoot string
}

// Generator creates projects and components from templates.
type Generator struct {
	fs           types.FS
	templates    TemplateSource
	materializer *materialize.Materializer
	opts         Options
	logger       zerolog.Logger
}

// New creates a Generator.
func New(fs types.FS, templates TemplateSource, opts Options) *Generator {
	if opts.Marker == "" {
		opts.Marker = paths.DefaultProjectMarker
	}
	return &Generator{
		fs:           fs,
		templates:    templates,
		materializer: materialize.New(fs),
		opts:         opts,
		logger:       logging.GetLogger("generator"),
	}
}

// Update refreshes the template cache.
func (g *Generator) Update(ctx context.Context) (*types.UpdateResult, error) {
	return g.templates.Refresh(ctx)
}

// EnsureTemplates downloads the templates if they are not cached yet.
func (g *Generator) EnsureTemplates(ctx context.Context) error {
	return g.templates.EnsureReady(ctx)
}

// FindProjectRoot locates the project enclosing start.
func (g *Generator) FindProjectRoot(start string) (string, error) {
	return paths.FindProjectRoot(g.fs, start, g.opts.Marker, g.opts.CacheRoot)
}

// CreateProject creates a new project at p.RootPath/p.Name.
func (g *Generator) CreateProject(ctx context.Context, p types.ProjectParameters) (*types.CreateResult, error) {
	sel, err := catalog.Project(p)
	if err != nil {
		return nil, err
	}

	root := p.RootPath
	if root == "" {
		root = types.DefaultRootPath
	}
	destination, err := filepath.Abs(filepath.Join(root, p.Name))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid project root %s", root)
	}

	return g.create(ctx, sel, destination, materialize.ScopeDestination)
}

// CreateLibrary adds a library to the project at projectRoot.
func (g *Generator) CreateLibrary(ctx context.Context, p types.LibraryParameters, projectRoot string) (*types.CreateResult, error) {
	sel, err := catalog.Library(p)
	if err != nil {
		return nil, err
	}
	return g.create(ctx, sel, projectRoot, materialize.ScopeTopLevel)
}

// CreateExecutable adds an executable to the project at projectRoot.
func (g *Generator) CreateExecutable(ctx context.Context, p types.ExecutableParameters, projectRoot string) (*types.CreateResult, error) {
	sel, err := catalog.Executable(p)
	if err != nil {
		return nil, err
	}
	return g.create(ctx, sel, projectRoot, materialize.ScopeTopLevel)
}

// CreateTest adds a test to the project at projectRoot.
func (g *Generator) CreateTest(ctx context.Context, p types.ExecutableParameters, projectRoot string) (*types.CreateResult, error) {
	sel, err := catalog.Test(p)
	if err != nil {
		return nil, err
	}
	return g.create(ctx, sel, projectRoot, materialize.ScopeTopLevel)
}

func (g *Generator) create(ctx context.Context, sel catalog.Selection, destination string, scope materialize.Scope) (*types.CreateResult, error) {
	logger := g.logger.With().
		Str("kind", string(sel.Kind)).
		Str("name", sel.Name).
		Str("destination", destination).
		Logger()
	defer logging.LogOperationStart(logger, "create "+string(sel.Kind))()

	if destination == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "no destination given for %s %s", sel.Kind, sel.Name)
	}

	if err := g.templates.EnsureReady(ctx); err != nil {
		return nil, err
	}

	source, err := g.templates.SubtreePath(sel.Subtree)
	if err != nil {
		return nil, err
	}

	res, err := g.materializer.Materialize(materialize.Request{
		Source:      source,
		Destination: destination,
		Values:      sel.Values,
		Scope:       scope,
	})
	if err != nil {
		return nil, err
	}

	result := &types.CreateResult{
		Kind:        sel.Kind,
		Name:        sel.Name,
		Destination: destination,
		Created:     res.Created,
		Skipped:     res.Skipped,
	}

	// only paths this run created are scanned
	unresolved, err := g.materializer.Engine().UnresolvedPaths(res.Created...)
	if err != nil {
		return result, err
	}
	result.Unresolved = unresolved

	if len(unresolved) > 0 {
		keys := placeholder.Keys(unresolved)
		if g.opts.Strict {
			return result, errors.Newf(errors.ErrUnresolvedPlaceholders,
				"%d unresolved placeholder(s) left in %s: %s", len(unresolved), destination, strings.Join(keys, ", ")).
				WithDetail(errors.DetailPath, destination).
				WithDetail("keys", keys)
		}
		logger.Warn().Strs("keys", keys).Int("count", len(unresolved)).Msg("Unresolved placeholders left in output")
	}

	return result, nil
}
