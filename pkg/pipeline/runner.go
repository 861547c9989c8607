package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cratescore/pkg/catalog"
	"github.com/matzehuels/cratescore/pkg/dbdump"
	"github.com/matzehuels/cratescore/pkg/integrations/github"
	"github.com/matzehuels/cratescore/pkg/observability"
)

// RepoFetcher fetches repository activity. [github.Client] implements it.
type RepoFetcher interface {
	RepoData(ctx context.Context, owner, repo string) (*github.RepoData, error)
}

// Runner processes entries one at a time.
//
// Runner is not safe for concurrent use; the cache it reads through is
// accessed without locking.
type Runner struct {
	Merger *catalog.Merger
	Scorer *catalog.Scorer
	// GitHub may be nil, in which case no repository data is fetched.
	GitHub RepoFetcher

	// Downloader fetches the category snapshot. When nil, the snapshot at
	// Snapshot.Path must already exist.
	Downloader dbdump.Downloader
	Snapshot   dbdump.SnapshotOptions

	Logger *log.Logger
	RunID  string
}

// NewRunner creates a runner with a fresh run id. If logger is nil,
// log.Default() is used.
func NewRunner(merger *catalog.Merger, scorer *catalog.Scorer, gh RepoFetcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if scorer == nil {
		scorer = catalog.NewScorer()
	}
	id := uuid.NewString()
	return &Runner{
		Merger: merger,
		Scorer: scorer,
		GitHub: gh,
		Logger: logger.With("run", id[:8]),
		RunID:  id,
	}
}

// Execute runs the whole pipeline over the parsed input document.
func (r *Runner) Execute(ctx context.Context, entries []catalog.InputEntry) (*Result, error) {
	categories, declared := catalog.Partition(entries)
	result := &Result{Categories: categories}

	start := time.Now()
	generated, err := r.Run(ctx, declared)
	if err != nil {
		return nil, err
	}
	result.Entries = generated
	result.Stats.Declared = len(generated)
	result.Stats.ProcessDur = time.Since(start)

	if len(categories) > 0 {
		start = time.Now()
		expanded, err := r.Expand(ctx, categories)
		if err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, expanded...)
		result.Stats.Expanded = len(expanded)
		result.Stats.ExpandDur = time.Since(start)
	}

	if result.Entries == nil {
		result.Entries = []catalog.GeneratedEntry{}
	}
	return result, nil
}

// Run processes entries in order and returns one generated entry per input
// entry.
func (r *Runner) Run(ctx context.Context, entries []catalog.InputEntry) ([]catalog.GeneratedEntry, error) {
	out := make([]catalog.GeneratedEntry, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := r.Process(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, nil
}

// Process merges, enriches and scores a single entry.
//
// If the merged crate record points at a GitHub repository, its activity
// is fetched and attached, replacing any repository record the entry
// already had. A failed fetch is logged and keeps the existing record. A
// GitHub URL that does not name an owner and repository is returned as an
// error.
func (r *Runner) Process(ctx context.Context, entry catalog.InputEntry) (*catalog.GeneratedEntry, error) {
	desc := entry.Describe()
	r.Logger.Info("Processing " + desc)
	hooks := observability.Pipeline()
	hooks.OnEntryStart(ctx, desc)
	start := time.Now()

	g, err := r.Merger.Merge(ctx, entry)
	if err != nil {
		return nil, err
	}

	if err := r.attachRepo(ctx, g); err != nil {
		return nil, err
	}

	r.Scorer.Score(g)
	hooks.OnEntryComplete(ctx, desc, g.ScoreValue(), time.Since(start))
	r.Logger.Debug("scored", "entry", desc, "score", g.ScoreValue())
	return g, nil
}

func (r *Runner) attachRepo(ctx context.Context, g *catalog.GeneratedEntry) error {
	if g.Crate == nil || g.Crate.Repository == "" {
		return nil
	}
	owner, repo, ok, err := github.ResolveRepoURL(g.Crate.Repository)
	if err != nil {
		return err
	}
	if !ok || r.GitHub == nil {
		return nil
	}

	data, err := r.GitHub.RepoData(ctx, owner, repo)
	if err != nil {
		r.Logger.Warn("Error getting Github repo data", "repo", owner+"/"+repo, "err", err)
		observability.Pipeline().OnFetchFailed(ctx, "github", owner+"/"+repo, err)
		return nil
	}
	g.Repo = data
	return nil
}

// Expand discovers the crates of the requested categories in the crates.io
// dump and processes each as a manual entry. Categories are visited in id
// order; a crate listed under two requested categories is processed twice.
// An inconsistent snapshot fails before any entry is processed.
func (r *Runner) Expand(ctx context.Context, categories []string) ([]catalog.GeneratedEntry, error) {
	start := time.Now()

	if r.Downloader != nil {
		if _, err := dbdump.EnsureSnapshot(ctx, r.Downloader, r.Snapshot, r.Logger); err != nil {
			return nil, err
		}
	}

	path := r.Snapshot.Path
	if path == "" {
		path = dbdump.DefaultPath
	}
	r.Logger.Info("loading all categories from database", "path", path)
	snapshot, err := dbdump.Load(path)
	if err != nil {
		return nil, err
	}
	ix := dbdump.BuildIndex(snapshot)

	matched := ix.Categories(categories)
	if len(matched) < len(categories) {
		r.Logger.Warn("some requested categories are not in the snapshot",
			"requested", len(categories), "found", len(matched))
	}

	for _, cat := range matched {
		r.Logger.Infof("Category %s has %d crates", cat.Category, cat.CratesCnt)
	}

	entries, err := ix.Expand(categories)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.GeneratedEntry, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := r.Process(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}

	observability.Pipeline().OnExpandComplete(ctx, len(matched), len(out), time.Since(start))
	return out, nil
}
