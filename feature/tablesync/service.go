package tablesync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"permit-sync/core/database"
	"permit-sync/core/dataset"
	"permit-sync/core/reconcile"
	"permit-sync/core/tabular"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPreviewLimit = 10
	maxPreviewLimit     = 1000
)

// Service runs the sync pipeline: stage the export, reconcile it with the
// target table, and apply the resulting plan.
type Service struct {
	client   *database.Client
	executor *Executor
	stager   *tabular.Stager
	source   tabular.Config
	target   reconcile.Config
	policy   reconcile.LocalColumnPolicy
	cache    *reconcile.PlanCache
	logger   *zap.Logger

	// running guards mutating runs; one writer per target table at a time.
	running sync.Mutex
}

// NewService creates a sync service.
func NewService(client *database.Client, stager *tabular.Stager, source tabular.Config, target reconcile.Config, logger *zap.Logger) (*Service, error) {
	policy, err := reconcile.ParsePolicy(target.LocalColumns)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		executor: NewExecutor(client, logger),
		stager:   stager,
		source:   source,
		target:   target,
		policy:   policy,
		cache:    reconcile.NewPlanCache(target.PlanCacheTTL()),
		logger:   logger,
	}, nil
}

// Table returns the target table name.
func (s *Service) Table() string {
	return s.target.Table
}

// Executor returns the executor used for schema and data changes.
func (s *Service) Executor() *Executor {
	return s.executor
}

// snapshot is the pipeline input gathered before reconciling.
type snapshot struct {
	staged    *tabular.Staged
	ds        *dataset.Dataset
	schema    database.TableSchema
	alignment *reconcile.AlignmentPlan
}

// prepare stages and loads the dataset while fetching the table schema.
// The caller must clean up snapshot.staged.
func (s *Service) prepare(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		staged, err := s.stager.Stage(gctx, s.source.DataURL)
		if err != nil {
			return err
		}
		snap.staged = staged
		ds, err := tabular.Load(staged.Path, s.source.Options())
		if err != nil {
			return err
		}
		snap.ds = ds
		return nil
	})
	g.Go(func() error {
		schema, err := s.client.GetTableSchema(gctx, s.target.Table)
		if err != nil {
			return err
		}
		snap.schema = schema
		return nil
	})
	if err := g.Wait(); err != nil {
		_ = snap.staged.Cleanup()
		return nil, err
	}

	alignment, err := reconcile.Reconcile(snap.ds.Names(), snap.schema.Names(), s.policy)
	if err != nil {
		_ = snap.staged.Cleanup()
		return nil, err
	}
	snap.alignment = alignment

	s.logger.Debug("Reconciled dataset with table",
		zap.String("table", s.target.Table),
		zap.Int("dataset_columns", snap.ds.Width()),
		zap.Int("table_columns", len(snap.schema.Columns)),
		zap.Strings("missing_in_table", alignment.MissingInTable),
		zap.Strings("missing_in_dataset", alignment.MissingInDataset))
	return snap, nil
}

// Plan reconciles the source with the target table and returns the actions
// opts would run. Plans are cached for the configured TTL.
func (s *Service) Plan(ctx context.Context, opts reconcile.ReconcileOptions) (*reconcile.SyncPlan, error) {
	key := fmt.Sprintf("%s|add=%t|reorder=%t|load=%t", s.target.Table, opts.AddColumns, opts.Reorder, opts.Load)
	return s.cache.GetOrBuild(ctx, key, func(ctx context.Context) (*reconcile.SyncPlan, error) {
		snap, err := s.prepare(ctx)
		if err != nil {
			return nil, err
		}
		defer snap.staged.Cleanup()

		return reconcile.BuildPlan(s.target.Table, snap.ds.Names(), snap.alignment, opts), nil
	})
}

// RunReport describes a pipeline run.
type RunReport struct {
	// Plan is the plan that was built.
	Plan *reconcile.SyncPlan `json:"plan"`
	// Result is what was executed. Empty for dry runs.
	Result *reconcile.ApplyResult `json:"result"`
	// Schema is the table schema after the run, or the prospective one for dry runs.
	Schema database.TableSchema `json:"schema"`
	// DryRun reports whether nothing was executed.
	DryRun bool `json:"dry_run"`
	// OutputPath is where the reordered dataset was saved, if anywhere.
	OutputPath string `json:"output_path,omitempty"`
}

// Run builds a fresh plan and applies it. Unless opts.Confirmed is set and
// opts.DryRun is not, nothing is executed and the report shows the schema the
// table would have after adding columns.
//
// Only one mutating run may be in flight; a second fails with ErrRunInProgress
// instead of appending the same rows again.
func (s *Service) Run(ctx context.Context, opts reconcile.ReconcileOptions) (*RunReport, error) {
	if opts.Confirmed && !opts.DryRun {
		if !s.running.TryLock() {
			return nil, ErrRunInProgress
		}
		defer s.running.Unlock()
	}

	snap, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}
	defer snap.staged.Cleanup()

	plan := reconcile.BuildPlan(s.target.Table, snap.ds.Names(), snap.alignment, opts)
	report := &RunReport{
		Plan:   plan,
		Result: &reconcile.ApplyResult{AddedColumns: []string{}},
		Schema: snap.schema,
		DryRun: opts.DryRun || !opts.Confirmed,
	}

	if report.DryRun {
		if opts.AddColumns && len(snap.alignment.MissingInTable) > 0 {
			typeOf := TypesFromDataset(snap.ds, s.client.Dialect())
			prospective, err := s.executor.AddMissingColumns(ctx, snap.schema, snap.alignment.MissingInTable, typeOf, true)
			if err != nil {
				return report, err
			}
			report.Schema = prospective
		}
		return report, nil
	}

	state := &runState{svc: s, schema: snap.schema, ds: snap.ds, loadPath: snap.staged.Path}
	defer state.cleanup()

	result, err := reconcile.ApplyPlan(ctx, plan, state, opts)
	report.Result = result
	report.Schema = state.schema
	report.OutputPath = state.saved
	s.cache.Purge()
	if err != nil {
		return report, err
	}

	s.logger.Info("Sync run complete",
		zap.String("table", s.target.Table),
		zap.Int("actions", result.Executed),
		zap.Strings("added_columns", result.AddedColumns),
		zap.Int64("rows_loaded", result.RowsLoaded))
	return report, nil
}

// Load stages source and bulk-loads it into the target table as is.
func (s *Service) Load(ctx context.Context, source string) (int64, error) {
	if !s.running.TryLock() {
		return 0, ErrRunInProgress
	}
	defer s.running.Unlock()

	staged, err := s.stager.Stage(ctx, source)
	if err != nil {
		return 0, err
	}
	defer staged.Cleanup()

	rows, err := s.executor.BulkLoad(ctx, s.target.Table, staged.Path, LoadSpecFromConfig(s.source, s.target.BatchSize))
	s.cache.Purge()
	return rows, err
}

// Schema returns the columns of table, or of the target table when empty.
func (s *Service) Schema(ctx context.Context, table string) (database.TableSchema, error) {
	if table == "" {
		table = s.target.Table
	}
	return s.client.GetTableSchema(ctx, table)
}

// Preview fetches up to limit rows of the target table.
func (s *Service) Preview(ctx context.Context, limit int) (*dataset.Dataset, error) {
	if limit <= 0 {
		limit = defaultPreviewLimit
	}
	if limit > maxPreviewLimit {
		limit = maxPreviewLimit
	}
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", s.client.Quote(s.target.Table), limit)
	return s.client.Fetch(ctx, query)
}

// Health pings the database and, when configured, the storage bucket.
func (s *Service) Health(ctx context.Context) (map[string]string, error) {
	status := map[string]string{"database": "ok"}
	var errs []error

	if err := s.client.Ping(ctx); err != nil {
		status["database"] = err.Error()
		errs = append(errs, err)
	}
	if s.stager.Store != nil {
		status["storage"] = "ok"
		exists, err := s.stager.Store.BucketExists(ctx, s.stager.Bucket)
		switch {
		case err != nil:
			status["storage"] = err.Error()
			errs = append(errs, err)
		case !exists:
			status["storage"] = fmt.Sprintf("bucket %s not found", s.stager.Bucket)
			errs = append(errs, errors.New(status["storage"]))
		}
	}
	return status, errors.Join(errs...)
}
