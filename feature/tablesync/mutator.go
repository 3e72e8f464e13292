package tablesync

import (
	"context"

	"permit-sync/core/database"
	"permit-sync/core/dataset"
	"permit-sync/core/reconcile"
	"permit-sync/core/tabular"

	"go.uber.org/zap"
)

// runState carries one pipeline run through the plan actions.
// It implements reconcile.Mutator.
type runState struct {
	svc      *Service
	schema   database.TableSchema
	ds       *dataset.Dataset
	loadPath string
	saved    string
	temps    []*tabular.Staged
}

var _ reconcile.Mutator = (*runState)(nil)

func (r *runState) AddColumns(ctx context.Context, _ string, columns []string) error {
	typeOf := TypesFromDataset(r.ds, r.svc.executor.client.Dialect())
	schema, err := r.svc.executor.AddMissingColumns(ctx, r.schema, columns, typeOf, false)
	r.schema = schema
	return err
}

// Reorder rearranges the dataset in place and writes it out, either to the
// configured output path or to a temporary file, so the load reads the new order.
func (r *runState) Reorder(ctx context.Context, columns []string) error {
	if _, err := reconcile.ApplyOrder(r.ds, columns, true); err != nil {
		return err
	}

	opts := r.svc.source.Options()
	if r.svc.source.OutputPath != "" {
		staged, err := r.svc.stager.Save(ctx, r.svc.source.OutputPath, r.ds, opts)
		if err != nil {
			return err
		}
		r.temps = append(r.temps, staged)
		r.loadPath = staged.Path
		r.saved = r.svc.source.OutputPath
		r.svc.logger.Info("Saved reordered dataset", zap.String("path", r.saved))
		return nil
	}

	staged, err := r.svc.stager.WriteTemp(r.ds, opts)
	if err != nil {
		return err
	}
	r.temps = append(r.temps, staged)
	r.loadPath = staged.Path
	return nil
}

func (r *runState) BulkLoad(ctx context.Context, table string) (int64, error) {
	spec := LoadSpecFromConfig(r.svc.source, r.svc.target.BatchSize)
	return r.svc.executor.BulkLoad(ctx, table, r.loadPath, spec)
}

func (r *runState) cleanup() {
	for _, s := range r.temps {
		if err := s.Cleanup(); err != nil {
			r.svc.logger.Warn("Failed to remove temporary file", zap.String("path", s.Path), zap.Error(err))
		}
	}
}
