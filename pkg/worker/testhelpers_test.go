package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sopds/catalog/internal/testgen"
	"github.com/sopds/catalog/pkg/config"
	"github.com/sopds/catalog/pkg/jobs"
	"github.com/sopds/catalog/pkg/models"
	"github.com/sopds/catalog/pkg/testutils"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// testContext holds a worker wired to an in-memory database and a temporary
// library root.
type testContext struct {
	t      *testing.T
	ctx    context.Context
	db     *bun.DB
	cfg    *config.Config
	root   string
	worker *Worker
}

func newTestContext(t *testing.T, configure ...func(cfg *config.Config)) *testContext {
	t.Helper()

	cfg := config.NewForTest()
	cfg.LibraryRootPath = t.TempDir()
	cfg.ScanWorkers = 2
	for _, fn := range configure {
		fn(cfg)
	}

	db := testutils.NewDB(t)
	return &testContext{
		t:      t,
		ctx:    context.Background(),
		db:     db,
		cfg:    cfg,
		root:   cfg.LibraryRootPath,
		worker: New(cfg, db),
	}
}

func (tc *testContext) path(rel string) string {
	return filepath.Join(tc.root, filepath.FromSlash(rel))
}

func (tc *testContext) writeFB2(rel string, opts testgen.FB2Options) {
	testgen.WriteFB2(tc.t, tc.path(rel), opts)
}

func (tc *testContext) count(model interface{}) int {
	tc.t.Helper()
	n, err := tc.db.NewSelect().Model(model).Count(tc.ctx)
	require.NoError(tc.t, err)
	return n
}

func (tc *testContext) books() []*models.Book {
	tc.t.Helper()
	var books []*models.Book
	err := tc.db.NewSelect().Model(&books).Relation("Authors").Relation("Genres").Order("b.path ASC").Scan(tc.ctx)
	require.NoError(tc.t, err)
	return books
}

func (tc *testContext) lastJob() *models.Job {
	tc.t.Helper()
	list, err := jobs.NewService(tc.db).ListJobs(tc.ctx, jobs.ListJobsOptions{})
	require.NoError(tc.t, err)
	require.NotEmpty(tc.t, list)
	return list[0]
}

func stats(processed, added, updated, errs int64) [4]int64 {
	return [4]int64{processed, added, updated, errs}
}

func counters(s models.ScanStatistics) [4]int64 {
	return [4]int64{s.Processed, s.Added, s.Updated, s.Errors}
}
