package worker

import (
	"bytes"
	"os"
	"testing"

	"github.com/sopds/catalog/internal/testgen"
	"github.com/sopds/catalog/pkg/config"
	"github.com/sopds/catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

var ivanov = testgen.FB2Author{First: "Ivan", Last: "Ivanov"}

func TestRunScan_EndToEnd(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t)

	foo := testgen.FB2Options{Title: "Foo", Authors: []testgen.FB2Author{ivanov}, Genres: []string{"sf_space"}}
	tc.writeFB2("a/title.fb2", foo)
	testgen.WriteZip(t, tc.path("lib.zip"), testgen.ZipEntry{Name: "b.fb2", Data: testgen.FB2(foo)})
	testgen.WriteFile(t, tc.path("notes.txt"), []byte("not a book"))

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(2, 2, 0, 0), counters(s))
	require.NotNil(t, s.StartedAt)
	require.NotNil(t, s.FinishedAt)
	assert.False(t, tc.worker.IsScanning())

	books := tc.books()
	require.Len(t, books, 2)
	assert.Equal(t, "a/title.fb2", books[0].Path)
	assert.Equal(t, "lib.zip/b.fb2", books[1].Path)
	assert.Equal(t, "b.fb2", books[1].Filename)
	for _, b := range books {
		assert.Equal(t, "Foo", b.Title)
		assert.Equal(t, "FB2", b.Format)
		require.Len(t, b.Authors, 1)
		assert.Equal(t, "Ivanov Ivan", b.Authors[0].FullName)
	}
	assert.Equal(t, books[0].Authors[0].ID, books[1].Authors[0].ID)
	assert.Equal(t, 1, tc.count((*models.Author)(nil)))

	job := tc.lastJob()
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	data := job.DataParsed.(*models.JobScanData)
	assert.Equal(t, models.ScanTriggerManual, data.Trigger)
	assert.Equal(t, stats(2, 2, 0, 0), counters(data.Statistics))
}

func TestRunScan_Idempotent(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t)

	tc.writeFB2("a.fb2", testgen.FB2Options{Title: "A", Authors: []testgen.FB2Author{ivanov}})
	tc.writeFB2("nested/deeper/b.fb2", testgen.FB2Options{Title: "B", Authors: []testgen.FB2Author{ivanov}})

	first, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(2, 2, 0, 0), counters(first))

	second, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(2, 0, 0, 0), counters(second))

	assert.Equal(t, 2, tc.count((*models.Book)(nil)))
	assert.Equal(t, 1, tc.count((*models.Author)(nil)))
}

func TestRunScan_SizeLimit(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t, func(cfg *config.Config) {
		cfg.MaxFileSizeMB = 1
	})

	testgen.WriteFile(t, tc.path("small.pdf"), bytes.Repeat([]byte{'x'}, 1024*1024+512*1024))
	testgen.WriteFile(t, tc.path("big.pdf"), bytes.Repeat([]byte{'x'}, 2*1024*1024+1))

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(1, 1, 0, 0), counters(s))

	books := tc.books()
	require.Len(t, books, 1)
	assert.Equal(t, "small.pdf", books[0].Path)
	assert.Equal(t, "small", books[0].Title)
	assert.Equal(t, "PDF", books[0].Format)
	assert.InDelta(t, 1.5, books[0].FilesizeMB, 0.001)
}

func TestRunScan_SizeLimitIgnoresArchiveEntries(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t, func(cfg *config.Config) {
		cfg.MaxFileSizeMB = 1
	})

	// The container itself compresses to a few kilobytes.
	testgen.WriteZip(t, tc.path("lib.zip"), testgen.ZipEntry{Name: "huge.pdf", Data: bytes.Repeat([]byte{'x'}, 3*1024*1024)})

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(1, 1, 0, 0), counters(s))

	books := tc.books()
	require.Len(t, books, 1)
	assert.Equal(t, "lib.zip/huge.pdf", books[0].Path)
	assert.InDelta(t, 3.0, books[0].FilesizeMB, 0.001)
}

func TestRunScan_ErrorsAreCounted(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t)

	testgen.WriteFile(t, tc.path("broken.fb2"), []byte("<FictionBook><description>"))
	testgen.WriteFile(t, tc.path("bare.fb2"), []byte(`<?xml version="1.0"?><FictionBook><body/></FictionBook>`))
	testgen.WriteFile(t, tc.path("fake.zip"), []byte("definitely not a zip archive"))

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	// broken.fb2 is counted as an error but still catalogued. bare.fb2 has
	// no metadata, which is not an error. fake.zip can't be opened.
	assert.Equal(t, stats(2, 2, 0, 2), counters(s))

	books := tc.books()
	require.Len(t, books, 2)
	assert.Equal(t, "bare", books[0].Title)
	assert.Equal(t, "broken", books[1].Title)
	assert.Equal(t, "FB2", books[1].Format)
}

func TestRunScan_ArchiveFiltering(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t)

	doc := testgen.FB2Options{Title: "Inside"}
	testgen.WriteZip(t, tc.path("lib.zip"),
		testgen.ZipEntry{Name: "dir/", Data: nil},
		testgen.ZipEntry{Name: "dir/one.fb2", Data: testgen.FB2(doc)},
		testgen.ZipEntry{Name: "two.PDF", Data: []byte("%PDF-1.4")},
		testgen.ZipEntry{Name: "readme.txt", Data: []byte("hi")},
		testgen.ZipEntry{Name: "inner.zip", Data: []byte("PK")},
	)

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(2, 2, 0, 0), counters(s))

	books := tc.books()
	require.Len(t, books, 2)
	assert.Equal(t, "lib.zip/dir/one.fb2", books[0].Path)
	assert.Equal(t, "one.fb2", books[0].Filename)
	assert.Equal(t, "Inside", books[0].Title)
	assert.Equal(t, "lib.zip/two.PDF", books[1].Path)
	assert.Equal(t, "PDF", books[1].Format)
}

func TestRunScan_ArchivesDisabled(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t, func(cfg *config.Config) {
		cfg.ZipScanEnabled = false
	})

	testgen.WriteZip(t, tc.path("lib.zip"), testgen.ZipEntry{Name: "b.fb2", Data: testgen.FB2(testgen.FB2Options{Title: "B"})})

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(0, 0, 0, 0), counters(s))
}

func TestRunScan_ManyFilesInParallel(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t, func(cfg *config.Config) {
		cfg.ScanWorkers = 4
	})

	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		tc.writeFB2(name+"/book.fb2", testgen.FB2Options{
			Title:   "Book " + name,
			Authors: []testgen.FB2Author{ivanov},
			Series:  "Cycle",
		})
	}

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(12, 12, 0, 0), counters(s))
	assert.Equal(t, 1, tc.count((*models.Author)(nil)))
	assert.Equal(t, 1, tc.count((*models.Series)(nil)))
}

func TestRunScan_CreatesMissingRoot(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t)
	tc.cfg.LibraryRootPath = tc.path("not/yet/there")

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerStartup)
	require.NoError(t, err)
	assert.Equal(t, stats(0, 0, 0, 0), counters(s))

	info, err := os.Stat(tc.cfg.LibraryRootPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunScan_UnusableRootAborts(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t)
	testgen.WriteFile(t, tc.path("file"), []byte("x"))
	tc.cfg.LibraryRootPath = tc.path("file/books")

	_, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.Error(t, err)
	assert.False(t, tc.worker.IsScanning())

	job := tc.lastJob()
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.NotEmpty(t, job.DataParsed.(*models.JobScanData).Error)

	// The guard is released, so the next run can start.
	tc.cfg.LibraryRootPath = tc.root
	_, err = tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
}

func TestRunScan_LegacyEntryNames(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t, func(cfg *config.Config) {
		cfg.ZipEncoding = "cp866"
	})

	testgen.WriteLegacyZip(t, tc.path("fb2-000001.zip"), charmap.CodePage866,
		testgen.ZipEntry{Name: "Толстой/Война и мир.fb2", Data: testgen.FB2(testgen.FB2Options{Title: "Война и мир"})},
	)

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(1, 1, 0, 0), counters(s))

	books := tc.books()
	require.Len(t, books, 1)
	assert.Equal(t, "fb2-000001.zip/Толстой/Война и мир.fb2", books[0].Path)
	assert.Equal(t, "Война и мир.fb2", books[0].Filename)
	assert.Equal(t, "Война и мир", books[0].Title)
}

func TestRunScan_EmptyTitleFallsBackToFilename(t *testing.T) {
	t.Parallel()
	tc := newTestContext(t)

	testgen.WriteFile(t, tc.path("untitled.fb2"), []byte(`<?xml version="1.0" encoding="UTF-8"?>
<FictionBook xmlns="http://www.gribuser.ru/xml/fictionbook/2.0"><description><title-info>`+
		`<genre>sf_space</genre><author><first-name>Ivan</first-name><last-name>Ivanov</last-name></author>`+
		`<book-title/><lang>ru</lang><sequence name="Cycle" number="2"/>`+
		`</title-info></description><body/></FictionBook>`))

	s, err := tc.worker.RunScan(tc.ctx, models.ScanTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, stats(1, 1, 0, 0), counters(s))

	books := tc.books()
	require.Len(t, books, 1)
	assert.Equal(t, "untitled", books[0].Title)
	assert.Equal(t, "FB2", books[0].Format)
	assert.Empty(t, books[0].Authors)
	assert.Empty(t, books[0].Genres)
	assert.Nil(t, books[0].SeriesID)
	assert.Empty(t, books[0].Lang)
	assert.Equal(t, 0, tc.count((*models.Author)(nil)))
	assert.Equal(t, 0, tc.count((*models.Series)(nil)))
}
