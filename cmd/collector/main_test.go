package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gongkao-sync/internal/config"
	"go-gongkao-sync/internal/models"
)

type fakeStore struct {
	details     []models.PostingDetail
	saveErr     error
	calls       []string
	savedLabel  string
	saved       []models.JobPosting
	clearedOnce bool
}

func (f *fakeStore) SaveStubs(string, []models.PostingStub) (string, error) { return "", nil }

func (f *fakeStore) LatestStubs() ([]models.PostingStub, string, error) { return nil, "", nil }

func (f *fakeStore) UpsertDetails([]models.PostingDetail) (int, error) { return 0, nil }

func (f *fakeStore) LatestPostings() ([]models.JobPosting, string, error) { return nil, "", nil }

func (f *fakeStore) LoadDetails() ([]models.PostingDetail, error) {
	f.calls = append(f.calls, "load")
	return f.details, nil
}

func (f *fakeStore) SavePostings(label string, postings []models.JobPosting) (string, error) {
	f.calls = append(f.calls, "save")
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.savedLabel, f.saved = label, postings
	return "postings_" + label + ".json", nil
}

func (f *fakeStore) ClearDetails() error {
	f.calls = append(f.calls, "clear")
	f.clearedOnce = true
	return nil
}

func newTestApp(store stageStore) *app {
	cfg := config.Default()
	cfg.Crawl.TargetMonth = "2026-01"
	return &app{cfg: cfg, cmd: "process", started: time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC), store: store}
}

var processStubs = []models.PostingStub{
	{Title: "2026年南京市XX局公开招聘工作人员公告", URL: "https://x.com/article/1", DateHint: "2026-01-05"},
}

func TestProcessClearsDetailsAfterSave(t *testing.T) {
	store := &fakeStore{details: []models.PostingDetail{{URL: "https://x.com/article/1", Content: "招聘人数：3人"}}}

	postings, err := newTestApp(store).process(processStubs)

	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, "3人", postings[0].Headcount)
	assert.Equal(t, []string{"load", "save", "clear"}, store.calls)
	assert.Equal(t, "202601", store.savedLabel)
	assert.Equal(t, postings, store.saved)
}

func TestProcessKeepsDetailsWhenSaveFails(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}

	_, err := newTestApp(store).process(processStubs)

	assert.Error(t, err)
	assert.Equal(t, []string{"load", "save"}, store.calls)
	assert.False(t, store.clearedOnce)
}
