package recordservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"recordaccess/internal/access"
	"recordaccess/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) SaveRecord(ctx context.Context, rec *models.ContentRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockRepo) RecordByID(ctx context.Context, id string) (*models.ContentRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.ContentRecord), args.Error(1)
}

func (m *mockRepo) FilteredRecords(ctx context.Context, filter models.RecordFilter) ([]*models.ContentRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.ContentRecord), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Record(ctx context.Context, id string) (*models.ContentRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.ContentRecord), args.Error(1)
}

func (m *mockCache) SetRecord(ctx context.Context, rec *models.ContentRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockCache) Children(ctx context.Context, parentID string) ([]*models.ContentRecord, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]*models.ContentRecord), args.Error(1)
}

func (m *mockCache) SetChildren(ctx context.Context, parentID string, records []*models.ContentRecord) error {
	args := m.Called(ctx, parentID, records)
	return args.Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, id string, parentID string) error {
	args := m.Called(ctx, id, parentID)
	return args.Error(0)
}

var fixedNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func newService(repo *mockRepo, cache *mockCache) *RecordService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	evaluator := access.New(access.DefaultPolicy(), func() time.Time { return fixedNow })

	svc := New(log, repo, cache, evaluator)
	svc.now = func() time.Time { return fixedNow }

	return svc
}

func publicImage(id string) *models.ContentRecord {
	return &models.ContentRecord{
		ID:           id,
		ParentID:     "work1",
		Title:        id + ".jpg",
		ResourceType: models.ResourceFile,
		Permissions:  []string{access.PermViewMetadata, access.PermViewAccessCopies, access.PermViewReducedResImages, access.PermViewOriginal},
		GroupRoleMap: models.GroupRoleMap{models.GroupEveryone: {access.RoleCanViewOriginals}},
		Datastream:   []string{"original_file|image/jpeg|" + id + ".jpg|jpg|2048|abc||4000x3000"},
		FileType:     []string{"image/jpeg"},
		Status:       []string{"Public Access"},
	}
}

func metadataOnlyImage(id string) *models.ContentRecord {
	rec := publicImage(id)
	rec.Permissions = []string{access.PermViewMetadata}
	rec.GroupRoleMap = models.GroupRoleMap{models.GroupEveryone: {access.RoleCanViewMetadata}}
	rec.Status = nil
	return rec
}

func work() *models.ContentRecord {
	return &models.ContentRecord{
		ID:           "work1",
		ResourceType: models.ResourceWork,
		Permissions:  []string{access.PermViewMetadata},
		GroupRoleMap: models.GroupRoleMap{models.GroupEveryone: {access.RoleCanViewMetadata}},
	}
}

func TestSaveRecord_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  *models.ContentRecord
	}{
		{"nil", nil},
		{"no id", &models.ContentRecord{ResourceType: models.ResourceFile}},
		{"no type", &models.ContentRecord{ID: "f1"}},
		{"own parent", &models.ContentRecord{ID: "f1", ParentID: "f1", ResourceType: models.ResourceFile}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, cache := new(mockRepo), new(mockCache)
			err := newService(repo, cache).SaveRecord(context.Background(), tt.rec)
			assert.ErrorIs(t, err, models.ErrInvalidParams)
			repo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
		})
	}
}

func TestSaveRecord_New(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)
	rec := publicImage("f1")

	repo.On("RecordByID", ctx, "f1").Return((*models.ContentRecord)(nil), models.ErrRecordNotFound)
	repo.On("SaveRecord", ctx, mock.MatchedBy(func(r *models.ContentRecord) bool {
		return r.ID == "f1" && r.UpdatedAt.Equal(fixedNow)
	})).Return(nil)
	cache.On("Invalidate", ctx, "f1", "work1").Return(nil)

	err := newService(repo, cache).SaveRecord(ctx, rec)
	require.NoError(t, err)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSaveRecord_MovedInvalidatesOldParent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	prev := publicImage("f1")
	prev.ParentID = "work0"

	repo.On("RecordByID", ctx, "f1").Return(prev, nil)
	repo.On("SaveRecord", ctx, mock.Anything).Return(nil)
	cache.On("Invalidate", ctx, "f1", "work1").Return(nil)
	cache.On("Invalidate", ctx, "f1", "work0").Return(errors.New("redis down"))

	err := newService(repo, cache).SaveRecord(ctx, publicImage("f1"))
	assert.NoError(t, err, "cache invalidation failures are logged only")

	cache.AssertExpectations(t)
}

func TestSaveRecord_RepoError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	repo.On("RecordByID", ctx, "f1").Return((*models.ContentRecord)(nil), models.ErrRecordNotFound)
	repo.On("SaveRecord", ctx, mock.Anything).Return(errors.New("db down"))

	err := newService(repo, cache).SaveRecord(ctx, publicImage("f1"))
	assert.ErrorIs(t, err, models.ErrInternal)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		found     error
		deleteErr error
		wantErr   error
	}{
		{name: "deleted", wantErr: nil},
		{name: "missing", found: models.ErrRecordNotFound, wantErr: models.ErrRecordNotFound},
		{name: "lookup failure", found: errors.New("db down"), wantErr: models.ErrInternal},
		{name: "delete race", deleteErr: models.ErrRecordNotFound, wantErr: models.ErrRecordNotFound},
		{name: "delete failure", deleteErr: errors.New("db down"), wantErr: models.ErrInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			repo, cache := new(mockRepo), new(mockCache)

			if tt.found != nil {
				repo.On("RecordByID", ctx, "f1").Return((*models.ContentRecord)(nil), tt.found)
			} else {
				repo.On("RecordByID", ctx, "f1").Return(publicImage("f1"), nil)
				repo.On("Delete", ctx, "f1").Return(tt.deleteErr)
			}
			if tt.wantErr == nil {
				cache.On("Invalidate", ctx, "f1", "work1").Return(nil)
			}

			err := newService(repo, cache).DeleteRecord(ctx, "f1")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestRecordAccess_CacheHit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	cache.On("Record", ctx, "f1").Return(publicImage("f1"), nil)

	decision, err := newService(repo, cache).RecordAccess(ctx, "f1", models.AnonymousViewer())
	require.NoError(t, err)

	assert.False(t, decision.Restricted.Visible)
	assert.True(t, decision.ViewOriginal)
	assert.Len(t, decision.Downloads, 4)
	repo.AssertNotCalled(t, "RecordByID", mock.Anything, mock.Anything)
}

func TestRecordAccess_CacheMissFillsCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)
	rec := metadataOnlyImage("f1")

	cache.On("Record", ctx, "f1").Return((*models.ContentRecord)(nil), nil)
	repo.On("RecordByID", ctx, "f1").Return(rec, nil)
	cache.On("SetRecord", ctx, rec).Return(nil)

	decision, err := newService(repo, cache).RecordAccess(ctx, "f1", models.AnonymousViewer())
	require.NoError(t, err)

	assert.True(t, decision.Restricted.Visible)
	assert.False(t, decision.ViewOriginal)
	assert.Empty(t, decision.Downloads)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestRecordAccess_CacheErrorFallsBackToDB(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)
	rec := publicImage("f1")

	cache.On("Record", ctx, "f1").Return((*models.ContentRecord)(nil), errors.New("redis down"))
	repo.On("RecordByID", ctx, "f1").Return(rec, nil)
	cache.On("SetRecord", ctx, rec).Return(errors.New("redis down"))

	_, err := newService(repo, cache).RecordAccess(ctx, "f1", models.AnonymousViewer())
	assert.NoError(t, err)
}

func TestRecordAccess_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	cache.On("Record", ctx, "nope").Return((*models.ContentRecord)(nil), nil)
	repo.On("RecordByID", ctx, "nope").Return((*models.ContentRecord)(nil), models.ErrRecordNotFound)

	_, err := newService(repo, cache).RecordAccess(ctx, "nope", models.AnonymousViewer())
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
	assert.ErrorContains(t, err, "RecordAccess")
}

func TestRecordAccess_MalformedEmbargoFailsClosed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)
	rec := publicImage("f1")
	rec.EmbargoDate = "someday"

	cache.On("Record", ctx, "f1").Return(rec, nil)

	decision, err := newService(repo, cache).RecordAccess(ctx, "f1", models.AnonymousViewer())
	require.NoError(t, err)

	assert.True(t, decision.Embargo.Active)
	assert.True(t, decision.Embargo.Malformed)
	assert.False(t, decision.ViewOriginal)
	assert.Empty(t, decision.Downloads)
}

func TestFileList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	files := []*models.ContentRecord{publicImage("f1"), metadataOnlyImage("f2"), publicImage("f3")}
	files[2].Status = []string{"Marked For Deletion", "Public Access"}

	cache.On("Record", ctx, "work1").Return(work(), nil)
	cache.On("Children", ctx, "work1").Return(([]*models.ContentRecord)(nil), nil)
	repo.On("FilteredRecords", ctx, models.RecordFilter{ParentID: "work1", ResourceType: models.ResourceFile}).Return(files, nil)
	cache.On("SetChildren", ctx, "work1", files).Return(nil)

	list, err := newService(repo, cache).FileList(ctx, "work1", models.AnonymousViewer(), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	entries := list.Entries
	require.Len(t, entries, 3)

	assert.True(t, entries[0].ViewOriginal)
	assert.Len(t, entries[0].Downloads, 4)
	assert.Equal(t, models.Badges{}, entries[0].Badges)

	assert.False(t, entries[1].ViewOriginal)
	require.Len(t, entries[1].Downloads, 1)
	assert.True(t, entries[1].Downloads[0].Disabled)
	assert.True(t, entries[1].Badges.Restricted)

	assert.True(t, entries[2].Badges.MarkDeleted)
	assert.False(t, entries[2].Embargo.Active)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestFileList_CachedChildrenWithLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	files := []*models.ContentRecord{publicImage("f1"), publicImage("f2"), publicImage("f3")}

	cache.On("Record", ctx, "work1").Return(work(), nil)
	cache.On("Children", ctx, "work1").Return(files, nil)

	list, err := newService(repo, cache).FileList(ctx, "work1", models.AnonymousViewer(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "f2", list.Entries[1].Record.ID)

	repo.AssertNotCalled(t, "FilteredRecords", mock.Anything, mock.Anything)
}

func TestFileList_EmbargoedFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	embargoed := publicImage("f1")
	embargoed.EmbargoDate = "2199-12-31T20:34:01.799Z"
	files := []*models.ContentRecord{embargoed}

	cache.On("Record", ctx, "work1").Return(work(), nil)
	cache.On("Children", ctx, "work1").Return(files, nil)

	list, err := newService(repo, cache).FileList(ctx, "work1", models.AnonymousViewer(), 0)
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)

	entry := list.Entries[0]
	assert.True(t, entry.Embargo.Active)
	assert.NotEmpty(t, entry.Embargo.Message)
	assert.False(t, entry.ViewOriginal)
	assert.Empty(t, entry.Downloads)
}

func TestFileList_UnknownWork(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	cache.On("Record", ctx, "ghost").Return((*models.ContentRecord)(nil), nil)
	repo.On("RecordByID", ctx, "ghost").Return((*models.ContentRecord)(nil), models.ErrRecordNotFound)

	_, err := newService(repo, cache).FileList(ctx, "ghost", models.AnonymousViewer(), 0)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

func TestFileList_RepoError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cache := new(mockRepo), new(mockCache)

	cache.On("Record", ctx, "work1").Return(work(), nil)
	cache.On("Children", ctx, "work1").Return(([]*models.ContentRecord)(nil), nil)
	repo.On("FilteredRecords", ctx, mock.Anything).Return(([]*models.ContentRecord)(nil), errors.New("db down"))

	_, err := newService(repo, cache).FileList(ctx, "work1", models.AnonymousViewer(), 0)
	assert.ErrorIs(t, err, models.ErrInternal)
}
