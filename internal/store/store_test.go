package store

import (
	"testing"
	"time"

	"lead-radar/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createFlaggedThread(t *testing.T, db *gorm.DB, sourceID string, flaggedUTC int64) models.Thread {
	thread := models.Thread{
		Source:         "reddit",
		SourceThreadID: sourceID,
		Subreddit:      "Atlanta",
		Title:          "Need a plumber " + sourceID,
		CreatedUTC:     flaggedUTC - 100,
	}
	if err := db.Create(&thread).Error; err != nil {
		t.Fatalf("Failed to create thread: %v", err)
	}
	state := models.ThreadState{
		ThreadID:   thread.ID,
		Watching:   true,
		InArea:     models.InAreaUnknown,
		Flagged:    true,
		FlaggedUTC: &flaggedUTC,
	}
	if err := db.Create(&state).Error; err != nil {
		t.Fatalf("Failed to create state: %v", err)
	}
	return thread
}

func TestListFlaggedThreads(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	older := createFlaggedThread(t, db, "t3_old", 1000)
	newer := createFlaggedThread(t, db, "t3_new", 2000)
	dismissed := createFlaggedThread(t, db, "t3_gone", 3000)
	db.Model(&models.ThreadState{}).Where("thread_id = ?", dismissed.ID).Update("dismissed", true)

	// An unflagged thread never appears.
	unflagged := models.Thread{Source: "reddit", SourceThreadID: "t3_quiet", CreatedUTC: 4000}
	db.Create(&unflagged)
	db.Create(&models.ThreadState{ThreadID: unflagged.ID, InArea: models.InAreaUnknown})

	items, err := service.ListFlaggedThreads(10, 0)
	if err != nil {
		t.Fatalf("ListFlaggedThreads failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 queue items, got %d", len(items))
	}
	assert.Equal(t, newer.ID, items[0].Thread.ID, "newest flag first")
	assert.Equal(t, older.ID, items[1].Thread.ID)
	assert.True(t, items[0].State.Flagged)
	assert.Nil(t, items[0].Thread.State, "state is lifted out of the thread")
}

func TestListFlaggedThreadsPagination(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	for i := int64(1); i <= 5; i++ {
		createFlaggedThread(t, db, "t3_"+string(rune('a'+i)), i*1000)
	}

	page1, err := service.ListFlaggedThreads(2, 0)
	if err != nil {
		t.Fatalf("ListFlaggedThreads failed: %v", err)
	}
	page2, err := service.ListFlaggedThreads(2, 2)
	if err != nil {
		t.Fatalf("ListFlaggedThreads failed: %v", err)
	}

	assert.Len(t, page1, 2)
	assert.Len(t, page2, 2)
	assert.NotEqual(t, page1[0].Thread.ID, page2[0].Thread.ID)
}

func TestGetThreadDetail(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	thread := createFlaggedThread(t, db, "t3_abc", 1000)

	comments := []models.Comment{
		{ThreadID: thread.ID, Source: "reddit", SourceCommentID: "c2", Body: "later", CreatedUTC: 1300},
		{ThreadID: thread.ID, Source: "reddit", SourceCommentID: "c1", Body: "earlier", CreatedUTC: 1100},
	}
	for i := range comments {
		if err := db.Create(&comments[i]).Error; err != nil {
			t.Fatalf("Failed to create comment: %v", err)
		}
	}

	drafts := []models.DraftResponse{
		{ThreadID: thread.ID, DraftText: "machine draft", DraftVersion: 1, Status: models.DraftStatusSuggested},
		{ThreadID: thread.ID, DraftText: "human draft", DraftVersion: 2, Status: models.DraftStatusEdited},
	}
	for i := range drafts {
		if err := db.Create(&drafts[i]).Error; err != nil {
			t.Fatalf("Failed to create draft: %v", err)
		}
	}

	hit := models.RuleHit{RunID: uuid.New(), ThreadID: thread.ID, HitType: models.HitTypeKeyword, MatchedTerm: "plumber", MatchContext: models.MatchContextTitle}
	if err := db.Create(&hit).Error; err != nil {
		t.Fatalf("Failed to create rule hit: %v", err)
	}

	detail, err := service.GetThreadDetail(thread.ID)
	if err != nil {
		t.Fatalf("GetThreadDetail failed: %v", err)
	}
	if detail == nil {
		t.Fatal("Expected a detail view")
	}

	assert.Equal(t, thread.ID, detail.Thread.ID)
	assert.NotNil(t, detail.State)
	if assert.Len(t, detail.Comments, 2) {
		assert.Equal(t, "earlier", detail.Comments[0].Body, "comments in conversational order")
	}
	if assert.NotNil(t, detail.LatestDraft) {
		assert.Equal(t, "human draft", detail.LatestDraft.DraftText)
	}
	assert.Len(t, detail.RuleHits, 1)
}

func TestGetThreadDetailNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	detail, err := service.GetThreadDetail(99)
	if err != nil {
		t.Fatalf("GetThreadDetail failed: %v", err)
	}
	if detail != nil {
		t.Errorf("Expected nil for missing thread, got %+v", detail)
	}
}

func TestSaveEditedDraftVersions(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	thread := createFlaggedThread(t, db, "t3_abc", 1000)

	evalID := uint(7)
	suggested := models.DraftResponse{
		ThreadID:     thread.ID,
		GenaiEvalID:  &evalID,
		DraftText:    "machine draft",
		DraftVersion: 1,
		Status:       models.DraftStatusSuggested,
	}
	if err := db.Create(&suggested).Error; err != nil {
		t.Fatalf("Failed to create draft: %v", err)
	}

	found, err := service.SaveEditedDraft(thread.ID, "polished by a human", "reviewer@example.com")
	if err != nil {
		t.Fatalf("SaveEditedDraft failed: %v", err)
	}
	assert.True(t, found)

	var drafts []models.DraftResponse
	db.Where("thread_id = ?", thread.ID).Order("draft_version ASC").Find(&drafts)
	if len(drafts) != 2 {
		t.Fatalf("Expected 2 drafts, got %d", len(drafts))
	}
	assert.Equal(t, "machine draft", drafts[0].DraftText, "prior draft untouched")
	assert.Equal(t, 2, drafts[1].DraftVersion)
	assert.Equal(t, models.DraftStatusEdited, drafts[1].Status)
	if assert.NotNil(t, drafts[1].GenaiEvalID) {
		assert.Equal(t, evalID, *drafts[1].GenaiEvalID, "edit carries the eval linkage forward")
	}

	var action models.ReviewAction
	if err := db.First(&action, "thread_id = ?", thread.ID).Error; err != nil {
		t.Fatalf("Expected a review action: %v", err)
	}
	assert.Equal(t, models.ActionTypeEditDraft, action.ActionType)
	assert.Equal(t, "reviewer@example.com", action.Actor)
}

func TestSaveEditedDraftMissingThread(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	found, err := service.SaveEditedDraft(42, "text", "someone")
	if err != nil {
		t.Fatalf("SaveEditedDraft failed: %v", err)
	}
	assert.False(t, found)
}

func TestDismissThreadRemovesFromQueue(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	thread := createFlaggedThread(t, db, "t3_abc", 1000)

	found, err := service.DismissThread(thread.ID, "reviewer")
	if err != nil {
		t.Fatalf("DismissThread failed: %v", err)
	}
	assert.True(t, found)

	items, err := service.ListFlaggedThreads(10, 0)
	if err != nil {
		t.Fatalf("ListFlaggedThreads failed: %v", err)
	}
	assert.Empty(t, items, "dismissed thread leaves the queue")

	var state models.ThreadState
	db.First(&state, "thread_id = ?", thread.ID)
	assert.True(t, state.Dismissed)
	assert.True(t, state.Flagged, "dismissal does not clear the flag history")

	var action models.ReviewAction
	if err := db.First(&action, "thread_id = ?", thread.ID).Error; err != nil {
		t.Fatalf("Expected a review action: %v", err)
	}
	assert.Equal(t, models.ActionTypeDismiss, action.ActionType)
}

func TestSnoozeThread(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	thread := createFlaggedThread(t, db, "t3_abc", 1000)
	until := time.Now().Add(24 * time.Hour).Unix()

	found, err := service.SnoozeThread(thread.ID, until, "reviewer")
	if err != nil {
		t.Fatalf("SnoozeThread failed: %v", err)
	}
	assert.True(t, found)

	var state models.ThreadState
	db.First(&state, "thread_id = ?", thread.ID)
	if assert.NotNil(t, state.SnoozedUntil) {
		assert.Equal(t, until, *state.SnoozedUntil)
	}

	// Snoozed threads stay in the queue; only classification pauses.
	items, err := service.ListFlaggedThreads(10, 0)
	if err != nil {
		t.Fatalf("ListFlaggedThreads failed: %v", err)
	}
	assert.Len(t, items, 1)

	var action models.ReviewAction
	if err := db.First(&action, "thread_id = ?", thread.ID).Error; err != nil {
		t.Fatalf("Expected a review action: %v", err)
	}
	assert.Equal(t, models.ActionTypeSnooze, action.ActionType)
	assert.NotEmpty(t, action.ActionValue)
}

func TestListRecentRuns(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	for i := int64(1); i <= 3; i++ {
		run := models.Run{
			ID:         uuid.New(),
			Source:     "reddit",
			StartedUTC: i * 1000,
			Status:     models.RunStatusSuccess,
		}
		if err := db.Create(&run).Error; err != nil {
			t.Fatalf("Failed to create run: %v", err)
		}
	}

	runs, err := service.ListRecentRuns(2)
	if err != nil {
		t.Fatalf("ListRecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	assert.Equal(t, int64(3000), runs[0].StartedUTC, "newest run first")
}
