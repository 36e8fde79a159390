package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lead-radar/internal/genai"
	"lead-radar/internal/models"
	"lead-radar/internal/rules"
	"lead-radar/internal/settings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service runs the per-thread evaluation state machine. A nil classifier
// disables the classification stage entirely (the run then finishes
// partial); rule passes still happen.
type Service struct {
	db         *gorm.DB
	classifier genai.Classifier
}

// NewService creates an evaluation service.
func NewService(db *gorm.DB, classifier genai.Classifier) *Service {
	return &Service{db: db, classifier: classifier}
}

// Stats reports what one thread's evaluation did, for the run ledger.
type Stats struct {
	RuleHits     int
	GenaiCalls   int
	NewlyFlagged bool
}

// ProcessThread runs the rule pass and, when warranted, one gated
// classification call for a single thread. Comments must be the thread's
// full comment history ordered ascending by creation time.
func (s *Service) ProcessThread(ctx context.Context, runID uuid.UUID, thread models.Thread, state *models.ThreadState, comments []models.Comment, cfg settings.Settings, nowUTC int64) (Stats, error) {
	var stats Stats

	// Dismissed is terminal for the pipeline; closed threads are left alone
	// too.
	if state.Closed || state.Dismissed {
		return stats, nil
	}

	passHits, scanned, err := s.rulePass(runID, thread, state, comments, cfg, nowUTC)
	if err != nil {
		return stats, err
	}
	if scanned {
		stats.RuleHits = len(passHits)
	}

	positive := scanned && rules.IsPositive(passHits)

	if !s.shouldEvaluate(thread, state, comments, cfg, positive, nowUTC) {
		return stats, nil
	}

	newlyFlagged, err := s.classify(ctx, runID, thread, state, comments, cfg, passHits, nowUTC)
	if err != nil {
		return stats, err
	}
	stats.GenaiCalls = 1
	stats.NewlyFlagged = newlyFlagged
	return stats, nil
}

// rulePass scans the thread (or only its delta comments) and persists the
// evidence. Returns the hits of this pass and whether anything was
// scanned; a delta pass with zero new comments scans nothing and leaves
// the watermark untouched.
func (s *Service) rulePass(runID uuid.UUID, thread models.Thread, state *models.ThreadState, comments []models.Comment, cfg settings.Settings, nowUTC int64) ([]rules.Hit, bool, error) {
	var passHits []rules.Hit

	if state.LastRuleCheckUTC != nil {
		delta := CommentsSince(comments, *state.LastRuleCheckUTC)
		if len(delta) == 0 {
			return nil, false, nil
		}
		for _, comment := range delta {
			passHits = append(passHits, rules.EvaluateComment(comment, cfg)...)
		}
	} else {
		passHits = rules.EvaluateThread(thread, comments, cfg)
	}

	if len(passHits) > 0 {
		rows := make([]models.RuleHit, 0, len(passHits))
		for _, hit := range passHits {
			row := models.RuleHit{
				RunID:        runID,
				ThreadID:     thread.ID,
				HitType:      hit.HitType,
				MatchedTerm:  hit.MatchedTerm,
				MatchContext: hit.MatchContext,
			}
			if hit.CommentID != 0 {
				commentID := hit.CommentID
				row.CommentID = &commentID
			}
			rows = append(rows, row)
		}
		if err := s.db.Create(&rows).Error; err != nil {
			return nil, false, fmt.Errorf("failed to persist rule hits: %w", err)
		}
	}

	inArea, evidence := rules.InferLocation(thread, comments, cfg)
	state.InArea = inArea
	state.LocationEvidence = evidence
	state.LastRuleCheckUTC = &nowUTC
	if latest := latestCommentUTC(comments); latest != 0 {
		state.LastSeenCommentUTC = &latest
	}

	positive := rules.IsPositive(passHits)
	shouldWatch := positive &&
		state.InArea != models.InAreaFalse &&
		(state.InArea != models.InAreaUnknown || cfg.IncludeUnknownLocation)

	if shouldWatch && !state.Watching && !state.Dismissed {
		state.Watching = true
		state.ActiveUntilUTC = thread.CreatedUTC + int64(cfg.ActiveWindowDays)*86400
	}

	if err := s.db.Save(state).Error; err != nil {
		return nil, false, fmt.Errorf("failed to update thread state: %w", err)
	}

	return passHits, true, nil
}

// shouldEvaluate is the classification gate.
func (s *Service) shouldEvaluate(thread models.Thread, state *models.ThreadState, comments []models.Comment, cfg settings.Settings, positive bool, nowUTC int64) bool {
	if s.classifier == nil {
		return false
	}
	if state.Closed || state.Dismissed {
		return false
	}
	if state.SnoozedUntil != nil && nowUTC < *state.SnoozedUntil {
		return false
	}
	if state.InArea == models.InAreaFalse {
		return false
	}
	if state.InArea == models.InAreaUnknown && !cfg.IncludeUnknownLocation {
		return false
	}
	if state.GenaiEvalCount >= cfg.MaxGenaiEvalsPerThread {
		return false
	}
	if state.LastGenaiEvalUTC != nil && nowUTC-*state.LastGenaiEvalUTC < int64(cfg.GenaiCooldownMinutes)*60 {
		return false
	}

	// Trigger (a): fresh positive rule evidence on a thread not yet flagged.
	if positive && !state.Flagged {
		return true
	}

	// Trigger (b): a watched thread accumulated enough new comments since
	// the last evaluation (or since creation, if never evaluated).
	if state.Watching {
		watermark := thread.CreatedUTC
		if state.LastGenaiEvalUTC != nil {
			watermark = *state.LastGenaiEvalUTC
		}
		if len(CommentsSince(comments, watermark)) >= cfg.DeltaMinNewComments {
			return true
		}
	}

	return false
}

// classify builds the payload, calls the classification service with the
// at-most-one-retry policy, and applies the verdict transactionally.
// Exactly one GenaiEval row is written per gate pass regardless of
// outcome.
func (s *Service) classify(ctx context.Context, runID uuid.UUID, thread models.Thread, state *models.ThreadState, comments []models.Comment, cfg settings.Settings, passHits []rules.Hit, nowUTC int64) (bool, error) {
	scope := models.EvalScopeDelta
	watermark := thread.CreatedUTC
	if state.LastGenaiEvalUTC != nil {
		watermark = *state.LastGenaiEvalUTC
	} else {
		scope = models.EvalScopeThreadSeed
	}

	delta := CommentsSince(comments, watermark)
	selected := SelectDeltaComments(thread.Author, delta, cfg.MaxDeltaCommentsSent)
	payload := genai.BuildPayload(thread, selected, passHits, cfg.BusinessContext)

	outcome := genai.EvaluateWithRetry(ctx, s.classifier, payload)
	if outcome.Degraded() {
		log.Printf("Classification degraded for thread %s: %v", thread.SourceThreadID, outcome.Err)
	}

	newlyFlagged := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		eval := models.GenaiEval{
			RunID:         runID,
			ThreadID:      thread.ID,
			EvalScope:     scope,
			DeltaFromUTC:  watermark,
			DeltaToUTC:    nowUTC,
			Relevant:      outcome.Result.Relevant,
			ShortReason:   outcome.Result.ShortReason,
			Model:         genai.ModelName,
			PromptVersion: genai.PromptVersion,
			TokensIn:      outcome.Usage.TokensIn,
			TokensOut:     outcome.Usage.TokensOut,
			Status:        outcome.Status,
		}
		if outcome.Err != nil {
			eval.ErrorText = outcome.Err.Error()
		}
		if err := tx.Create(&eval).Error; err != nil {
			return fmt.Errorf("failed to record evaluation: %w", err)
		}

		state.GenaiEvalCount++
		state.LastGenaiEvalUTC = &nowUTC

		if outcome.Status == models.EvalStatusSuccess && outcome.Result.Relevant == 1 {
			// flagged is monotonic: stamp only the first transition.
			if !state.Flagged {
				state.Flagged = true
				state.FlaggedUTC = &nowUTC
				newlyFlagged = true
			}

			if err := insertDraft(tx, thread.ID, eval.ID, outcome.Result.DraftResponse); err != nil {
				return err
			}
			if err := insertDetections(tx, thread, comments, outcome.Result.DetectionItems); err != nil {
				return err
			}
		}

		if err := tx.Save(state).Error; err != nil {
			return fmt.Errorf("failed to update thread state: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return newlyFlagged, nil
}

// insertDraft appends a new suggested draft at the next version for the
// thread. Prior drafts are never mutated.
func insertDraft(tx *gorm.DB, threadID uint, evalID uint, text string) error {
	var latest models.DraftResponse
	version := 1
	err := tx.Where("thread_id = ?", threadID).
		Order("draft_version DESC").
		First(&latest).Error
	if err == nil {
		version = latest.DraftVersion + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up latest draft: %w", err)
	}

	draft := models.DraftResponse{
		ThreadID:     threadID,
		GenaiEvalID:  &evalID,
		DraftText:    text,
		DraftVersion: version,
		Status:       models.DraftStatusSuggested,
	}
	if err := tx.Create(&draft).Error; err != nil {
		return fmt.Errorf("failed to insert draft response: %w", err)
	}
	return nil
}

// insertDetections upserts deduplicated detection rows. Each detection's
// comment reference is resolved from its source-level id; an unresolvable
// id yields a thread-level detection deduplicated by content hash.
func insertDetections(tx *gorm.DB, thread models.Thread, comments []models.Comment, items []genai.DetectionItem) error {
	if len(items) == 0 {
		return nil
	}

	bySourceID := make(map[string]uint, len(comments))
	for _, comment := range comments {
		bySourceID[comment.SourceCommentID] = comment.ID
	}

	for _, item := range items {
		detection := models.Detection{
			ThreadID:      thread.ID,
			DetectionType: item.DetectionType,
			EvidenceText:  item.EvidenceExcerpt,
		}
		if commentID, ok := bySourceID[item.CommentID]; ok && item.CommentID != "" {
			detection.CommentID = commentID
		} else {
			detection.SourceHash = models.HashDetection(thread.SourceThreadID, item.EvidenceExcerpt)
		}

		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&detection).Error
		if err != nil {
			return fmt.Errorf("failed to insert detection: %w", err)
		}
	}
	return nil
}

func latestCommentUTC(comments []models.Comment) int64 {
	var latest int64
	for _, comment := range comments {
		if comment.CreatedUTC > latest {
			latest = comment.CreatedUTC
		}
	}
	return latest
}
