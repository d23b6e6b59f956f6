package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/core/algo"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/ingest"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/schema"
)

// ImportSummary describes the outcome of adding or importing records.
type ImportSummary struct {
	Imported int                 // Records appended
	Issues   []ingest.Issue      // Rows skipped during parsing
	Updated  schema.MasteryStore // Estimates of the touched topics after the fold
}

// AppendRecords appends records and folds them into the mastery store.
func AppendRecords(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, records []schema.PerformanceRecord) (schema.MasteryStore, error) {
	recordStore := mgr.GetRecordStore()
	if recordStore == nil {
		return nil, errStoreNotInitialized
	}
	updated, err := recordStore.AppendRecords(ctx, records, cfg.Mastery)
	if err != nil {
		return nil, fmt.Errorf("failed to append records: %w", err)
	}
	contract.Logger().Debugw("records appended", "records", len(records), "topics", len(updated))
	return updated, nil
}

// ExecuteRecordsAdd appends one record built from loosely typed fields and prints
// the updated mastery of its topic.
func ExecuteRecordsAdd(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter, fields map[string]any) error {
	rec, err := ingest.FromFields(fields)
	if err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	updated, err := AppendRecords(ctx, cfg, mgr, []schema.PerformanceRecord{rec})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✅ Added record %s (%s: %d/%d)\n", rec.ID, rec.SubjectID, rec.CorrectCount, rec.TotalCount)
	return w.WriteMastery(updated, cfg)
}

// ImportRecords reads a JSON or CSV file and appends every usable row.
func ImportRecords(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, path string, format ingest.Format) (ImportSummary, error) {
	result, err := ingest.ReadFile(path, format)
	if err != nil {
		return ImportSummary{}, err
	}
	summary := ImportSummary{Issues: result.Issues, Updated: schema.MasteryStore{}}
	if len(result.Records) == 0 {
		return summary, nil
	}

	updated, err := AppendRecords(ctx, cfg, mgr, result.Records)
	if err != nil {
		return summary, err
	}
	summary.Imported = len(result.Records)
	summary.Updated = updated
	return summary, nil
}

// ExecuteRecordsImport imports a file, reports skipped rows and prints the updated mastery.
func ExecuteRecordsImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter, path string, format ingest.Format) error {
	summary, err := ImportRecords(ctx, cfg, mgr, path, format)
	if err != nil {
		return err
	}
	for _, issue := range summary.Issues {
		contract.LogWarn("Skipped row", errors.New(issue.String()))
	}
	fmt.Fprintf(os.Stderr, "📥 Imported %d records from %s (%d rows skipped)\n", summary.Imported, path, len(summary.Issues))
	return w.WriteMastery(summary.Updated, cfg)
}

// ExecuteRecordsList prints the stored records of --subject, or of every subject.
func ExecuteRecordsList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	records, err := loadRecords(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return w.WriteRecords(records, cfg)
}

// ExecuteMasteryShow prints the stored mastery estimates.
func ExecuteMasteryShow(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	store, err := loadMastery(ctx, mgr)
	if err != nil {
		return err
	}
	return w.WriteMastery(store, cfg)
}

// RebuildMastery discards the stored estimates and folds every stored record again
// with the configured policy.
func RebuildMastery(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.MasteryStore, error) {
	recordStore := mgr.GetRecordStore()
	repo := mgr.GetMasteryRepository()
	if recordStore == nil || repo == nil {
		return nil, errStoreNotInitialized
	}

	records, err := recordStore.ListRecords(ctx, "")
	if err != nil {
		return nil, err
	}
	store := algo.FoldRecords(schema.MasteryStore{}, records, cfg.Mastery)

	if err := repo.ResetMastery(ctx, ""); err != nil {
		return nil, fmt.Errorf("failed to reset mastery: %w", err)
	}
	if err := repo.SaveMastery(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to save mastery: %w", err)
	}
	contract.Logger().Debugw("mastery rebuilt", "records", len(records), "topics", len(store))
	return store, nil
}

// ExecuteMasteryRebuild rebuilds the estimates and prints them.
func ExecuteMasteryRebuild(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	store, err := RebuildMastery(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "🔁 Rebuilt mastery for %d topics\n", len(store))
	return w.WriteMastery(store, cfg)
}

// ExecuteMasteryReset zeroes the estimate of topic, or of every topic when empty.
func ExecuteMasteryReset(ctx context.Context, mgr contract.StoreManager, topic string) error {
	repo := mgr.GetMasteryRepository()
	if repo == nil {
		return errStoreNotInitialized
	}
	if err := repo.ResetMastery(ctx, topic); err != nil {
		return err
	}
	if topic == "" {
		fmt.Fprintln(os.Stderr, "🧹 Reset mastery of every topic")
	} else {
		fmt.Fprintf(os.Stderr, "🧹 Reset mastery of %s\n", topic)
	}
	return nil
}

// ExecuteRunsList prints the projection run history, newest first.
func ExecuteRunsList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	runStore := mgr.GetRunStore()
	if runStore == nil {
		return errStoreNotInitialized
	}
	runs, err := runStore.ListRuns(ctx)
	if err != nil {
		return err
	}
	if cfg.ResultLimit > 0 && len(runs) > cfg.ResultLimit {
		runs = runs[:cfg.ResultLimit]
	}
	return w.WriteRuns(runs, cfg)
}
