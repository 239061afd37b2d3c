package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"socialfactory/internal/config"
)

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "runs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RunRequest carries the validated inputs for a new content run.
type RunRequest struct {
	Topic           string
	Platform        string
	Tone            string
	RequireApproval bool
	GenerateVideo   bool
}

// NewRun inserts a run awaiting script generation.
func (s *Store) NewRun(ctx context.Context, req RunRequest) (*Item, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	item := &Item{}
	if err := item.SetSteps(NewSteps()); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            run_key, topic, platform, tone, require_approval, generate_video,
            status, steps_json, results_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		req.Topic,
		req.Platform,
		nullableString(req.Tone),
		boolToInt(req.RequireApproval),
		boolToInt(req.GenerateVideo),
		StatusPending,
		item.StepsJSON,
		"{}",
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a run by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	item, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return item, nil
}

// GetByKey fetches a run by its external identifier.
func (s *Store) GetByKey(ctx context.Context, key string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_key = ?`, key)
	item, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run by key: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing run.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("run is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs
         SET topic = ?, platform = ?, tone = ?, require_approval = ?, generate_video = ?,
             status = ?, steps_json = ?, results_json = ?, error_message = ?,
             progress_step = ?, progress_message = ?, review_note = ?,
             approval_requested_at = ?, last_heartbeat = ?, updated_at = ?
         WHERE id = ?`,
		item.Topic,
		item.Platform,
		nullableString(item.Tone),
		boolToInt(item.RequireApproval),
		boolToInt(item.GenerateVideo),
		item.Status,
		item.StepsJSON,
		item.ResultsJSON,
		nullableString(item.ErrorMessage),
		nullableString(item.ProgressStep),
		nullableString(item.ProgressMessage),
		nullableString(item.ReviewNote),
		nullableTime(item.ApprovalRequestedAt),
		nullableTime(item.LastHeartbeat),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// ItemsByStatus returns runs matching a status ordered by creation time.
func (s *Store) ItemsByStatus(ctx context.Context, status Status) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE status = ? ORDER BY created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns runs filtered by status set (or all runs when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + runColumns + ` FROM runs`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextForStatuses returns the oldest run matching any of the provided statuses.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := makePlaceholders(len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}

	query := `SELECT ` + runColumns + ` FROM runs WHERE status IN (` + placeholders + `) ORDER BY created_at LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	item, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Claim atomically transitions a run between statuses. It returns false when
// another worker already moved the run, which makes the compare-and-set safe
// under a concurrent worker pool.
func (s *Store) Claim(ctx context.Context, id int64, from, to Status) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, last_heartbeat = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to,
		now,
		now,
		id,
		from,
	)
	if err != nil {
		return false, fmt.Errorf("claim run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ResolveApproval records an approve or reject decision for a run waiting at
// the approval gate. It returns false when the run is not awaiting approval.
func (s *Store) ResolveApproval(ctx context.Context, id int64, approved bool, note string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin approval tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ? AND status = ?`, id, StatusAwaitingApproval)
	item, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load run for approval: %w", err)
	}

	if err := item.MarkStep(StepApproval, StepCompleted, ""); err != nil {
		return false, err
	}
	if approved {
		item.Status = StatusApproved
		item.SetProgress("Approved", "Approved for publishing")
	} else {
		item.Status = StatusRejected
		item.SetProgress("Rejected", "Rejected during review")
		if err := item.SkipRemainingSteps(); err != nil {
			return false, err
		}
	}
	item.ReviewNote = strings.TrimSpace(note)
	item.LastHeartbeat = nil

	if err := updateInTx(ctx, tx, item); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit approval: %w", err)
	}
	return true, nil
}

// ExpireApprovals rejects runs whose approval window elapsed before a
// decision arrived. It returns the runs that were expired so callers can
// notify about them.
func (s *Store) ExpireApprovals(ctx context.Context, cutoff time.Time) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs
         WHERE status = ? AND approval_requested_at IS NOT NULL AND approval_requested_at < ?`,
		StatusAwaitingApproval,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query expired approvals: %w", err)
	}
	stale, err := collectRuns(rows)
	if err != nil {
		return nil, err
	}

	var expired []*Item
	for _, item := range stale {
		ok, err := s.ResolveApproval(ctx, item.ID, false, ApprovalTimeoutReason)
		if err != nil {
			return expired, err
		}
		if ok {
			updated, err := s.GetByID(ctx, item.ID)
			if err != nil {
				return expired, err
			}
			if updated != nil {
				expired = append(expired, updated)
			}
		}
	}
	return expired, nil
}

// UpdateHeartbeat updates the last heartbeat timestamp for an in-flight run.
func (s *Store) UpdateHeartbeat(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET last_heartbeat = ?, updated_at = ? WHERE id = ?`,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update heartbeat: %w", err)
	}
	return nil
}

// ReclaimStaleProcessing returns runs stuck in processing back to their
// pre-step status when heartbeats expire.
func (s *Store) ReclaimStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	cutoffValue := cutoff.UTC().Format(time.RFC3339Nano)

	var total int64
	for _, transition := range staleRollbacks {
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE runs
             SET status = ?, progress_step = 'Reclaimed', progress_message = NULL,
                 last_heartbeat = NULL, updated_at = ?
             WHERE status = ? AND last_heartbeat IS NOT NULL AND last_heartbeat < ?`,
			transition.to,
			now,
			transition.from,
			cutoffValue,
		)
		if err != nil {
			return total, fmt.Errorf("reclaim stale runs: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("rows affected: %w", err)
		}
		total += affected
	}
	return total, nil
}

type statusTransition struct {
	from Status
	to   Status
}

// staleRollbacks maps each in-flight status back to the status a fresh worker
// claims from, so an interrupted step is retried rather than lost.
var staleRollbacks = []statusTransition{
	{from: StatusScripting, to: StatusPending},
	{from: StatusCaptioning, to: StatusScripted},
	{from: StatusRendering, to: StatusCaptioned},
	{from: StatusApproving, to: StatusRendered},
	{from: StatusPublishing, to: StatusApproved},
}

// RetryFailed moves failed or rejected runs back to pending for reprocessing.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	reset := func(item *Item) error {
		item.Status = StatusPending
		item.ErrorMessage = ""
		item.ReviewNote = ""
		item.ApprovalRequestedAt = nil
		item.LastHeartbeat = nil
		item.SetProgress("Retry requested", "")
		if err := item.SetSteps(NewSteps()); err != nil {
			return err
		}
		return item.SetResults(Results{})
	}

	var candidates []*Item
	var err error
	if len(ids) == 0 {
		candidates, err = s.List(ctx, StatusFailed, StatusRejected)
		if err != nil {
			return 0, err
		}
	} else {
		for _, id := range ids {
			item, err := s.GetByID(ctx, id)
			if err != nil {
				return 0, err
			}
			if item == nil {
				continue
			}
			if item.Status != StatusFailed && item.Status != StatusRejected {
				continue
			}
			candidates = append(candidates, item)
		}
	}

	var total int64
	for _, item := range candidates {
		if err := reset(item); err != nil {
			return total, err
		}
		if err := s.Update(ctx, item); err != nil {
			return total, err
		}
		total++
	}
	return total, nil
}

// Stats returns a count of runs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates run state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusAwaitingApproval:
			health.AwaitingApproval += count
		case StatusFailed:
			health.Failed += count
		case StatusRejected:
			health.Rejected += count
		case StatusCompleted, StatusCompletedWithErrors:
			health.Completed += count
		default:
			if _, ok := processingStatuses[status]; ok {
				health.Processing += count
			}
		}
	}
	return health, nil
}

// CheckHealth returns diagnostic information about the run database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{
		DBPath:        s.path,
		SchemaVersion: "current",
	}

	if s.path == "" {
		return health, errors.New("run database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat run database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("run database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("run database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping run database: %w", err)
	}
	health.DatabaseReadable = true

	var tableName string
	row := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'runs'")
	if err := row.Scan(&tableName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			health.TableExists = false
		} else {
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
	} else {
		health.TableExists = true
	}

	if health.TableExists {
		colsRows, err := s.db.QueryContext(connCtx, "PRAGMA table_info(runs)")
		if err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("table info: %w", err)
		}
		defer colsRows.Close()

		var columns []string
		for colsRows.Next() {
			var (
				cid     int
				name    string
				typeStr string
				notNull int
				dflt    any
				pk      int
			)
			if err := colsRows.Scan(&cid, &name, &typeStr, &notNull, &dflt, &pk); err != nil {
				health.Error = err.Error()
				return health, fmt.Errorf("scan table info: %w", err)
			}
			columns = append(columns, name)
		}
		if err := colsRows.Err(); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("iterate table info: %w", err)
		}
		health.ColumnsPresent = append(health.ColumnsPresent, columns...)

		expected := []string{"id", "run_key", "topic", "platform", "tone", "require_approval", "generate_video", "status", "steps_json", "results_json", "error_message", "progress_step", "progress_message", "review_note", "approval_requested_at", "last_heartbeat", "created_at", "updated_at"}
		missingMap := make(map[string]struct{}, len(expected))
		for _, col := range expected {
			missingMap[col] = struct{}{}
		}
		for _, col := range columns {
			delete(missingMap, col)
		}
		for col := range missingMap {
			health.MissingColumns = append(health.MissingColumns, col)
		}

		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM runs")
		if err := row.Scan(&health.TotalRuns); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count runs: %w", err)
		}
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

// Remove deletes a run by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCompleted removes completed runs (with or without step errors).
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE status IN (?, ?)`, StatusCompleted, StatusCompletedWithErrors)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes failed and rejected runs.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE status IN (?, ?)`, StatusFailed, StatusRejected)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all runs.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

const runColumns = "id, run_key, topic, platform, tone, require_approval, generate_video, status, steps_json, results_json, error_message, progress_step, progress_message, review_note, approval_requested_at, last_heartbeat, created_at, updated_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id              int64
		runKey          string
		topic           string
		platform        string
		tone            sql.NullString
		requireApproval sql.NullInt64
		generateVideo   sql.NullInt64
		statusStr       string
		stepsJSON       sql.NullString
		resultsJSON     sql.NullString
		errorMessage    sql.NullString
		progressStep    sql.NullString
		progressMessage sql.NullString
		reviewNote      sql.NullString
		approvalRaw     sql.NullString
		heartbeatRaw    sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runKey,
		&topic,
		&platform,
		&tone,
		&requireApproval,
		&generateVideo,
		&statusStr,
		&stepsJSON,
		&resultsJSON,
		&errorMessage,
		&progressStep,
		&progressMessage,
		&reviewNote,
		&approvalRaw,
		&heartbeatRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:              id,
		RunKey:          runKey,
		Topic:           topic,
		Platform:        platform,
		Tone:            tone.String,
		Status:          Status(statusStr),
		StepsJSON:       stepsJSON.String,
		ResultsJSON:     resultsJSON.String,
		ErrorMessage:    errorMessage.String,
		ProgressStep:    progressStep.String,
		ProgressMessage: progressMessage.String,
		ReviewNote:      reviewNote.String,
	}
	if requireApproval.Valid {
		item.RequireApproval = requireApproval.Int64 != 0
	}
	if generateVideo.Valid {
		item.GenerateVideo = generateVideo.Int64 != 0
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if approvalRaw.Valid {
		if requested, err := parseTimeString(approvalRaw.String); err == nil {
			item.ApprovalRequestedAt = &requested
		}
	}
	if heartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(heartbeatRaw.String); err == nil {
			item.LastHeartbeat = &heartbeat
		}
	}
	return item, nil
}

func collectRuns(rows *sql.Rows) ([]*Item, error) {
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func updateInTx(ctx context.Context, tx *sql.Tx, item *Item) error {
	item.UpdatedAt = time.Now().UTC()
	_, err := tx.ExecContext(
		ctx,
		`UPDATE runs
         SET status = ?, steps_json = ?, results_json = ?, error_message = ?,
             progress_step = ?, progress_message = ?, review_note = ?,
             approval_requested_at = ?, last_heartbeat = ?, updated_at = ?
         WHERE id = ?`,
		item.Status,
		item.StepsJSON,
		item.ResultsJSON,
		nullableString(item.ErrorMessage),
		nullableString(item.ProgressStep),
		nullableString(item.ProgressMessage),
		nullableString(item.ReviewNote),
		nullableTime(item.ApprovalRequestedAt),
		nullableTime(item.LastHeartbeat),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update run in tx: %w", err)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
