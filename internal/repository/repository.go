// Package repository implements the roster store on GORM: profiles (display
// aliases), jobs (profession levels) and guild_settings (dashboard location).
// Level bounds are validated by the command layer; the store only enforces
// key uniqueness.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kapu/guild-jobs-bot/internal/domain"
	apperrors "github.com/kapu/guild-jobs-bot/pkg/errors"
)

// Repository: GORM-backed roster store. Every call is a single atomic
// statement (or read); failures surface as apperrors.DatabaseError.
type Repository struct {
	db *gorm.DB
}

// New creates a Repository.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates/updates the three tables.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(
		&Profile{},
		&Job{},
		&GuildSettings{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// SetProfileAlias upserts the display alias for (guild, user).
func (r *Repository) SetProfileAlias(ctx context.Context, guildID, userID, alias string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	alias = strings.TrimSpace(alias)
	entry := Profile{GuildID: guildID, UserID: userID, Alias: alias}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "guild_id"},
			{Name: "user_id"},
		},
		DoUpdates: clause.Assignments(map[string]any{"alias": alias}),
	}).Create(&entry).Error; err != nil {
		return apperrors.DatabaseError{Operation: "set_profile_alias", Err: err}
	}

	return nil
}

// GetProfileAlias returns the stored alias, or "" when none exists.
func (r *Repository) GetProfileAlias(ctx context.Context, guildID, userID string) (string, error) {
	if r == nil || r.db == nil {
		return "", fmt.Errorf("db is nil")
	}

	var entry Profile
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.DatabaseError{Operation: "get_profile_alias", Err: err}
	}
	return entry.Alias, nil
}

// SetJob upserts the level for (guild, user, professionKey).
func (r *Repository) SetJob(ctx context.Context, guildID, userID, professionKey string, level int) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	entry := Job{GuildID: guildID, UserID: userID, Profession: professionKey, Level: level}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "guild_id"},
			{Name: "user_id"},
			{Name: "profession"},
		},
		DoUpdates: clause.Assignments(map[string]any{"level": level}),
	}).Create(&entry).Error; err != nil {
		return apperrors.DatabaseError{Operation: "set_job", Err: err}
	}

	return nil
}

// RemoveJob deletes the job if present. Removing a missing job is a no-op.
func (r *Repository) RemoveJob(ctx context.Context, guildID, userID, professionKey string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	if err := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ? AND profession = ?", guildID, userID, professionKey).
		Delete(&Job{}).Error; err != nil {
		return apperrors.DatabaseError{Operation: "remove_job", Err: err}
	}
	return nil
}

// ListJobs returns a user's jobs sorted level descending, profession
// ascending.
func (r *Repository) ListJobs(ctx context.Context, guildID, userID string) ([]domain.Job, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var rows []Job
	if err := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Find(&rows).Error; err != nil {
		return nil, apperrors.DatabaseError{Operation: "list_jobs", Err: err}
	}

	jobs := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, domain.Job{Profession: row.Profession, Level: row.Level})
	}
	sortJobs(jobs)
	return jobs, nil
}

// Roster returns one entry per user holding at least one job, ranked by mean
// level descending with user-id ascending as tie-break.
func (r *Repository) Roster(ctx context.Context, guildID string) ([]domain.RosterEntry, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var jobRows []Job
	if err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Find(&jobRows).Error; err != nil {
		return nil, apperrors.DatabaseError{Operation: "roster_jobs", Err: err}
	}

	var profileRows []Profile
	if err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Find(&profileRows).Error; err != nil {
		return nil, apperrors.DatabaseError{Operation: "roster_profiles", Err: err}
	}

	aliasByUser := make(map[string]string, len(profileRows))
	for _, row := range profileRows {
		aliasByUser[row.UserID] = row.Alias
	}

	jobsByUser := make(map[string][]domain.Job)
	for _, row := range jobRows {
		jobsByUser[row.UserID] = append(jobsByUser[row.UserID], domain.Job{
			Profession: row.Profession,
			Level:      row.Level,
		})
	}

	roster := make([]domain.RosterEntry, 0, len(jobsByUser))
	for userID, jobs := range jobsByUser {
		sortJobs(jobs)
		sum := 0
		for _, job := range jobs {
			sum += job.Level
		}
		roster = append(roster, domain.RosterEntry{
			UserID:    userID,
			Alias:     aliasByUser[userID],
			Jobs:      jobs,
			MeanLevel: float64(sum) / float64(len(jobs)),
		})
	}

	sort.Slice(roster, func(i, j int) bool {
		if roster[i].MeanLevel != roster[j].MeanLevel {
			return roster[i].MeanLevel > roster[j].MeanLevel
		}
		return domain.CompareSnowflake(roster[i].UserID, roster[j].UserID) < 0
	})

	return roster, nil
}

// GetDashboard returns the registered dashboard location, or empty strings
// when none is registered.
func (r *Repository) GetDashboard(ctx context.Context, guildID string) (channelID, messageID string, err error) {
	if r == nil || r.db == nil {
		return "", "", fmt.Errorf("db is nil")
	}

	var entry GuildSettings
	err = r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", nil
	}
	if err != nil {
		return "", "", apperrors.DatabaseError{Operation: "get_dashboard", Err: err}
	}
	return entry.DashboardChannelID, entry.DashboardMessageID, nil
}

// SetDashboard upserts the per-guild dashboard registration.
func (r *Repository) SetDashboard(ctx context.Context, guildID, channelID, messageID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	entry := GuildSettings{
		GuildID:            guildID,
		DashboardChannelID: channelID,
		DashboardMessageID: messageID,
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"dashboard_channel_id": channelID,
			"dashboard_message_id": messageID,
		}),
	}).Create(&entry).Error; err != nil {
		return apperrors.DatabaseError{Operation: "set_dashboard", Err: err}
	}

	return nil
}

func sortJobs(jobs []domain.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Level != jobs[j].Level {
			return jobs[i].Level > jobs[j].Level
		}
		return jobs[i].Profession < jobs[j].Profession
	})
}
