package repository

import "time"

// Profile: per-(guild, user) display alias. Never deleted, only overwritten.
type Profile struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	GuildID   string    `gorm:"column:guild_id;not null;uniqueIndex:idx_profiles_guild_user"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex:idx_profiles_guild_user"`
	Alias     string    `gorm:"column:alias;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }

// Job: per-(guild, user, profession) level. Profession is the normalized key.
type Job struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	GuildID    string    `gorm:"column:guild_id;not null;uniqueIndex:idx_jobs_guild_user_profession"`
	UserID     string    `gorm:"column:user_id;not null;uniqueIndex:idx_jobs_guild_user_profession"`
	Profession string    `gorm:"column:profession;not null;uniqueIndex:idx_jobs_guild_user_profession"`
	Level      int       `gorm:"column:level;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (Job) TableName() string { return "jobs" }

// GuildSettings: per-guild singleton pointing at the live dashboard message.
type GuildSettings struct {
	GuildID            string    `gorm:"column:guild_id;primaryKey"`
	DashboardChannelID string    `gorm:"column:dashboard_channel_id;not null;default:''"`
	DashboardMessageID string    `gorm:"column:dashboard_message_id;not null;default:''"`
	UpdatedAt          time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (GuildSettings) TableName() string { return "guild_settings" }
