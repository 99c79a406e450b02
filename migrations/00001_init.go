package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(Up, Down)
}

// +goose Up
// +goose StatementBegin
func Up(tx *sql.Tx) error {
	createVideosTable := `
	CREATE TABLE videos (
		video_id UUID PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		tags TEXT,
		privacy VARCHAR(20) NOT NULL DEFAULT 'private',
		file_path VARCHAR(500),
		file_size BIGINT,
		mime_type VARCHAR(100),
		duration BIGINT,
		storage_file_id VARCHAR(128),
		storage_url VARCHAR(500),
		status VARCHAR(20) NOT NULL,
		last_error TEXT,
		published_at TIMESTAMP WITH TIME ZONE,
		version BIGINT NOT NULL DEFAULT 0,
		schedule_upload_scheduled_at TIMESTAMP WITH TIME ZONE,
		schedule_delete_scheduled_at TIMESTAMP WITH TIME ZONE,
		schedule_remote_video_id VARCHAR(64),
		schedule_remote_url VARCHAR(500),
		schedule_upload_job_id VARCHAR(64),
		schedule_delete_job_id VARCHAR(64),
		schedule_channel_id VARCHAR(64),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX idx_videos_user_id ON videos (user_id);
	CREATE INDEX idx_videos_status ON videos (status);
	`
	if _, err := tx.Exec(createVideosTable); err != nil {
		return fmt.Errorf("could not create videos table: %w", err)
	}

	createChannelsTable := `
	CREATE TABLE channels (
		channel_id UUID PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		remote_channel_id VARCHAR(64) NOT NULL,
		title VARCHAR(255),
		thumbnail_url VARCHAR(500),
		subscriber_count BIGINT DEFAULT 0,
		view_count BIGINT DEFAULT 0,
		video_count BIGINT DEFAULT 0,
		access_token TEXT,
		refresh_token TEXT,
		token_expires_at TIMESTAMP WITH TIME ZONE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX idx_channels_user_id ON channels (user_id);
	`
	if _, err := tx.Exec(createChannelsTable); err != nil {
		return fmt.Errorf("could not create channels table: %w", err)
	}

	createScheduledTasksTable := `
	CREATE TABLE scheduled_tasks (
		task_id UUID PRIMARY KEY,
		video_id UUID NOT NULL,
		action VARCHAR(20) NOT NULL,
		execute_at TIMESTAMP WITH TIME ZONE NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX idx_scheduled_tasks_due ON scheduled_tasks (status, execute_at);
	`
	if _, err := tx.Exec(createScheduledTasksTable); err != nil {
		return fmt.Errorf("could not create scheduled_tasks table: %w", err)
	}

	return nil
}

// +goose StatementEnd

// +goose Down
// +goose StatementBegin
func Down(tx *sql.Tx) error {
	dropTables := []string{"scheduled_tasks", "channels", "videos"}
	for _, table := range dropTables {
		if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)); err != nil {
			return fmt.Errorf("could not drop table %s: %w", table, err)
		}
	}
	return nil
}

// +goose StatementEnd
