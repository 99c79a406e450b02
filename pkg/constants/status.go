package constants

const (
	VideoStatusUploading  = "uploading"
	VideoStatusUploaded   = "uploaded"
	VideoStatusScheduled  = "scheduled"
	VideoStatusProcessing = "processing"
	VideoStatusPublished  = "published"
	VideoStatusFailed     = "failed"
	VideoStatusDeleted    = "deleted"

	TaskStatusPending   = "pending"
	TaskStatusQueued    = "queued"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusCancelled = "cancelled"
	TaskStatusFailed    = "failed"

	ActionUpload = "upload"
	ActionDelete = "delete"

	PrivacyPrivate  = "private"
	PrivacyUnlisted = "unlisted"
	PrivacyPublic   = "public"

	StatusOK = "ok"
)

// VideoStatuses lists every status a video row may carry.
var VideoStatuses = []string{
	VideoStatusUploading,
	VideoStatusUploaded,
	VideoStatusScheduled,
	VideoStatusProcessing,
	VideoStatusPublished,
	VideoStatusFailed,
	VideoStatusDeleted,
}

func IsValidVideoStatus(status string) bool {
	for _, s := range VideoStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidPrivacy(privacy string) bool {
	return privacy == PrivacyPrivate || privacy == PrivacyUnlisted || privacy == PrivacyPublic
}
