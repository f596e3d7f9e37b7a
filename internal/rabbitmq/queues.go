package rabbitmq

const (
	SNAPSHOT_SYNC_QUEUE = "snapshots.sync"
	DIFF_SUMMARY_MAIL_QUEUE = "notifications.diff_summary"
)
