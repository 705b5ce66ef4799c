package redis

const (
	// KeyRecentFolders is the sorted set of folder paths scored by their
	// last-open time.
	KeyRecentFolders = "dropcode:folders:recent"

	// KeyFolderOpens is the hash of per-folder open counts.
	KeyFolderOpens = "dropcode:folders:opens"

	// KeySession stores the last navigation state for session restore.
	KeySession = "dropcode:session"
)
