package taskname

const (
	// Notification tasks
	NotificationDispatch = "notification:dispatch"

	// Withdrawal tasks
	WithdrawalProcess = "withdrawal:process"

	// Agency tasks
	AgencyRecompute = "agency:recompute"

	// Host tasks
	HostBonusInstalment = "host:bonus:instalment"

	// Leaderboard tasks
	LeaderboardPayout = "leaderboard:payout"
)
