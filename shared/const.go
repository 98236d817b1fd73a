package shared

const (
	UserEmail = "user_email"

	TxTypeVideo      = "Video"
	TxTypeSurvey     = "Survey"
	TxTypeWebsite    = "Website Visit"
	TxTypeWithdrawal = "Withdrawal"

	TxStatusCompleted  = "Completed"
	TxStatusProcessing = "Processing"
)

// Durable store keys. Per-task and per-type keys are built from the prefix
// constants so the reward engine can enumerate everything it has assigned.
const (
	KeyAccounts       = "accounts"
	KeyBalance        = "earnova_balance"
	KeyCompletedCount = "earnova_completed"
	KeyTransactions   = "earnova_transactions"
	KeyXP             = "earnova_xp"
	KeyPaidLevel      = "earnova_paid_level"
	KeyActiveVisit    = "earnova_active_visit"

	KeyQuotaCountPrefix = "earnova_daily_count_"
	KeyQuotaDatePrefix  = "earnova_daily_date_"
	KeyCompletedPrefix  = "earnova_done_"
	KeyRewardAmtPrefix  = "earnova_reward_amt_"
	KeyRewardXPPrefix   = "earnova_reward_xp_"
	KeyPoolPrefix       = "earnova_pool_"
	KeyPoolDatePrefix   = "earnova_pool_date_"
)

// Volatile (session) store keys.
const (
	SessionKeyCurrentUser  = "currentUser"
	SessionKeyIntentPrefix = "payment_intent_"
)
