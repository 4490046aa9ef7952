package state

var (
	contentRecordPrefix     = []byte("lumina/content/record/")
	contentCreatorIdxPrefix = []byte("lumina/content/creator-index/")
	paymentCountPrefix      = []byte("lumina/ledger/payment-count/")
	paymentRecordPrefix     = []byte("lumina/ledger/payment/")
	tipCountPrefix          = []byte("lumina/ledger/tip-count/")
	tipRecordPrefix         = []byte("lumina/ledger/tip/")
	creatorEarningsPrefix   = []byte("lumina/ledger/creator/")
	subscriptionPrefix      = []byte("lumina/subscription/record/")
	userSubsIdxPrefix       = []byte("lumina/subscription/user-index/")
	accessFlagPrefix        = []byte("lumina/access/")
	payoutGrantPrefix       = []byte("lumina/payout/grant/")
	withdrawalCountPrefix   = []byte("lumina/payout/withdrawal-count/")
	withdrawalRecordPrefix  = []byte("lumina/payout/withdrawal/")

	contentCountKey = []byte("lumina/content/count")
)
