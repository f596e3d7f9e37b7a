package redisrepo

import "fmt"

const (
	ACCOUNT_DIFF = "account:%s-diff:%s" // <accountID>:<snapshotType>
)

func AccountDiffKey(accountID string, snapshotType string) string {
	return fmt.Sprintf(ACCOUNT_DIFF, accountID, snapshotType)
}
