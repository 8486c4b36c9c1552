package domain

import "time"

const (
	AuditLoginSucceeded     = "login.succeeded"
	AuditLoginFailed        = "login.failed"
	AuditAccountRegistered  = "account.registered"
	AuditContractRegistered = "contract.registered"
	AuditContractVerified   = "contract.verified"
	AuditContractDeleted    = "contract.deleted"
)

const (
	EntityAccount  = "account"
	EntityContract = "contract"
)

// AuditEntry records an action taken against an entity.
type AuditEntry struct {
	Actor     string
	Action    string
	Entity    string
	EntityID  string
	Details   map[string]string
	IPAddress string
	Timestamp time.Time
}
