package constants

type LogAction string

const (
	ActionCreated      LogAction = "created"
	ActionUpdated      LogAction = "updated"
	ActionDeleted      LogAction = "deleted"
	ActionForceDeleted LogAction = "force_deleted"
	ActionRestored     LogAction = "restored"
)

func (a LogAction) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionForceDeleted, ActionRestored:
		return true
	}
	return false
}

// SystemUserID is recorded on log entries when the request carries no user.
const SystemUserID uint = 0
