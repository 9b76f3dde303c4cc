package potluck

import "errors"

var (
	ErrMissingFields      = errors.New("title and description are required")
	ErrFieldTooLong       = errors.New("entry field too long")
	ErrEntryExists        = errors.New("entry already exists")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrNotProxyEntry      = errors.New("entry was not created for a proxy")
	ErrVotingInactive     = errors.New("voting is not active")
	ErrVotingLocked       = errors.New("voting is locked")
	ErrIncompleteVote     = errors.New("all three places are required")
	ErrDuplicateSelection = errors.New("each place must be a different entry")
	ErrInvalidEntry       = errors.New("vote references an unknown entry")
	ErrSelfVote           = errors.New("cannot vote for your own entry")
	ErrVoteNotFound       = errors.New("vote not found")
)
