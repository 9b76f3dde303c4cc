package db

import "errors"

var (
	ErrNotApproved   = errors.New("user not approved")
	ErrProxyNotFound = errors.New("proxy not found")
	ErrReservedSlug  = errors.New("game slug is reserved")
)
