package utils

import "errors"

// ----------------- storage ------------------
var (
	ErrStorageEmptyHostName       = errors.New("host name is empty")
	ErrStorageInvalidPortNumber   = errors.New("port number is empty")
	ErrStorageEmptyUsername       = errors.New("username is empty")
	ErrStorageEmptyPassword       = errors.New("password is empty")
	ErrStorageInvalidDatabaseName = errors.New("database name is empty")
	ErrStorageInvalidSslMode      = errors.New("SSL mode is invalid")
	ErrStorageInvalidPoolSize     = errors.New("pool size is invalid")
	ErrStorageInvalidTimeout      = errors.New("timeout is invalid")
)

// ----------------- listing service ------------------
var (
	ErrInvalidListingID = errors.New("invalid listing id")
	ErrListingNotFound  = errors.New("listing not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrInvalidCondition = errors.New("invalid listing condition")
	ErrEmptyTitle       = errors.New("listing title is empty")
	ErrNegativePrice    = errors.New("listing price is negative")
	ErrEmptyPatch       = errors.New("listing patch is empty")
)
