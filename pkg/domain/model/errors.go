package model

import "github.com/m-mizutani/goerr/v2"

// Error tags for classifying failures across layers
var (
	// ErrTagDataSource marks connection or query failures against the document store
	ErrTagDataSource = goerr.NewTag("data_source")
	// ErrTagMalformedRecord marks documents that lack a usable Subject or Marks
	ErrTagMalformedRecord = goerr.NewTag("malformed_record")
)

// Sentinel errors for domain operations
var (
	ErrEmptySnapshot   = goerr.New("snapshot has no records")
	ErrInvalidSettings = goerr.New("invalid dashboard settings")
)
