package errors

import "errors"

var (
	ErrClaimNotFound    = errors.New("claim not found")
	ErrClaimConflict    = errors.New("claim conflict")
	ErrInvalidClaimData = errors.New("invalid claim data")

	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocumentConflict    = errors.New("document conflict")
	ErrInvalidDocumentData = errors.New("invalid document data")
)
