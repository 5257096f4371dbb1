package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for the failures the boundary handlers translate into responses.
var (
	ErrMissingConfig           = errors.New("missing required configuration")
	ErrInvalidSignature        = errors.New("invalid signature")
	ErrMissingDocumentType     = errors.New("missing document type")
	ErrContentTypeNotAllowed   = errors.New("content type is not allowed")
	ErrStorageNotConfigured    = errors.New("blob storage credential is not configured")
	ErrInvalidUploadToken      = errors.New("invalid upload token")
	ErrNotFound                = errors.New("requested resource not found")
	ErrInvalidPickerTransition = errors.New("invalid asset picker transition")
)
