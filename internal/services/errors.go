package services

import "errors"

// Common service errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidTransition  = errors.New("invalid document status transition")
	ErrNotEditable        = errors.New("only draft documents can be edited")
	ErrAlreadySigned      = errors.New("document already signed by this user")
	ErrNotSignable        = errors.New("document cannot be signed in its current status")
	ErrDuplicate          = errors.New("duplicate record")
	ErrTemplateInactive   = errors.New("template is not active")
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrInvalidContentType = errors.New("file content type is not allowed")
	ErrInvalidStatus      = errors.New("unknown status value")
)
