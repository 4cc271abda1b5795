package entity

import "errors"

// Domain errors shared across usecases and repositories.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("progress version conflict")
	ErrAlreadyActive   = errors.New("already in study")
	ErrNotActivated    = errors.New("phrase not activated")
	ErrDuplicateVocab  = errors.New("vocab item already exists")
	ErrDuplicatePhrase = errors.New("phrase already exists")
)
