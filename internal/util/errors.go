package util

import "errors"

var (
	ErrMaterialNotFound     = errors.New("material not found")
	ErrCooldownActive       = errors.New("cooldown active, wait before the next attempt")
	ErrQuizGenerationFailed = errors.New("could not generate quiz, try again")
	ErrGeneratorUnavailable = errors.New("quiz generator is not configured")
	ErrAnswerCountMismatch  = errors.New("answer count does not match question count")
	ErrInvalidVideoURL      = errors.New("invalid YouTube URL")
	ErrInvalidOffsets       = errors.New("end offset must be greater than start offset")
	ErrTranscriptRequired   = errors.New("transcript text is required for video materials")
	ErrTextTooShort         = errors.New("text is too short (minimum 100 characters)")
	ErrSourceTextTooLong    = errors.New("source text is too long for quiz generation")
	ErrEmptyContent         = errors.New("material content is empty")
	ErrInvalidPDF           = errors.New("file must be a PDF")
	ErrFileTooLarge         = errors.New("file is too large (maximum 10 MB)")
	ErrAdminDisabled        = errors.New("admin access is not configured")
	ErrInvalidAdminSecret   = errors.New("invalid admin secret")
	ErrInvalidToken         = errors.New("invalid token")
)
