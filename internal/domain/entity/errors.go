package entity

import (
	"errors"
	"fmt"
)

// Ошибки входа конвейера. Всё, что после декодирования, ошибок не возвращает.
var (
	ErrValidation = errors.New("file must be an image")
	ErrDecode     = errors.New("failed to decode image")

	// ErrImageTooLarge оборачивает ErrDecode: снимок отклонён по числу пикселей до декодирования
	ErrImageTooLarge = fmt.Errorf("%w: image resolution too large", ErrDecode)
)
