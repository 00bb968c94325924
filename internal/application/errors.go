package app

import "errors"

var (
	// ErrModelUnavailable модель не загрузилась, проверка невозможна
	ErrModelUnavailable = errors.New("detection model is unavailable")
	// ErrMalformedImage загруженный файл не удалось декодировать
	ErrMalformedImage = errors.New("malformed image")
	// ErrNotAuthenticated детектор доступен только после входа
	ErrNotAuthenticated = errors.New("login required")
	// ErrInvalidCredentials неверный логин или пароль
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrEmptyCredentials логин и пароль не могут быть пустыми
	ErrEmptyCredentials = errors.New("username and password cannot be empty")
)
