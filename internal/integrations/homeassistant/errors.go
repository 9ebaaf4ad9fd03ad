package homeassistant

import "errors"

var (
	// ErrUnauthorized возвращается при 401 от Home Assistant (невалидный токен)
	ErrUnauthorized = errors.New("homeassistant client: unauthorized")

	// ErrForbidden возвращается при 403 от Home Assistant
	ErrForbidden = errors.New("homeassistant client: forbidden")

	// ErrUnreachable возвращается при транспортных ошибках и неожиданных ответах
	ErrUnreachable = errors.New("homeassistant client: unreachable")

	// ErrUnknownMachine возвращается для машины, у которой нет настроенных сущностей
	ErrUnknownMachine = errors.New("homeassistant client: unknown machine")
)
