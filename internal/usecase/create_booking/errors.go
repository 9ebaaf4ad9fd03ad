package create_booking

import "errors"

var (
	// ErrInvalidInterval возвращается при некорректном интервале (start >= end)
	ErrInvalidInterval = errors.New("create_booking: invalid interval")

	// ErrLeadTimeViolation возвращается, когда начало бронирования раньше now + minimumLead
	ErrLeadTimeViolation = errors.New("create_booking: start time violates minimum lead time")

	// ErrOutsideOperatingHours возвращается, когда интервал выходит за рабочие часы прачечной
	ErrOutsideOperatingHours = errors.New("create_booking: interval is outside operating hours")

	// ErrSlotConflict возвращается, когда интервал пересекается с существующим
	// бронированием. Один и тот же тип ошибки независимо от того, кто
	// обнаружил конфликт: локальная проверка или атомарная вставка в базе
	ErrSlotConflict = errors.New("create_booking: time slot is already reserved")

	// ErrUnknownResource возвращается для неизвестного ресурса
	ErrUnknownResource = errors.New("create_booking: unknown resource")

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	// (после одной повторной попытки на уровне координатора)
	ErrStoreUnavailable = errors.New("create_booking: reservation store unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
