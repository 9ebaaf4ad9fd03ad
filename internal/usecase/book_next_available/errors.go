package book_next_available

import "errors"

var (
	// ErrNoSlotFound возвращается, когда в горизонте поиска нет свободного
	// интервала нужной длительности (в том числе после исчерпания повторов
	// из-за гонок при вставке)
	ErrNoSlotFound = errors.New("book_next_available: no free slot within the search horizon")

	// ErrUnknownResource возвращается для неизвестного ресурса
	ErrUnknownResource = errors.New("book_next_available: unknown resource")

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	ErrStoreUnavailable = errors.New("book_next_available: reservation store unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_next_available: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_next_available: internal error")
)
