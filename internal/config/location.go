package config

import "time"

func timeLoadLocation(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}

// Location возвращает таймзону прачечной
// Валидность имени проверена при загрузке конфигурации
func (c *BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
