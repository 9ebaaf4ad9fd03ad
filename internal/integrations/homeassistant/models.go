package homeassistant

// EntityState модель ответа GET /api/states/{entity_id}
type EntityState struct {
	EntityID   string                 `json:"entity_id"`
	State      string                 `json:"state"`
	Attributes map[string]interface{} `json:"attributes"`
}

// MachineEntities идентификаторы сущностей одной машины
// EndOfCycle опционален: пустая строка означает, что у машины нет
// отдельного датчика конца цикла
type MachineEntities struct {
	Running       string
	TimeRemaining string
	Status        string
	EndOfCycle    string
}
