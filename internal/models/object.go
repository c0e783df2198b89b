package models

// StoredObject представляет синхронизируемый объект пользователя
// Первичный ключ (Owner, ID); ModifiedAt строго возрастает в пределах владельца
type StoredObject struct {
	Owner      string `json:"owner"`       // username владельца
	ID         string `json:"id"`          // непрозрачный идентификатор, выбранный клиентом
	Data       string `json:"data"`        // JSON-encoded payload, ядро его не интерпретирует
	ModifiedAt int64  `json:"modified_at"` // логические часы владельца (watermark)
}

// ObjectInput is a single member of a write batch; ModifiedAt is assigned by the store
type ObjectInput struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}
