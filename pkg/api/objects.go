package api

import "encoding/json"

// Object представляет объект в ответе GET /objects
// Data возвращается как JSON, а не как строка с JSON внутри
type Object struct {
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	ModifiedAt int64           `json:"modifiedAt"`
}

// ObjectsResponse представляет ответ GET /objects, объекты по возрастанию modifiedAt
type ObjectsResponse struct {
	Objects []Object `json:"objects"`
}

// ObjectInput представляет один элемент батча PUT /objects
type ObjectInput struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// PutObjectsRequest представляет тело PUT /objects
type PutObjectsRequest struct {
	Objects []ObjectInput `json:"objects"`
}

// PutObjectsResponse содержит новый high-water mark владельца
type PutObjectsResponse struct {
	ModifiedAt int64 `json:"modifiedAt"`
}
