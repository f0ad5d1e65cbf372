package client

import "fmt"

type Op string

const (
	OpList         Op = "list"
	OpCreate       Op = "create"
	OpUpdateStatus Op = "update_status"
)

// FetchError - единая ошибка любого неуспешного запроса: транспорт,
// не-2xx или битое тело. Подробности сервера не сохраняются.
type FetchError struct {
	Op         Op
	StatusCode int // 0, если ответа не было
	Err        error
}

func (e *FetchError) Error() string {
	return e.Message()
}

// Message - текст для пользователя, без технических деталей
func (e *FetchError) Message() string {
	switch e.Op {
	case OpList:
		return "не удалось получить задачи"
	case OpCreate:
		return "не удалось создать задачу"
	case OpUpdateStatus:
		return "не удалось обновить задачу"
	default:
		return "ошибка запроса"
	}
}

// Detail - техническое описание для логов
func (e *FetchError) Detail() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: статус %d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: статус %d", e.Op, e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
