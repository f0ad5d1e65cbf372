package repository

import "errors"

var ErrNotFound = errors.New("задача не найдена")

// ListLimit ограничивает выдачу списка, пагинации у клиента нет
const ListLimit = 1000
