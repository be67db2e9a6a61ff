package storage

import "errors"

var ErrItemNotFound = errors.New("item not found in storage")
var ErrItemWithIDAlreadyExists = errors.New("item with the same id already exists")
