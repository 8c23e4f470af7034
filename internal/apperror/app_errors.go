package apperror

import "errors"

var (
	ErrRoomStateNotFound = errors.New("room has no stored state")
	ErrProtocol          = errors.New("malformed payload")
	ErrUnknownDifficulty = errors.New("unknown difficulty preset")
)
