package tabulation

import "errors"

var ErrSheetLocked = errors.New("scoresheet is locked for editing")
var ErrAlreadySubmitted = errors.New("scoresheet already submitted")
var ErrNotSubmitted = errors.New("scoresheet is not submitted")
var ErrUnknownCriterion = errors.New("criterion does not belong to this category")
var ErrUnknownParticipant = errors.New("participant is not part of this sheet")
var ErrBadOrder = errors.New("order must be a permutation of the division participants")
