package in

import "efforts/internal/modules/timer/dto"

// Usecase is the live session timer.
type Usecase interface {
	Track(target dto.Target)
	Untrack()
	Start()
	Resync()
	Stop()
	Reset()
	Snapshot() dto.Snapshot
}
