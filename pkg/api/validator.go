package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (m IntentMessage) Validate() error {
	if m.MoveX < -1 || m.MoveX > 1 || m.MoveY < -1 || m.MoveY > 1 {
		return errors.New("movement axis out of [-1, 1]")
	}
	if m.SwitchSlot < -1 {
		return errors.New("switchSlot must be -1 or a slot index")
	}
	return nil
}
