package directory

import (
	. "github.com/weberc2/ecsfs/pkg/types"
)

const (
	NameTooLongErr   ConstError = "name too long"
	InvalidNameErr   ConstError = "invalid name"
	AlreadyExistsErr ConstError = "file already exists"
	NotFoundErr      ConstError = "file not found"
	NoFreeSlotErr    ConstError = "no free directory slot"
)

type FileInfo struct {
	Slot       int
	Name       string
	Size       uint32
	FirstIndex Index
}
