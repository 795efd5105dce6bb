package format

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/gcingest/internal/model"
)

// ErrUnsupportedFormatVersion is returned when no tokenizer layout exists for
// a VM version and collector pair.
var ErrUnsupportedFormatVersion = errors.New("unsupported gc log format version")

// LogType names the tokenizer layout a log must be read with.
type LogType string

const (
	Sun122  LogType = "SUN1_2_2"
	Sun131  LogType = "SUN1_3_1"
	Sun14   LogType = "SUN1_4"
	Sun15   LogType = "SUN1_5"
	Sun16   LogType = "SUN1_6"
	Sun16G1 LogType = "SUN1_6G1"
	Sun17   LogType = "SUN1_7"
	Sun17G1 LogType = "SUN1_7G1"
	Sun18   LogType = "SUN1_8"
	Sun18G1 LogType = "SUN1_8G1"
)

// Resolve maps a VM version and collector to a log layout. Before 1.6 the
// layout does not depend on the collector; 1.9 logs share the 1.8 layout.
func Resolve(vm model.VMVersion, collector model.CollectorType) (LogType, error) {
	g1 := collector == model.CollectorG1
	switch vm {
	case model.HotSpot122:
		return Sun122, nil
	case model.HotSpot131:
		return Sun131, nil
	case model.HotSpot14:
		return Sun14, nil
	case model.HotSpot15:
		return Sun15, nil
	case model.HotSpot16:
		if g1 {
			return Sun16G1, nil
		}
		return Sun16, nil
	case model.HotSpot17:
		if g1 {
			return Sun17G1, nil
		}
		return Sun17, nil
	case model.HotSpot18, model.HotSpot19:
		if g1 {
			return Sun18G1, nil
		}
		return Sun18, nil
	}
	return "", fmt.Errorf("%w: vm %s with %s collector", ErrUnsupportedFormatVersion, vm, collector)
}

// Supported lists every VM version with the layout it resolves to for the
// given collector.
func Supported(collector model.CollectorType) map[model.VMVersion]LogType {
	out := make(map[model.VMVersion]LogType)
	for vm := model.HotSpot122; vm <= model.HotSpot19; vm++ {
		if lt, err := Resolve(vm, collector); err == nil {
			out[vm] = lt
		}
	}
	return out
}
