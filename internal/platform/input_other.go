//go:build !linux && !windows
// +build !linux,!windows

package platform

import (
	"context"

	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/types"
)

type unsupportedInput struct{}

// NewPaster returns a paster that always reports paste injection as unavailable
func NewPaster(*zap.Logger) Paster {
	return unsupportedInput{}
}

// NewCursorLocator returns a locator that always reports the origin
func NewCursorLocator(*zap.Logger) CursorLocator {
	return unsupportedInput{}
}

func (unsupportedInput) Paste(context.Context) error {
	return types.ErrPasteInjectionUnavailable
}

func (unsupportedInput) CursorPosition() (int, int, error) {
	return 0, 0, nil
}
