// Package goroutine launches background goroutines that log panics instead
// of taking the process down.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"grapplay/internal/shared/logger"
)

// SafeGo runs fn on its own goroutine. A panic in fn is recovered and logged
// with the goroutine's name and stack; the process keeps serving.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
