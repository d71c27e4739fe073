package safego

import (
	"github.com/caiflower/tinyhttp/pkg/e"
	golocalv1 "github.com/caiflower/tinyhttp/pkg/golocal/v1"
)

// Go 启动goroutine并拦截panic，当前goroutine的本地变量(traceID等)会传递给新goroutine
func Go(fn func()) {
	GoWithRecover(fn, nil)
}

// GoWithRecover 与Go相同，panic交由onPanic处理
func GoWithRecover(fn func(), onPanic func(r interface{}, stack []byte)) {
	snapshot := golocalv1.Snapshot()
	go func() {
		defer golocalv1.Clean()
		defer e.OnErrorFunc(onPanic)

		golocalv1.Restore(snapshot)
		fn()
	}()
}
