//go:build go1.4
// +build go1.4

package v1

import (
	"sync"

	"github.com/modern-go/gls"
)

const (
	RequestID = "X-Request-ID"
	SessionID = "X-Session-ID"
)

// goroutine id -> *sync.Map
var localMap sync.Map

func getGoID() int64 {
	return gls.GoID()
}

func getMapByGoID(goID int64) *sync.Map {
	value, _ := localMap.Load(goID)
	if value == nil {
		_tmp := &sync.Map{}
		localMap.Store(goID, _tmp)
		return _tmp
	}
	return value.(*sync.Map)
}

// Snapshot 复制当前goroutine的本地变量，用于传递给新启动的goroutine
func Snapshot() map[string]interface{} {
	value, ok := localMap.Load(getGoID())
	if !ok {
		return nil
	}
	snapshot := make(map[string]interface{})
	value.(*sync.Map).Range(func(k, v interface{}) bool {
		snapshot[k.(string)] = v
		return true
	})
	return snapshot
}

// Restore 将Snapshot得到的变量写入当前goroutine
func Restore(snapshot map[string]interface{}) {
	if len(snapshot) == 0 {
		return
	}
	m := getMapByGoID(getGoID())
	for k, v := range snapshot {
		m.Store(k, v)
	}
}

func PutTraceID(value string) {
	Put(RequestID, value)
}

func GetTraceID() string {
	if v, ok := Get(RequestID).(string); ok {
		return v
	}
	return ""
}

func Put(key string, value interface{}) {
	getMapByGoID(getGoID()).Store(key, value)
}

func Get(key string) interface{} {
	value, ok := localMap.Load(getGoID())
	if !ok {
		return nil
	}
	if v, ok := value.(*sync.Map).Load(key); ok {
		return v
	}
	return nil
}

// Clean 必须在goroutine退出前调用，否则会泄露
func Clean() {
	localMap.Delete(getGoID())
}
