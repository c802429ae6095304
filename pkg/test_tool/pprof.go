package testtool

import (
	"live_shopping_service/pkg/config"
	"live_shopping_service/pkg/logger"
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint
)

// StartPprof 根據環境變數啟動 pprof 監控伺服器
func StartPprof() {
	// 正式環境不開 pprof
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return
	}

	// 非 production 環境時，在預設 port 6060 上啟動 pprof 監控伺服器
	go func() {
		logger.Log.Info("Starting pprof server on :6060")
		if err := http.ListenAndServe(":6060", nil); err != nil {
			logger.Log.Infof("pprof server failed: ", err)
		}
	}()
}

// pprof 端點：
// 	•	/debug/pprof/ → 顯示所有可用的分析數據
// 	•	/debug/pprof/goroutine → 顯示所有 Goroutines
// 	•	/debug/pprof/heap → 顯示記憶體分配
// 	•	/debug/pprof/profile → 執行 30 秒 CPU 分析
