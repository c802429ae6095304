package app

import (
	"context"
	"time"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/pkg/logger"

	"go.uber.org/zap"
)

// onFeedInsert 事件流來的單筆，包成單元素批次走一般合併
func (s *ChatSession) onFeedInsert(msg domain.ChatMessage) {
	s.ApplyIncoming(MergePush, []domain.ChatMessage{msg})
}

// onFeedStatus 訂閱連線狀態回報。連上只是弱訊號，
// 代表通道在、不代表事件真的會到，保活驗證在 shouldPull
func (s *ChatSession) onFeedStatus(connected bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pushHealthy = connected
	if connected {
		// 剛連上先給一段寬限，不然下一拍就被判停滯
		s.lastPushMerge = time.Now()
	}
	s.mu.Unlock()

	logger.Log.Info("push feed status",
		zap.String("showID", s.showID), zap.Bool("connected", connected))
}

// runPullLoop 固定週期輪詢，事件流被信任時跳過該拍
func (s *ChatSession) runPullLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.shouldPull() {
				s.pullOnce()
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// shouldPull 仲裁：事件流健康才省輪詢，而且健康要用保活驗證，
// 連線在但太久沒有事件合併進來就視同斷線，降級恢復輪詢。
// 訂閱靜默失效時最多慢一個輪詢週期就補回來
func (s *ChatSession) shouldPull() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pushHealthy {
		return true
	}
	if time.Since(s.lastPushMerge) > s.cfg.PushStaleAfter {
		s.pushHealthy = false
		logger.Log.Warn("push feed stale, resume polling",
			zap.String("showID", s.showID),
			zap.Duration("staleAfter", s.cfg.PushStaleAfter))
		return true
	}
	return false
}

// pullOnce 拉一次近期訊息丟進合併。
// 上一次還在路上就跳過這一拍，不排隊；
// 收掉 session 之後才完成的那次結果會被 ApplyIncoming 丟棄
func (s *ChatSession) pullOnce() {
	s.mu.Lock()
	if s.closed || s.pulling {
		s.mu.Unlock()
		return
	}
	s.pulling = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pulling = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.PullInterval)
	defer cancel()

	batch, err := s.msgRepo.FetchRecent(ctx, s.showID, s.cfg.HistoryLimit)
	if err != nil {
		// 暫時性失敗，下一拍自然重試
		logger.Log.Errorf("pull recent messages failed:", err, zap.String("showID", s.showID))
		return
	}
	s.ApplyIncoming(MergePull, batch)
}

// runAvailabilityLoop 可用性檢查走自己的週期，
// 跟訊息通道無關，不會被仲裁跳過
func (s *ChatSession) runAvailabilityLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.AvailabilityInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkAvailability()
		case <-s.ctx.Done():
			return
		}
	}
}

// checkAvailability 讀場次狀態推導可用性。
// 結束是單向終態，之後晚到的舊狀態不會把它翻回來
func (s *ChatSession) checkAvailability() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.AvailabilityInterval)
	defer cancel()

	status, err := s.showRepo.FetchStatus(ctx, s.showID)
	if err != nil {
		// 拿不到就沿用上次的狀態，下一拍再試
		logger.Log.Errorf("fetch show status failed:", err, zap.String("showID", s.showID))
		return
	}

	state := status.State()

	s.mu.Lock()
	if s.closed || s.ended {
		s.mu.Unlock()
		return
	}
	changed := s.available != state.Available || state.Ended
	s.available = state.Available
	if state.Ended {
		s.ended = true
	}
	current := domain.AvailabilityState{Available: s.available, Ended: s.ended}
	s.mu.Unlock()

	if changed {
		s.emitState(current)
	}
}
