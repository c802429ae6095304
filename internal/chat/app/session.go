package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/internal/chat/repository"
	"live_shopping_service/pkg/config"
	"live_shopping_service/pkg/logger"

	"go.uber.org/zap"
)

// MergeSource 訊息進到 session 的來源
type MergeSource string

const (
	// MergePull 輪詢拉回的快照
	MergePull MergeSource = "pull"
	// MergePush 事件流推進來的單筆
	MergePush MergeSource = "push"
	// MergeLocal 自己送出後 server 確認的回帶
	MergeLocal MergeSource = "local"
)

// nameLookupTimeout 單批名稱查詢上限
const nameLookupTimeout = 5 * time.Second

// ChatSession 一條 websocket 連線對一個場次的觀看 session。
// 訊息視窗、去重、名稱快取、雙通道仲裁狀態都掛在這裡，
// 進場建立、離場銷毀，場次之間不共用
type ChatSession struct {
	showID   string
	memberID string
	role     domain.SenderRole
	cfg      config.SessionConfig

	msgRepo   repository.MessageRepository
	showRepo  repository.ShowRepository
	feed      repository.MessageFeed
	directory repository.MemberDirectory
	presence  repository.PresenceRepository
	sendUC    *SendMessageUseCase

	// notify 把要給前端的回應交給連線層，由連線層決定怎麼寫
	notify func(resp domain.WSResponse)

	mu            sync.Mutex
	buffer        *domain.MessageBuffer
	dedup         *domain.DedupIndex
	names         map[string]string   // sender_id -> display_name，session 內有效
	inFlight      map[string]struct{} // 查詢中的 sender_id，擋重複查
	pushHealthy   bool
	lastPushMerge time.Time
	available     bool
	ended         bool
	closed        bool
	pulling       bool
	activityTimer *time.Timer

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

// NewChatSession create a ChatSession
func NewChatSession(
	showID, memberID string,
	role domain.SenderRole,
	cfg config.SessionConfig,
	msgRepo repository.MessageRepository,
	showRepo repository.ShowRepository,
	feed repository.MessageFeed,
	directory repository.MemberDirectory,
	presence repository.PresenceRepository,
	sendUC *SendMessageUseCase,
	notify func(resp domain.WSResponse),
) *ChatSession {
	cfg.ApplyDefault()
	return &ChatSession{
		showID:    showID,
		memberID:  memberID,
		role:      role,
		cfg:       cfg,
		msgRepo:   msgRepo,
		showRepo:  showRepo,
		feed:      feed,
		directory: directory,
		presence:  presence,
		sendUC:    sendUC,
		notify:    notify,
		buffer:    domain.NewMessageBuffer(cfg.BufferCapacity),
		dedup:     domain.NewDedupIndex(cfg.DedupCeiling, cfg.BufferCapacity),
		names:     make(map[string]string),
		inFlight:  make(map[string]struct{}),
	}
}

// Start 進場流程：
// 1. 讀場次狀態，場次不存在就不給進
// 2. 在線人數 +1
// 3. 訂閱事件流，掛了就全程靠輪詢
// 4. 先無條件拉一次，畫面不能等事件流
// 5. 啟動輪詢與可用性檢查
func (s *ChatSession) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	statusCtx, cancel := context.WithTimeout(s.ctx, s.cfg.AvailabilityInterval)
	status, err := s.showRepo.FetchStatus(statusCtx, s.showID)
	cancel()
	if err != nil {
		s.cancel()
		return err
	}
	state := status.State()
	s.mu.Lock()
	s.available = state.Available
	s.ended = state.Ended
	s.mu.Unlock()

	if _, err := s.presence.Join(s.ctx, s.showID); err != nil {
		logger.Log.Errorf("presence join failed:", err, zap.String("showID", s.showID))
	}

	unsubscribe, err := s.feed.Subscribe(s.ctx, s.showID, s.onFeedInsert, s.onFeedStatus)
	if err != nil {
		logger.Log.Errorf("feed subscribe failed, fallback to polling:", err, zap.String("showID", s.showID))
	} else {
		s.unsubscribe = unsubscribe
	}

	s.pullOnce()

	s.wg.Add(2)
	go s.runPullLoop()
	go s.runAvailabilityLoop()

	s.resetActivityTimer()

	logger.Log.Info("chat session started",
		zap.String("showID", s.showID),
		zap.String("memberID", s.memberID),
		zap.Bool("available", state.Available))
	return nil
}

// Close 離場。取消計時器與輪詢、退掉事件流訂閱、人數 -1。
// 之後才完成的查詢結果一律丟棄
func (s *ChatSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.activityTimer != nil {
		s.activityTimer.Stop()
	}
	s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	// session ctx 已取消，退場用獨立 ctx
	leaveCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := s.presence.Leave(leaveCtx, s.showID); err != nil {
		logger.Log.Errorf("presence leave failed:", err, zap.String("showID", s.showID))
	}

	logger.Log.Info("chat session closed",
		zap.String("showID", s.showID), zap.String("memberID", s.memberID))
}

// ApplyIncoming 唯一的訊息合併入口，pull、push、本地回帶都走這裡。
// 去重、排序視窗、名稱查詢、活動計時器只在這一處更新，
// 同一批丟兩次結果不變。千萬不要在別的地方自己動這些狀態，
// 之前就是有路徑只記了去重沒觸發名稱查詢，自己的訊息一直沒名字
func (s *ChatSession) ApplyIncoming(source MergeSource, batch []domain.ChatMessage) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	accepted := make([]domain.ChatMessage, 0, len(batch))
	unresolved := make([]string, 0, len(batch))
	for _, msg := range batch {
		if msg.ShowID != s.showID {
			continue
		}
		if !s.dedup.Add(msg.ID) {
			continue
		}
		s.buffer.Insert(msg)
		accepted = append(accepted, msg)

		// 賣家固定顯示名稱，觀眾才需要查
		if msg.SenderRole != domain.SenderViewer {
			continue
		}
		if _, ok := s.names[msg.SenderID]; ok {
			continue
		}
		if _, ok := s.inFlight[msg.SenderID]; ok {
			continue
		}
		s.inFlight[msg.SenderID] = struct{}{}
		unresolved = append(unresolved, msg.SenderID)
	}

	if len(accepted) == 0 {
		s.mu.Unlock()
		return
	}

	if source == MergePush {
		s.lastPushMerge = time.Now()
	}

	entries := make([]domain.ChatEntry, 0, len(accepted))
	for _, msg := range accepted {
		entries = append(entries, domain.ChatEntry{ChatMessage: msg, DisplayName: s.displayNameLocked(msg)})
	}

	launch := len(unresolved) > 0
	if launch {
		// Add 要在鎖內做，收掉 session 時才不會跟 Wait 打架
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if launch {
		go s.resolveNames(unresolved)
	}

	s.resetActivityTimer()

	s.emit(domain.WSResponse{
		Action:  string(domain.NotifyMessage),
		Success: true,
		Payload: map[string]interface{}{
			"source":   string(source),
			"messages": entries,
		},
	})
}

// resolveNames 批次查顯示名稱，查到後補發 name_resolved。
// 查詢失敗留 fallback，同一位 sender 下一批再出現時重試；
// 查得到但名單裡沒有的人直接記 fallback，擋住無謂的重查
func (s *ChatSession) resolveNames(senderIDs []string) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, nameLookupTimeout)
	defer cancel()

	names, err := s.directory.FetchNames(ctx, senderIDs)

	s.mu.Lock()
	for _, id := range senderIDs {
		delete(s.inFlight, id)
	}
	if err != nil {
		s.mu.Unlock()
		logger.Log.Errorf("fetch display names failed:", err, zap.String("showID", s.showID))
		return
	}

	resolved := make(map[string]interface{}, len(senderIDs))
	for _, id := range senderIDs {
		name, ok := names[id]
		if !ok {
			name = domain.FallbackDisplayName(id)
		}
		s.names[id] = name
		resolved[id] = name
	}
	s.mu.Unlock()

	s.emit(domain.WSResponse{
		Action:  string(domain.NameResolved),
		Success: true,
		Payload: map[string]interface{}{"names": resolved},
	})
}

// Send 發言。本地驗證與可用性先擋，不浪費網路；
// 成功後把 server 確認的那筆走一般合併路徑回帶，
// 之後輪詢或事件流再送到同一筆會被去重自然吃掉
func (s *ChatSession) Send(ctx context.Context, body string) (domain.ChatMessage, error) {
	var zero domain.ChatMessage

	normalized, err := domain.NormalizeBody(body)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	available := s.available && !s.closed
	s.mu.Unlock()
	if !available {
		return zero, domain.ErrChatUnavailable
	}

	msg, err := s.sendUC.Execute(ctx, s.showID, s.memberID, s.role, normalized)
	if err != nil {
		// 寫入被生命週期擋下就馬上翻狀態，不等下一拍輪詢
		if errors.Is(err, domain.ErrChatUnavailable) {
			s.markUnavailable()
		}
		return zero, err
	}

	s.ApplyIncoming(MergeLocal, []domain.ChatMessage{msg})
	return msg, nil
}

// markUnavailable 發言被擋下時主動翻可用性，下一拍輪詢會再校正
func (s *ChatSession) markUnavailable() {
	s.mu.Lock()
	if s.closed || !s.available {
		s.mu.Unlock()
		return
	}
	s.available = false
	state := domain.AvailabilityState{Available: false, Ended: s.ended}
	s.mu.Unlock()

	s.emitState(state)
}

// Entries 目前視窗內容，帶顯示名稱
func (s *ChatSession) Entries() []domain.ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.buffer.Messages()
	entries := make([]domain.ChatEntry, 0, len(msgs))
	for _, msg := range msgs {
		entries = append(entries, domain.ChatEntry{ChatMessage: msg, DisplayName: s.displayNameLocked(msg)})
	}
	return entries
}

// State 目前可用性
func (s *ChatSession) State() domain.AvailabilityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.AvailabilityState{Available: s.available, Ended: s.ended}
}

// Snapshot 視窗內容加狀態加在線人數，剛進場跟重新同步用
func (s *ChatSession) Snapshot(ctx context.Context) ([]domain.ChatEntry, domain.AvailabilityState, int64) {
	entries := s.Entries()
	state := s.State()

	count, err := s.presence.Count(ctx, s.showID)
	if err != nil {
		logger.Log.Errorf("presence count failed:", err, zap.String("showID", s.showID))
		count = 0
	}
	return entries, state, count
}

// displayNameLocked 要拿著 s.mu 呼叫
func (s *ChatSession) displayNameLocked(msg domain.ChatMessage) string {
	if msg.SenderRole == domain.SenderSeller {
		return domain.SellerDisplayName
	}
	if name, ok := s.names[msg.SenderID]; ok {
		return name
	}
	return domain.FallbackDisplayName(msg.SenderID)
}

// resetActivityTimer 有新訊息就重算閒置，時間到通知前端收掉動態效果
func (s *ChatSession) resetActivityTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.activityTimer != nil {
		s.activityTimer.Stop()
	}
	s.activityTimer = time.AfterFunc(s.cfg.ActivityIdleAfter, s.onActivityIdle)
}

func (s *ChatSession) onActivityIdle() {
	s.emit(domain.WSResponse{
		Action:  string(domain.ChatIdle),
		Success: true,
		Payload: map[string]interface{}{"show_id": s.showID},
	})
}

// emitState 狀態通知順便帶上在線人數
func (s *ChatSession) emitState(state domain.AvailabilityState) {
	var count int64
	countCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if n, err := s.presence.Count(countCtx, s.showID); err == nil {
		count = n
	}

	s.emit(domain.WSResponse{
		Action:  string(domain.ChatState),
		Success: true,
		Payload: map[string]interface{}{
			"available":    state.Available,
			"ended":        state.Ended,
			"viewer_count": count,
		},
	})
}

// emit 往前端送的統一出口，session 收掉後不再往外送
func (s *ChatSession) emit(resp domain.WSResponse) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed || s.notify == nil {
		return
	}
	s.notify(resp)
}
