package app

import (
	"context"
	"sync"

	"live_shopping_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository。
// SetRecent 設定後 FetchRecent 直接回那份資料，session 測試中途可換
type MockMessageRepository struct {
	mock.Mock

	mu        sync.Mutex
	recent    []domain.ChatMessage
	useRecent bool
	fetches   int
}

// SetRecent 設定輪詢要拉回的快照
func (m *MockMessageRepository) SetRecent(msgs []domain.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = append([]domain.ChatMessage(nil), msgs...)
	m.useRecent = true
}

// FetchCalls FetchRecent 被叫了幾次
func (m *MockMessageRepository) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// EnsureIndexes mock ensure indexes
func (m *MockMessageRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Insert mock insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FetchRecent mock fetch recent messages
func (m *MockMessageRepository) FetchRecent(ctx context.Context, showID string, limit int) ([]domain.ChatMessage, error) {
	m.mu.Lock()
	m.fetches++
	if m.useRecent {
		out := append([]domain.ChatMessage(nil), m.recent...)
		m.mu.Unlock()
		return out, nil
	}
	m.mu.Unlock()

	args := m.Called(ctx, showID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockShowRepository Mock ShowRepository。
// SetStatus 設定後 FetchStatus 直接回那份狀態，測試中途可翻生命週期
type MockShowRepository struct {
	mock.Mock

	mu        sync.Mutex
	status    *domain.ShowStatus
	statusErr error
}

// SetStatus 測試中途翻生命週期
func (m *MockShowRepository) SetStatus(status domain.ShowStatus, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = &status
	m.statusErr = err
}

// AutoMigrate mock migrate
func (m *MockShowRepository) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// Create mock create show
func (m *MockShowRepository) Create(ctx context.Context, show *domain.Show) error {
	args := m.Called(ctx, show)
	return args.Error(0)
}

// Update mock update show
func (m *MockShowRepository) Update(ctx context.Context, show *domain.Show) error {
	args := m.Called(ctx, show)
	return args.Error(0)
}

// GetByID mock get show by id
func (m *MockShowRepository) GetByID(ctx context.Context, id string) (*domain.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Show), args.Error(1)
	}
	return nil, args.Error(1)
}

// FetchStatus mock fetch show status
func (m *MockShowRepository) FetchStatus(ctx context.Context, id string) (domain.ShowStatus, error) {
	m.mu.Lock()
	if m.status != nil {
		status, err := *m.status, m.statusErr
		m.mu.Unlock()
		return status, err
	}
	m.mu.Unlock()

	args := m.Called(ctx, id)
	return args.Get(0).(domain.ShowStatus), args.Error(1)
}

// SetLifecycle mock set show lifecycle
func (m *MockShowRepository) SetLifecycle(ctx context.Context, id string, isLive, isEnding bool) error {
	args := m.Called(ctx, id, isLive, isEnding)
	return args.Error(0)
}

// MockMemberDirectory Mock MemberDirectory
type MockMemberDirectory struct {
	mock.Mock
}

// FetchNames mock fetch display names
func (m *MockMemberDirectory) FetchNames(ctx context.Context, memberIDs []string) (map[string]string, error) {
	args := m.Called(ctx, memberIDs)
	if args.Get(0) != nil {
		return args.Get(0).(map[string]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMessageFeed Mock MessageFeed，
// 把訂閱的 callback 接出來讓測試直接餵推播事件跟連線狀態
type MockMessageFeed struct {
	mock.Mock

	mu       sync.Mutex
	onInsert func(msg domain.ChatMessage)
	onStatus func(connected bool)
	unsubs   int
}

// Publish mock publish message
func (m *MockMessageFeed) Publish(ctx context.Context, msg domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Subscribe mock subscribe，接住 callback 後回報連線成功
func (m *MockMessageFeed) Subscribe(ctx context.Context, showID string, onInsert func(domain.ChatMessage), onStatus func(bool)) (func(), error) {
	args := m.Called(ctx, showID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	m.mu.Lock()
	m.onInsert = onInsert
	m.onStatus = onStatus
	m.mu.Unlock()

	if onStatus != nil {
		onStatus(true)
	}
	return func() {
		m.mu.Lock()
		m.unsubs++
		m.mu.Unlock()
	}, nil
}

// EmitInsert 模擬事件流推一筆進來
func (m *MockMessageFeed) EmitInsert(msg domain.ChatMessage) {
	m.mu.Lock()
	fn := m.onInsert
	m.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// EmitStatus 模擬訂閱連線狀態變化
func (m *MockMessageFeed) EmitStatus(connected bool) {
	m.mu.Lock()
	fn := m.onStatus
	m.mu.Unlock()
	if fn != nil {
		fn(connected)
	}
}

// UnsubscribeCalls unsubscribe 被叫了幾次
func (m *MockMessageFeed) UnsubscribeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubs
}

// MockPresenceRepository Mock PresenceRepository
type MockPresenceRepository struct {
	mock.Mock
}

// Join mock presence join
func (m *MockPresenceRepository) Join(ctx context.Context, showID string) (int64, error) {
	args := m.Called(ctx, showID)
	return args.Get(0).(int64), args.Error(1)
}

// Leave mock presence leave
func (m *MockPresenceRepository) Leave(ctx context.Context, showID string) (int64, error) {
	args := m.Called(ctx, showID)
	return args.Get(0).(int64), args.Error(1)
}

// Count mock presence count
func (m *MockPresenceRepository) Count(ctx context.Context, showID string) (int64, error) {
	args := m.Called(ctx, showID)
	return args.Get(0).(int64), args.Error(1)
}

// MockChatEventProducer Mock ChatEventProducer
type MockChatEventProducer struct {
	mock.Mock
}

// MessageCreated mock emit message created event
func (m *MockChatEventProducer) MessageCreated(ctx context.Context, msg domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MessageReported mock emit message reported event
func (m *MockChatEventProducer) MessageReported(ctx context.Context, report domain.MessageReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// MockModerationQueue Mock ModerationQueue
type MockModerationQueue struct {
	mock.Mock
}

// PublishReport mock publish report
func (m *MockModerationQueue) PublishReport(report domain.MessageReport) error {
	args := m.Called(report)
	return args.Error(0)
}
