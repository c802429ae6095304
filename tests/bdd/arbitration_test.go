package bdd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"live_shopping_service/internal/chat/app"
	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/pkg/config"
	"live_shopping_service/pkg/logger"

	"github.com/stretchr/testify/mock"
)

// 仲裁場景用真的 ChatSession 跑，repo 層全換成 mock
var (
	arbSession  *app.ChatSession
	arbMsgRepo  *app.MockMessageRepository
	arbBaseline int
	arbSendErr  error
)

// newArbitrationSession 生一個掛滿 mock 的 session。
// 訂閱一接上 mock 就回報連線成功，事件流視為健康
func newArbitrationSession(status domain.ShowStatus) error {
	logger.SetNewNop()

	arbMsgRepo = new(app.MockMessageRepository)
	arbMsgRepo.SetRecent(nil)

	showRepo := new(app.MockShowRepository)
	showRepo.SetStatus(status, nil)

	feed := new(app.MockMessageFeed)
	feed.On("Subscribe", mock.Anything, mock.Anything).Return(nil, nil)

	presence := new(app.MockPresenceRepository)
	presence.On("Join", mock.Anything, mock.Anything).Return(int64(1), nil)
	presence.On("Leave", mock.Anything, mock.Anything).Return(int64(0), nil)
	presence.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	// 週期縮到毫秒級，場景才跑得快；可用性與閒置拉長到不會觸發
	cfg := config.SessionConfig{
		PullInterval:         30 * time.Millisecond,
		AvailabilityInterval: time.Hour,
		PushStaleAfter:       80 * time.Millisecond,
		ActivityIdleAfter:    time.Hour,
		BufferCapacity:       10,
	}

	arbSession = app.NewChatSession("show-bdd", "viewer-bdd", domain.SenderViewer, cfg,
		arbMsgRepo, showRepo, feed, new(app.MockMemberDirectory), presence, nil,
		func(domain.WSResponse) {})
	if err := arbSession.Start(context.Background()); err != nil {
		return err
	}

	// 進場那次無條件拉不算，之後的才是仲裁放行的
	arbBaseline = arbMsgRepo.FetchCalls()
	return nil
}

func aHealthyPushSession() error {
	return newArbitrationSession(domain.ShowStatus{IsLive: true})
}

func anEndingShowSession() error {
	return newArbitrationSession(domain.ShowStatus{IsLive: true, IsEnding: true})
}

func pushFeedStaysSilent() error {
	// 超過 PushStaleAfter 還要再多幾拍輪詢的時間
	time.Sleep(200 * time.Millisecond)
	return nil
}

func pollingShouldResume() error {
	calls := arbMsgRepo.FetchCalls()
	arbSession.Close()
	if calls <= arbBaseline {
		return fmt.Errorf("expected polling to resume, fetch calls stay at %d", calls)
	}
	return nil
}

func viewerTriesToSend(body string) error {
	_, arbSendErr = arbSession.Send(context.Background(), body)
	return nil
}

func sendShouldBeRejectedAsUnavailable() error {
	defer arbSession.Close()
	if !errors.Is(arbSendErr, domain.ErrChatUnavailable) {
		return fmt.Errorf("expected chat unavailable, but got %v", arbSendErr)
	}
	return nil
}
