package app

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/internal/chat/repository"
	"live_shopping_service/pkg/config"
	"live_shopping_service/pkg/logger"
	"live_shopping_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatWebsocketHandler 建 session 用的依賴都掛這邊。
// 連線自己的狀態(包含 session)掛在 wsClient 上，不放 handler，
// 兩條連線才不會互踩
type ChatWebsocketHandler struct {
	cfg       config.SessionConfig
	sendUC    *SendMessageUseCase
	reportUC  *ReportMessageUseCase
	msgRepo   repository.MessageRepository
	showRepo  repository.ShowRepository
	feed      repository.MessageFeed
	directory repository.MemberDirectory
	presence  repository.PresenceRepository
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(
	cfg config.SessionConfig,
	sendUC *SendMessageUseCase,
	reportUC *ReportMessageUseCase,
	msgRepo repository.MessageRepository,
	showRepo repository.ShowRepository,
	feed repository.MessageFeed,
	directory repository.MemberDirectory,
	presence repository.PresenceRepository,
) *ChatWebsocketHandler {
	cfg.ApplyDefault()
	return &ChatWebsocketHandler{
		cfg:       cfg,
		sendUC:    sendUC,
		reportUC:  reportUC,
		msgRepo:   msgRepo,
		showRepo:  showRepo,
		feed:      feed,
		directory: directory,
		presence:  presence,
	}
}

// wsClient 一條 websocket 連線的狀態
type wsClient struct {
	conn     *websocket.Conn
	memberID string
	role     domain.SenderRole

	// session 只在 read loop 這條 goroutine 上換手
	session *ChatSession

	// websocket 不允許並發寫，session 的通知跟 ping 都走這把鎖
	writeMu sync.Mutex
}

// send - 發送 JSON 給前端
func (c *wsClient) send(resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (c *wsClient) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, []byte("ping message"))
}

func (c *wsClient) sendError(errorMsg string) {
	c.send(domain.WSResponse{
		Action:  "error",
		Success: false,
		Payload: map[string]interface{}{
			"error": errorMsg,
		},
	})
}

// closeSession 離場時一定要走這裡，訂閱跟在線人數才會還回去
func (c *wsClient) closeSession() {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenMember := conn.Locals(middlewares.TokenMemberID)
	memberID, ok := tokenMember.(string)
	logger.Log.Info("websocket handle memberID", zap.String("memberID", memberID), zap.String("ok", strconv.FormatBool(ok)))

	role := domain.SenderViewer
	if r, ok := conn.Locals(middlewares.TokenRole).(string); ok && domain.SenderRole(r) == domain.SenderSeller {
		role = domain.SenderSeller
	}

	client := &wsClient{conn: conn, memberID: memberID, role: role}

	ticker := time.NewTicker(1 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.String("memberID", memberID))
		client.closeSession()
		conn.Close()
		cancel()
	}()

	//client發出close
	//fiber會自動處理(在read msg 回傳err),故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	//server發出ping之後client連線正常會回pong
	//fiber會自動處理回傳pong,故需要SetPongHandler另外接出
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})

	//client發出ping
	//fiber會自動處理ping,故需要SetPingHandler另外接出
	conn.SetPingHandler(func(appData string) error {
		logger.Log.Infof("Received PING:", appData)
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// 定期發送 Ping
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := client.ping(); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
				logger.Log.Infof("%s Ping sent", memberID)
			case <-ctxClose.Done():
				logger.Log.Infof("Ping goroutine cancelled for member:", memberID)
				return
			}
		}
	}()

	for {
		// 1. 讀取前端訊息
		mt, message, err := conn.ReadMessage()
		if err != nil {
			// 檢查是否為 Close 正常結束
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived, //1005 c.WriteMessage(websocket.CloseMessage, []byte{})
			) {
				logger.Log.Errorf("Connection closed:", err)
			} else {
				//直接斷線 1006
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, client, mt, message)
	}
}

func (h *ChatWebsocketHandler) execWebsocketAction(ctx context.Context, client *wsClient, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, client, msg)

	//! close ping pong fiber會自動處理，故需使用setHandler處理

	default:
		client.sendError("unknown action")
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, client *wsClient, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		log.Printf("json unmarshal error: %v", err)
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch req.Action {
	//進場，建立 session 開始收訊息
	case string(domain.JoinShow):
		// 一條連線同時只看一場，已在場內先退掉
		client.closeSession()

		session := NewChatSession(
			req.ShowID, client.memberID, client.role, h.cfg,
			h.msgRepo, h.showRepo, h.feed, h.directory, h.presence,
			h.sendUC, client.send,
		)
		if err := session.Start(ctx); err != nil {
			resp.Error = err.Error()
		} else {
			client.session = session
			entries, state, count := session.Snapshot(ctx)
			resp.Success = true
			resp.Payload["show_id"] = req.ShowID
			resp.Payload["messages"] = entries
			resp.Payload["available"] = state.Available
			resp.Payload["ended"] = state.Ended
			resp.Payload["viewer_count"] = count
		}

	//離場，訂閱跟人數一定要還
	case string(domain.LeaveShow):
		client.closeSession()
		resp.Success = true
		resp.Payload["show_id"] = req.ShowID

	//發言，server 確認的那筆會從 session 的合併路徑回帶
	case string(domain.SendMessage):
		if client.session == nil {
			resp.Error = "join a show first"
		} else if sent, err := client.session.Send(ctx, req.Body); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["message_id"] = sent.ID
			resp.Payload["created_at"] = sent.CreatedAt
		}

	//檢舉訊息
	case string(domain.ReportMessage):
		reportID, err := h.reportUC.Execute(ctx, req.ShowID, req.MessageID, client.memberID, req.Reason)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["report_id"] = reportID
		}

	//重新同步目前視窗
	case string(domain.ChatHistory):
		if client.session == nil {
			resp.Error = "join a show first"
		} else {
			entries, state, count := client.session.Snapshot(ctx)
			resp.Success = true
			resp.Payload["messages"] = entries
			resp.Payload["available"] = state.Available
			resp.Payload["ended"] = state.Ended
			resp.Payload["viewer_count"] = count
		}

	default:
		client.sendError("unknown message types ")
		return
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err ", zap.String("MemberID", client.memberID), zap.String("Action", req.Action), zap.String("err", resp.Error))
	}
	client.send(resp)
}
