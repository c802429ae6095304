package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/internal/chat/repository"
	"live_shopping_service/pkg/config"
	"live_shopping_service/pkg/database"
	"live_shopping_service/pkg/logger"
	"live_shopping_service/pkg/middlewares"
	"live_shopping_service/pkg/token"
	testtool "live_shopping_service/pkg/test_tool"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// **測試用的容器**
var mongoContainer testcontainers.Container
var redisContainer testcontainers.Container
var postgresContainer testcontainers.Container
var chatApp *fiber.App

var testShowRepo repository.ShowRepository
var testMsgRepo repository.MessageRepository

var viewerToken string
var viewer2Token string
var sellerToken string

const integrationPort = ":8082"
const integrationBase = "http://127.0.0.1:8082"
const integrationWS = "ws://127.0.0.1:8082/ws/chat"

// integrationSessionConfig 整合測試的 session 參數，
// 訊息相關節奏放快、閒置通知放慢避免干擾斷言
func integrationSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		PullInterval:         300 * time.Millisecond,
		AvailabilityInterval: 300 * time.Millisecond,
		PushStaleAfter:       5 * time.Second,
		ActivityIdleAfter:    time.Hour,
		BufferCapacity:       100,
	}
}

// **TestMain 初始化測試環境**
func TestMain(m *testing.M) {
	ctx := context.Background()
	logger.SetNewNop()
	var err error

	// **啟動 MongoDB**
	mongoContainer, mongoHost, mongoPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "mongo:latest",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start MongoDB container: %v", err)
	}
	fmt.Printf("✅ MongoDB running at %s:%s\n", mongoHost, mongoPort)

	// **啟動 Redis**
	redisContainer, redisHost, redisPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:latest",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start Redis container: %v", err)
	}
	fmt.Printf("✅ Redis running at %s:%s\n", redisHost, redisPort)

	// **啟動 PostgreSQL**
	postgresContainer, postgresHost, postgresPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image: "postgres:latest",
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "chatdb",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start PostgreSQL container: %v", err)
	}
	fmt.Printf("✅ PostgreSQL running at %s:%s\n", postgresHost, postgresPort)

	// **設定環境變數**
	os.Setenv("MONGO_URL", fmt.Sprintf("mongodb://%s:%s", mongoHost, mongoPort))
	os.Setenv("REDIS_URL", fmt.Sprintf("%s:%s", redisHost, redisPort))
	os.Setenv("DATABASE_URL", fmt.Sprintf("postgres://test:test@%s:%s/chatdb?sslmode=disable", postgresHost, postgresPort))

	fmt.Printf("🔹 MONGO_URL=%s\n", os.Getenv("MONGO_URL"))
	fmt.Printf("🔹 REDIS_URL=%s\n", os.Getenv("REDIS_URL"))
	fmt.Printf("🔹 DATABASE_URL=%s\n", os.Getenv("DATABASE_URL"))

	// **等待 PostgreSQL 確保已經準備好**
	time.Sleep(5 * time.Second)

	// **初始化 MongoDB**
	mongo, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    os.Getenv("MONGO_URL"),
		RetryCount:    5,
		RetryInterval: 5,
	}, "test_chat_db")
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongo.Close(ctx)

	// **初始化 Redis**
	redisClient := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_URL"),
		DB:   0,
	})

	// **初始化 PostgreSQL (pgx pool 給名錄、gorm 給場次)**
	pgPool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    os.Getenv("DATABASE_URL"),
		RetryCount:    5,
		RetryInterval: 5,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}
	gormDB, err := database.NewPGConnection(database.Connection{
		ConnectStr:    os.Getenv("DATABASE_URL"),
		RetryCount:    5,
		RetryInterval: 5,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL via gorm: %v", err)
	}

	// **建立名錄資料**
	if _, err := pgPool.Exec(ctx, `CREATE TABLE IF NOT EXISTS member (member_id TEXT PRIMARY KEY, display_name TEXT NOT NULL)`); err != nil {
		log.Fatalf("❌ Failed to create member table: %v", err)
	}
	if _, err := pgPool.Exec(ctx, `INSERT INTO member (member_id, display_name) VALUES
		('viewer-001', '小美'), ('viewer-002', '阿宏'), ('seller-001', '賣家本人')
		ON CONFLICT (member_id) DO NOTHING`); err != nil {
		log.Fatalf("❌ Failed to seed member table: %v", err)
	}

	// **初始化 Repository**
	testMsgRepo = repository.NewMongoMessageRepository(mongo.Database)
	if err := testMsgRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Failed to ensure message indexes: %v", err)
	}
	testShowRepo = repository.NewShowRepository(gormDB)
	if err := testShowRepo.AutoMigrate(); err != nil {
		log.Fatalf("❌ Failed to migrate show table: %v", err)
	}
	feed := repository.NewRedisMessageFeed(redisClient)
	directory := repository.NewMemberDirectory(pgPool)
	presence := repository.NewRedisPresenceRepository(redisClient)

	// **初始化 UseCases (kafka 與 rabbit 在整合測試不開)**
	sendUC := NewSendMessageUseCase(testMsgRepo, testShowRepo, feed, nil)
	reportUC := NewReportMessageUseCase(nil, nil)
	queryUC := NewChatQueryUseCase(testMsgRepo, testShowRepo, directory, presence)

	// **初始化 Handler 與 Fiber Server**
	cfg := integrationSessionConfig()
	wsHandler := NewChatWebsocketHandler(cfg, sendUC, reportUC, testMsgRepo, testShowRepo, feed, directory, presence)
	restHandler := NewChatHandler(queryUC, sendUC, reportUC, testShowRepo)

	chatApp = fiber.New()
	chatApp.Use(middlewares.JWTMiddleware())
	chatApp.Get("/ws/chat", websocket.New(func(c *websocket.Conn) {
		wsHandler.HandleConnection(context.Background(), c)
	}))
	shows := chatApp.Group("/shows")
	shows.Post("/", restHandler.CreateShow)
	shows.Get("/:show_id", restHandler.GetShow)
	shows.Put("/:show_id/lifecycle", restHandler.UpdateLifecycle)
	shows.Get("/:show_id/messages", restHandler.RecentMessages)
	shows.Post("/:show_id/messages", restHandler.PostMessage)
	shows.Get("/:show_id/state", restHandler.ChatState)
	shows.Post("/:show_id/reports", restHandler.ReportMessage)

	go func() {
		if err := chatApp.Listen(integrationPort); err != nil {
			log.Fatalf("❌ Failed to start chat server: %v", err)
		}
	}()
	fmt.Println("✅ Chat Server started at", integrationBase)

	// **等待 Server 啟動**
	time.Sleep(5 * time.Second)

	// **簽發測試 token**
	viewerToken, _ = token.GenerateJWT("viewer-001", string(token.RoleViewer), "chat_service")
	viewer2Token, _ = token.GenerateJWT("viewer-002", string(token.RoleViewer), "chat_service")
	sellerToken, _ = token.GenerateJWT("seller-001", string(token.RoleSeller), "chat_service")

	// **執行測試**
	code := m.Run()

	// **清理測試環境**
	_ = mongoContainer.Terminate(ctx)
	_ = redisContainer.Terminate(ctx)
	_ = postgresContainer.Terminate(ctx)
	chatApp.Shutdown()

	os.Exit(code)
}

// seedLiveShow 直接在 DB 建一場開播中的場次
func seedLiveShow(t *testing.T, title string) string {
	t.Helper()
	show := &domain.Show{
		ID:       uuid.New().String(),
		SellerID: "seller-001",
		Title:    title,
		IsLive:   true,
	}
	require.NoError(t, testShowRepo.Create(context.Background(), show))
	return show.ID
}

// dialWS 帶 token 連上聊天 websocket
func dialWS(t *testing.T, authToken string) *gws.Conn {
	t.Helper()
	conn, _, err := gws.DefaultDialer.Dial(integrationWS+"?auth="+authToken, nil)
	require.NoError(t, err, "WebSocket 連線失敗")
	return conn
}

// sendWS 發一個 action 出去
func sendWS(t *testing.T, conn *gws.Conn, req domain.WSRequest) {
	t.Helper()
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(gws.TextMessage, b))
}

// readUntil 一直讀到指定 action 為止，把中途讀到的都回傳
func readUntil(t *testing.T, conn *gws.Conn, action domain.Action, timeout time.Duration) (domain.WSResponse, []domain.WSResponse) {
	t.Helper()
	var seen []domain.WSResponse
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err, "讀取 websocket 訊息失敗")

		var resp domain.WSResponse
		require.NoError(t, json.Unmarshal(raw, &resp))
		if resp.Action == string(action) {
			return resp, seen
		}
		seen = append(seen, resp)
	}
	t.Fatalf("等不到 action %s", action)
	return domain.WSResponse{}, nil
}

// restJSON 打 REST 端點並解出 JSON
func restJSON(t *testing.T, method, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

// ✅ 1️⃣ 進場、發言、自己的訊息原路回帶
func TestWebsocketJoinAndEcho(t *testing.T) {
	showID := seedLiveShow(t, "週五晚場")

	conn := dialWS(t, viewerToken)
	defer conn.Close()

	sendWS(t, conn, domain.WSRequest{Action: string(domain.JoinShow), ShowID: showID})
	joinResp, _ := readUntil(t, conn, domain.JoinShow, 5*time.Second)
	assert.True(t, joinResp.Success, "進場失敗: %s", joinResp.Error)
	assert.Equal(t, true, joinResp.Payload["available"])
	fmt.Println("✅ 進場回應:", joinResp.Payload)

	sendWS(t, conn, domain.WSRequest{Action: string(domain.SendMessage), ShowID: showID, Body: "這件外套有 M 號嗎"})

	// name_resolved 要查完名錄才會到，拿它當收斂點，
	// 中間一定經過 notify_message（合併路徑回帶）跟 send_message 確認
	resolved, earlier := readUntil(t, conn, domain.NameResolved, 5*time.Second)
	names := resolved.Payload["names"].(map[string]interface{})
	assert.Equal(t, "小美", names["viewer-001"])
	fmt.Println("✅ 顯示名稱:", names)

	var ack *domain.WSResponse
	var notified bool
	for i := range earlier {
		switch earlier[i].Action {
		case string(domain.SendMessage):
			ack = &earlier[i]
		case string(domain.NotifyMessage):
			notified = true
		}
	}
	require.NotNil(t, ack, "沒收到發言確認")
	assert.True(t, ack.Success, "發言失敗: %s", ack.Error)
	assert.NotEmpty(t, ack.Payload["message_id"])
	assert.True(t, notified, "沒收到合併路徑回帶的 notify_message")
	fmt.Println("✅ 發言回應:", ack.Payload)
}

// ✅ 2️⃣ 第二位觀眾透過事件流收到別人的發言
func TestSecondViewerReceivesPush(t *testing.T) {
	showID := seedLiveShow(t, "雙人場")

	connA := dialWS(t, viewerToken)
	defer connA.Close()
	connB := dialWS(t, viewer2Token)
	defer connB.Close()

	sendWS(t, connA, domain.WSRequest{Action: string(domain.JoinShow), ShowID: showID})
	respA, _ := readUntil(t, connA, domain.JoinShow, 5*time.Second)
	require.True(t, respA.Success)

	sendWS(t, connB, domain.WSRequest{Action: string(domain.JoinShow), ShowID: showID})
	respB, _ := readUntil(t, connB, domain.JoinShow, 5*time.Second)
	require.True(t, respB.Success)

	sendWS(t, connA, domain.WSRequest{Action: string(domain.SendMessage), ShowID: showID, Body: "主播聲音好小"})
	ack, _ := readUntil(t, connA, domain.SendMessage, 5*time.Second)
	require.True(t, ack.Success)

	// B 透過 redis 推播（或下一拍輪詢）收到 A 的訊息
	notify, _ := readUntil(t, connB, domain.NotifyMessage, 5*time.Second)
	raw, err := json.Marshal(notify.Payload["messages"])
	require.NoError(t, err)
	var entries []domain.ChatEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, "主播聲音好小", entries[0].Body)
	fmt.Println("✅ 第二位觀眾收到:", entries[0].Body)
}

// ✅ 3️⃣ REST 近期訊息與聊天狀態
func TestRestMessagesAndState(t *testing.T) {
	showID := seedLiveShow(t, "REST 場")

	// 先用 REST 發兩句
	status, out := restJSON(t, http.MethodPost,
		fmt.Sprintf("%s/shows/%s/messages?auth=%s", integrationBase, showID, viewerToken),
		map[string]string{"body": "第一句"})
	require.Equal(t, http.StatusOK, status, "REST 發言失敗: %v", out)

	// 時間戳是毫秒，隔開兩句才不會同毫秒打平
	time.Sleep(20 * time.Millisecond)

	status, _ = restJSON(t, http.MethodPost,
		fmt.Sprintf("%s/shows/%s/messages?auth=%s", integrationBase, showID, viewer2Token),
		map[string]string{"body": "第二句"})
	require.Equal(t, http.StatusOK, status)

	// 近期訊息帶顯示名稱、照時間序
	status, out = restJSON(t, http.MethodGet,
		fmt.Sprintf("%s/shows/%s/messages?auth=%s&limit=10", integrationBase, showID, viewerToken), nil)
	require.Equal(t, http.StatusOK, status)

	raw, err := json.Marshal(out["messages"])
	require.NoError(t, err)
	var entries []domain.ChatEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "第一句", entries[0].Body)
	assert.Equal(t, "小美", entries[0].DisplayName)
	assert.Equal(t, "阿宏", entries[1].DisplayName)

	// 聊天狀態
	status, out = restJSON(t, http.MethodGet,
		fmt.Sprintf("%s/shows/%s/state?auth=%s", integrationBase, showID, viewerToken), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["available"])
	assert.Equal(t, false, out["ended"])
	fmt.Println("✅ REST 狀態:", out)
}

// ✅ 4️⃣ 賣家走完整生命週期，收尾後觀眾發言被擋
func TestSellerLifecycleGatesChat(t *testing.T) {
	// 賣家用 REST 開場
	status, out := restJSON(t, http.MethodPost,
		fmt.Sprintf("%s/shows/?auth=%s", integrationBase, sellerToken),
		map[string]string{"title": "清倉場"})
	require.Equal(t, http.StatusOK, status, "建立場次失敗: %v", out)
	showID := out["show_id"].(string)

	// 觀眾不能動生命週期
	status, _ = restJSON(t, http.MethodPut,
		fmt.Sprintf("%s/shows/%s/lifecycle?auth=%s", integrationBase, showID, viewerToken),
		map[string]bool{"is_live": true})
	assert.Equal(t, http.StatusForbidden, status)

	// 賣家開播
	status, _ = restJSON(t, http.MethodPut,
		fmt.Sprintf("%s/shows/%s/lifecycle?auth=%s", integrationBase, showID, sellerToken),
		map[string]bool{"is_live": true})
	require.Equal(t, http.StatusOK, status)

	conn := dialWS(t, viewerToken)
	defer conn.Close()
	sendWS(t, conn, domain.WSRequest{Action: string(domain.JoinShow), ShowID: showID})
	joinResp, _ := readUntil(t, conn, domain.JoinShow, 5*time.Second)
	require.True(t, joinResp.Success)

	sendWS(t, conn, domain.WSRequest{Action: string(domain.SendMessage), ShowID: showID, Body: "開播前就想買了"})
	ack, _ := readUntil(t, conn, domain.SendMessage, 5*time.Second)
	require.True(t, ack.Success)

	// 賣家收尾，聊天要關
	status, _ = restJSON(t, http.MethodPut,
		fmt.Sprintf("%s/shows/%s/lifecycle?auth=%s", integrationBase, showID, sellerToken),
		map[string]bool{"is_live": true, "is_ending": true})
	require.Equal(t, http.StatusOK, status)

	// 等 session 的可用性輪詢跟上（或發言被寫入層擋下）
	sendWS(t, conn, domain.WSRequest{Action: string(domain.SendMessage), ShowID: showID, Body: "還能下單嗎"})
	reject, _ := readUntil(t, conn, domain.SendMessage, 5*time.Second)
	assert.False(t, reject.Success)
	assert.Contains(t, reject.Error, "not available")
	fmt.Println("✅ 收尾後發言被擋:", reject.Error)
}

// ✅ 5️⃣ 檢舉訊息
func TestReportViaWebsocket(t *testing.T) {
	showID := seedLiveShow(t, "檢舉場")

	conn := dialWS(t, viewerToken)
	defer conn.Close()
	sendWS(t, conn, domain.WSRequest{Action: string(domain.JoinShow), ShowID: showID})
	joinResp, _ := readUntil(t, conn, domain.JoinShow, 5*time.Second)
	require.True(t, joinResp.Success)

	// 合法原因
	sendWS(t, conn, domain.WSRequest{Action: string(domain.ReportMessage), ShowID: showID, MessageID: "msg-x", Reason: "spam"})
	resp, _ := readUntil(t, conn, domain.ReportMessage, 5*time.Second)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Payload["report_id"])

	// 不在名單內的原因
	sendWS(t, conn, domain.WSRequest{Action: string(domain.ReportMessage), ShowID: showID, MessageID: "msg-x", Reason: "boring"})
	resp, _ = readUntil(t, conn, domain.ReportMessage, 5*time.Second)
	assert.False(t, resp.Success)
	fmt.Println("✅ 檢舉回應:", resp.Error)
}
