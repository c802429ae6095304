package app

import (
	"errors"
	"net/http"
	"strconv"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/internal/chat/repository"
	"live_shopping_service/pkg/logger"
	"live_shopping_service/pkg/middlewares"
	"live_shopping_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ChatHandler 聊天相關的 REST 端點，
// 給賣家後台、驗收測試跟不走 websocket 的讀取方用
type ChatHandler struct {
	queryUC  *ChatQueryUseCase
	sendUC   *SendMessageUseCase
	reportUC *ReportMessageUseCase
	showRepo repository.ShowRepository
}

// NewChatHandler create a ChatHandler
func NewChatHandler(
	queryUC *ChatQueryUseCase,
	sendUC *SendMessageUseCase,
	reportUC *ReportMessageUseCase,
	showRepo repository.ShowRepository,
) *ChatHandler {
	return &ChatHandler{
		queryUC:  queryUC,
		sendUC:   sendUC,
		reportUC: reportUC,
		showRepo: showRepo,
	}
}

// CreateShow 建立直播場次
// @Summary 建立直播場次
// @Description 賣家建立場次，建立後預設未開播
// @Tags Shows
// @Accept json
// @Produce json
// @Param auth query string false "JWT"
// @Param request body object true "場次資訊"
// @Success 200 {object} string "建立成功"
// @Failure 400 {object} string "請求錯誤"
// @Failure 403 {object} string "非賣家"
// @Router /shows [post]
func (h *ChatHandler) CreateShow(c *fiber.Ctx) error {
	type request struct {
		Title string `json:"title"`
	}

	// 1. 只有賣家能開場
	role, _ := c.Locals(middlewares.TokenRole).(string)
	if role != string(token.RoleSeller) {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "只有賣家能建立場次"})
	}
	sellerID, _ := c.Locals(middlewares.TokenMemberID).(string)

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	// 2. 建立場次，未開播
	show := domain.Show{
		ID:       uuid.New().String(),
		SellerID: sellerID,
		Title:    req.Title,
	}
	if err := h.showRepo.Create(c.Context(), &show); err != nil {
		logger.Log.Errorf("create show failed:", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "建立場次失敗"})
	}

	return c.JSON(fiber.Map{"show_id": show.ID})
}

// UpdateLifecycle 更新場次生命週期
// @Summary 更新場次生命週期
// @Description 賣家切換開播、收尾、下播狀態
// @Tags Shows
// @Accept json
// @Produce json
// @Param auth query string false "JWT"
// @Param show_id path string true "場次 ID"
// @Param request body object true "生命週期旗標"
// @Success 200 {object} string "更新成功"
// @Failure 403 {object} string "非本場賣家"
// @Failure 404 {object} string "場次不存在"
// @Router /shows/{show_id}/lifecycle [put]
func (h *ChatHandler) UpdateLifecycle(c *fiber.Ctx) error {
	type request struct {
		IsLive   bool `json:"is_live"`
		IsEnding bool `json:"is_ending"`
	}

	showID := c.Params("show_id")

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	show, err := h.showRepo.GetByID(c.Context(), showID)
	if err != nil {
		if errors.Is(err, domain.ErrShowNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "場次不存在"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "查詢場次失敗"})
	}

	// 只有本場賣家能動生命週期
	memberID, _ := c.Locals(middlewares.TokenMemberID).(string)
	if show.SellerID != memberID {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "非本場賣家"})
	}

	// 開播與下播的時間點順手記起來
	if req.IsLive && !show.IsLive && show.StartedAt == 0 {
		show.StartedAt = nowFunc().UnixMilli()
	}
	if !req.IsLive && show.IsLive {
		show.EndedAt = nowFunc().UnixMilli()
	}
	show.IsLive = req.IsLive
	show.IsEnding = req.IsEnding

	if err := h.showRepo.Update(c.Context(), show); err != nil {
		logger.Log.Errorf("update show lifecycle failed:", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "更新場次失敗"})
	}

	return c.JSON(fiber.Map{"show_id": show.ID, "is_live": show.IsLive, "is_ending": show.IsEnding})
}

// GetShow 查場次
// @Summary 查場次
// @Tags Shows
// @Produce json
// @Param auth query string false "JWT"
// @Param show_id path string true "場次 ID"
// @Success 200 {object} domain.Show
// @Failure 404 {object} string "場次不存在"
// @Router /shows/{show_id} [get]
func (h *ChatHandler) GetShow(c *fiber.Ctx) error {
	show, err := h.showRepo.GetByID(c.Context(), c.Params("show_id"))
	if err != nil {
		if errors.Is(err, domain.ErrShowNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "場次不存在"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "查詢場次失敗"})
	}
	return c.JSON(show)
}

// RecentMessages 近期訊息
// @Summary 近期訊息
// @Description 依時間序回傳場次近期訊息，帶顯示名稱
// @Tags Chat
// @Produce json
// @Param auth query string false "JWT"
// @Param show_id path string true "場次 ID"
// @Param limit query int false "筆數上限"
// @Success 200 {object} []domain.ChatEntry
// @Failure 500 {object} string "查詢失敗"
// @Router /shows/{show_id}/messages [get]
func (h *ChatHandler) RecentMessages(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = 50
	}

	entries, err := h.queryUC.RecentMessages(c.Context(), c.Params("show_id"), limit)
	if err != nil {
		logger.Log.Errorf("query recent messages failed:", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "查詢失敗"})
	}
	return c.JSON(fiber.Map{"messages": entries})
}

// ChatState 聊天室狀態
// @Summary 聊天室狀態
// @Description 場次聊天可用性與在線人數
// @Tags Chat
// @Produce json
// @Param auth query string false "JWT"
// @Param show_id path string true "場次 ID"
// @Success 200 {object} domain.AvailabilityState
// @Failure 404 {object} string "場次不存在"
// @Router /shows/{show_id}/state [get]
func (h *ChatHandler) ChatState(c *fiber.Ctx) error {
	state, count, err := h.queryUC.ShowState(c.Context(), c.Params("show_id"))
	if err != nil {
		if errors.Is(err, domain.ErrShowNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "場次不存在"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "查詢失敗"})
	}
	return c.JSON(fiber.Map{
		"available":    state.Available,
		"ended":        state.Ended,
		"viewer_count": count,
	})
}

// PostMessage 發言
// @Summary 發言
// @Description 場次可發言時寫入訊息，回傳 server 確認的 id 與時間
// @Tags Chat
// @Accept json
// @Produce json
// @Param auth query string false "JWT"
// @Param show_id path string true "場次 ID"
// @Param request body object true "訊息內容"
// @Success 200 {object} string "發送成功"
// @Failure 400 {object} string "內容不合法"
// @Failure 409 {object} string "聊天室不可用"
// @Router /shows/{show_id}/messages [post]
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	type request struct {
		Body string `json:"body"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	memberID, _ := c.Locals(middlewares.TokenMemberID).(string)
	role := domain.SenderViewer
	if r, _ := c.Locals(middlewares.TokenRole).(string); domain.SenderRole(r) == domain.SenderSeller {
		role = domain.SenderSeller
	}

	msg, err := h.sendUC.Execute(c.Context(), c.Params("show_id"), memberID, role, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChatUnavailable):
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrMessageTooLong):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, domain.ErrShowNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			logger.Log.Errorf("post message failed:", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "發送失敗"})
		}
	}

	return c.JSON(fiber.Map{"message_id": msg.ID, "created_at": msg.CreatedAt})
}

// ReportMessage 檢舉訊息
// @Summary 檢舉訊息
// @Description 檢舉場次內的訊息，送進審核佇列
// @Tags Chat
// @Accept json
// @Produce json
// @Param auth query string false "JWT"
// @Param show_id path string true "場次 ID"
// @Param request body object true "檢舉內容"
// @Success 200 {object} string "檢舉成功"
// @Failure 400 {object} string "原因不在名單內"
// @Router /shows/{show_id}/reports [post]
func (h *ChatHandler) ReportMessage(c *fiber.Ctx) error {
	type request struct {
		MessageID string `json:"message_id"`
		Reason    string `json:"reason"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	reporterID, _ := c.Locals(middlewares.TokenMemberID).(string)

	reportID, err := h.reportUC.Execute(c.Context(), c.Params("show_id"), req.MessageID, reporterID, req.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownReportReason) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		logger.Log.Errorf("report message failed:", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "檢舉失敗"})
	}

	return c.JSON(fiber.Map{"report_id": reportID})
}
