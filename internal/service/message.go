package service

import (
	"time"

	"msgboard/internal/models"

	"gorm.io/gorm"
)

// MessageService 封装只追加的消息日志：写入分配严格递增的 message_id，
// 查询按 message_id 升序返回，客户端用它做增量轮询的游标。
type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// MessageDTO 是对外输出的消息数据，from_is_human 在查询时联表取当前值。
type MessageDTO struct {
	MessageID        int64     `json:"message_id"`
	ReplyToMessageID *int64    `json:"reply_to_message_id"`
	FromUsername     string    `json:"from_username"`
	FromIsHuman      bool      `json:"from_is_human"`
	ReplyToUsername  *string   `json:"reply_to_username"`
	Message          string    `json:"message"`
	Datetime         time.Time `json:"datetime"`
}

// Filter 是通用查询的过滤条件。MinID 是排他下界；FromUser/ToUser 为空表示
// 不过滤；Limit 非正时取默认值 100，超过 1000 截断为 1000。
type Filter struct {
	MinID    int64
	FromUser string
	ToUser   string
	Limit    int
}

// Append 追加一条消息并返回分配的 message_id。reply_to_message_id 和
// reply_to_username 都是自由引用，不校验指向的消息或用户是否存在。
func (s *MessageService) Append(from string, replyToUser *string, text string, replyToID *int64) (int64, error) {
	msg := models.Message{
		ReplyToMessageID: replyToID,
		FromUsername:     from,
		ReplyToUsername:  replyToUser,
		Message:          text,
		Datetime:         time.Now().UTC(),
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (s *MessageService) base(minID int64) *gorm.DB {
	return s.db.Table("messages m").
		Select("m.message_id, m.reply_to_message_id, m.from_username, u.is_human AS from_is_human, m.reply_to_username, m.message, m.datetime").
		Joins("JOIN users u ON u.username = m.from_username").
		Where("m.message_id > ?", minID).
		Order("m.message_id ASC")
}

// clampLimit 把调用方给的 limit 规整到 [1, 1000]：非正取默认 100，
// 过大截断到上限 1000。
func clampLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

// Query 按过滤条件查询消息，升序返回，最多 Limit 条。
func (s *MessageService) Query(f Filter) ([]MessageDTO, error) {
	limit := clampLimit(f.Limit)
	q := s.base(f.MinID)
	if f.FromUser != "" {
		q = q.Where("m.from_username = ?", f.FromUser)
	}
	if f.ToUser != "" {
		q = q.Where("m.reply_to_username = ?", f.ToUser)
	}
	return scan(q.Limit(limit))
}

// Broadcasts 返回 minID 之后的全部广播消息（收件人为空）。与通用查询不同，
// 广播流不截断，轮询方可以放心把游标推进到本页最后一条。
func (s *MessageService) Broadcasts(minID int64) ([]MessageDTO, error) {
	q := s.base(minID).Where("m.reply_to_username IS NULL OR m.reply_to_username = ''")
	return scan(q)
}

// Direct 返回 minID 之后发给指定用户的私信。
func (s *MessageService) Direct(minID int64, username string) ([]MessageDTO, error) {
	q := s.base(minID).Where("m.reply_to_username = ?", username)
	return scan(q)
}

func scan(q *gorm.DB) ([]MessageDTO, error) {
	out := make([]MessageDTO, 0)
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Datetime = out[i].Datetime.UTC()
	}
	return out, nil
}
