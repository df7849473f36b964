package service

import (
	"encoding/json"
	"errors"

	"msgboard/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService 封装用户相关的业务逻辑，用户表只由启动引导写入。
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// SeedUser 是启动配置里的单个用户条目。
type SeedUser struct {
	Username string `json:"username"`
	Codeword string `json:"codeword"`
	IsHuman  *bool  `json:"is_human"`
}

// Upsert 以单条 INSERT ... ON CONFLICT 写入用户：已存在时只覆盖 codeword，
// is_human 保持原值不变。
func (s *UserService) Upsert(username, codeword string, isHuman bool) error {
	user := models.User{Username: username, Codeword: codeword, IsHuman: isHuman}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"codeword"}),
	}).Create(&user).Error
}

// Lookup 按用户名查询用户。
func (s *UserService) Lookup(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Bootstrap 解析配置里的用户列表并逐条 upsert。单条非法只记日志跳过，
// 整体解析失败只放弃本批次，不影响服务启动。
func (s *UserService) Bootstrap(usersJSON string) error {
	var seeds []SeedUser
	if err := json.Unmarshal([]byte(usersJSON), &seeds); err != nil {
		log.Error().Err(err).Msg("bootstrap users parse")
		return err
	}
	for _, seed := range seeds {
		if seed.Username == "" || seed.Codeword == "" {
			log.Warn().Str("username", seed.Username).Msg("bootstrap users skip entry")
			continue
		}
		isHuman := true
		if seed.IsHuman != nil {
			isHuman = *seed.IsHuman
		}
		if err := s.Upsert(seed.Username, seed.Codeword, isHuman); err != nil {
			log.Error().Err(err).Str("username", seed.Username).Msg("bootstrap users upsert")
			continue
		}
	}
	return nil
}

// IsNotFound 判断错误是否代表“用户不存在”。
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
