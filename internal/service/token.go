package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"msgboard/internal/models"

	"gorm.io/gorm"
)

// TokenService 签发并校验不透明的 Bearer token，token 落库以便重启后仍有效。
type TokenService struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewTokenService(db *gorm.DB, ttl time.Duration) *TokenService {
	return &TokenService{db: db, ttl: ttl}
}

// NewToken 生成 16 字节随机数的十六进制表示（128 位熵）。
func NewToken() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Issue 校验 codeword 并签发新 token。用户不存在或 codeword 不匹配时
// 统一返回 ErrInvalidCredentials。
func (s *TokenService) Issue(username, codeword string) (*models.Token, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Codeword != codeword {
		return nil, ErrInvalidCredentials
	}
	tok, err := NewToken()
	if err != nil {
		return nil, err
	}
	rec := models.Token{Token: tok, Username: username, Expires: time.Now().UTC().Add(s.ttl)}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Validate 按存储的绝对过期时间校验 token。token 不存在或已过期都返回
// ErrUnauthenticated；过期的行保留不删，有效期没有滑动续期。
func (s *TokenService) Validate(token string) (string, error) {
	var rec models.Token
	if err := s.db.Where("token = ?", token).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnauthenticated
		}
		return "", err
	}
	if !time.Now().UTC().Before(rec.Expires) {
		return "", ErrUnauthenticated
	}
	return rec.Username, nil
}
