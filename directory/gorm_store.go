// directory/gorm_store.go
package directory

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore 使用GORM的目录存储实现
type GormStore struct {
	db *gorm.DB
}

// LobbyModel 大厅表结构
type LobbyModel struct {
	gorm.Model
	Code        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	PlayerCount int    `gorm:"default:0"`
	Round       int    `gorm:"default:1"`
}

// NewGormStore 创建GORM PostgreSQL目录存储
func NewGormStore(host string, port int, user, password, dbname string) (*GormStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&LobbyModel{}); err != nil {
		return nil, err
	}

	return &GormStore{db: db}, nil
}

// UpsertLobby 更新或创建大厅记录
func (s *GormStore) UpsertLobby(code, name string, playerCount, round int) error {
	var lobby LobbyModel
	result := s.db.Where("code = ?", code).First(&lobby)

	if result.Error == gorm.ErrRecordNotFound {
		lobby = LobbyModel{
			Code:        code,
			Name:        name,
			PlayerCount: playerCount,
			Round:       round,
		}
		return s.db.Create(&lobby).Error
	} else if result.Error != nil {
		return result.Error
	}

	lobby.Name = name
	lobby.PlayerCount = playerCount
	lobby.Round = round
	return s.db.Save(&lobby).Error
}

// RemoveLobby 删除大厅记录
func (s *GormStore) RemoveLobby(code string) error {
	return s.db.Where("code = ?", code).Delete(&LobbyModel{}).Error
}

// ListLobbies 列出所有可发现的大厅
func (s *GormStore) ListLobbies() ([]Lobby, error) {
	var rows []LobbyModel
	if err := s.db.Order("updated_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	lobbies := make([]Lobby, 0, len(rows))
	for _, row := range rows {
		lobbies = append(lobbies, Lobby{
			Code:        row.Code,
			Name:        row.Name,
			PlayerCount: row.PlayerCount,
			Round:       row.Round,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return lobbies, nil
}

// Close 关闭数据库连接
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
