package gormdb

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 按database.driver选择方言（mysql / postgres / sqlite），仓储代码与方言无关
// 2. 开启TranslateError，唯一键冲突统一成gorm.ErrDuplicatedKey
// 3. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := openDialector(cfg.Database.Driver, cfg.Database.ConnString())
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	zap.L().Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", driver)
	}
}

// AutoMigrate 迁移五张表：三张实体表和两张纯边表
// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&BookModel{},
		&AuthorModel{},
		&WorkModel{},
		&BookAuthorModel{},
		&BookWorkModel{},
	); err != nil {
		return err
	}
	return backfillFolded(db)
}

// backfillFolded 为折叠列出现之前写入的行补齐折叠值
func backfillFolded(db *gorm.DB) error {
	var authors []AuthorModel
	err := db.Where("name_folded = ? AND name <> ?", "", "").
		FindInBatches(&authors, 500, func(_ *gorm.DB, _ int) error {
			for _, a := range authors {
				if err := db.Model(&AuthorModel{}).Where("id = ?", a.ID).
					Update("name_folded", foldCase(a.Name)).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return err
	}

	var works []WorkModel
	return db.Where("title_folded = ? AND title <> ?", "", "").
		FindInBatches(&works, 500, func(_ *gorm.DB, _ int) error {
			for _, w := range works {
				if err := db.Model(&WorkModel{}).Where("id = ?", w.ID).
					Update("title_folded", foldCase(w.Title)).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}
