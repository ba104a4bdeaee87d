package database

import (
	"time"

	"github.com/hedge-analytics/internal/config"
	"github.com/hedge-analytics/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and configures the connection pool
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates the tables and the database-side objects (cleanup
// routine, updated_at trigger, activity view) the application relies on
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.ResetCode{},
		&models.CacheEntry{},
		&models.AnalysisRecord{},
		&models.UserSettings{},
	); err != nil {
		return err
	}
	return createSchemaObjects(db)
}

// createSchemaObjects installs the stored routines and the view.
// All statements are idempotent so Migrate can run on every startup.
func createSchemaObjects(db *gorm.DB) error {
	statements := []string{
		// Batch deletion of expired cache entries and reset codes.
		// Strictly-before comparison: rows expiring exactly now survive
		// until the next invocation.
		`CREATE OR REPLACE FUNCTION cleanup_expired_data() RETURNS void AS $$
BEGIN
    DELETE FROM data_cache WHERE expires_at < NOW();
    DELETE FROM reset_codes WHERE expires_at < NOW();
END;
$$ LANGUAGE plpgsql`,

		// Forces updated_at to the statement time on every settings
		// update, ignoring any caller-supplied value.
		`CREATE OR REPLACE FUNCTION update_updated_at_column() RETURNS trigger AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql`,

		`DROP TRIGGER IF EXISTS update_user_settings_updated_at ON user_settings`,

		`CREATE TRIGGER update_user_settings_updated_at
    BEFORE UPDATE ON user_settings
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column()`,

		// Per-user activity aggregate over active accounts. Users with
		// no analyses still appear with a zero count.
		`CREATE OR REPLACE VIEW user_activity_stats AS
SELECT
    u.user_id,
    u.username,
    u.email,
    u.subscription_tier,
    u.created_at,
    u.last_login,
    COUNT(a.analysis_id) AS total_analyses,
    MAX(a.created_at)    AS last_analysis_time
FROM users u
LEFT JOIN analysis_history a ON a.user_id = u.user_id
WHERE u.is_active = true
GROUP BY u.user_id, u.username, u.email, u.subscription_tier, u.created_at, u.last_login`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
